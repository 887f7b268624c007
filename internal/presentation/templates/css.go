// Package templates provides class-name resolution and page layout rendering
package templates

import "strings"

// JoinClassNames merges class tokens into one class attribute value. Empty
// tokens are dropped, whitespace-separated tokens are split, and each class
// appears once in first-occurrence order.
func JoinClassNames(tokens ...string) string {
	seen := make(map[string]struct{}, len(tokens))
	classes := make([]string, 0, len(tokens))

	for _, token := range tokens {
		for _, class := range strings.Fields(token) {
			if _, dup := seen[class]; dup {
				continue
			}
			seen[class] = struct{}{}
			classes = append(classes, class)
		}
	}

	return strings.Join(classes, " ")
}
