package elements

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
)

// allowedTags is the set of tags Tag will emit. Anything else becomes a div.
var allowedTags = map[atom.Atom]struct{}{
	atom.Div:     {},
	atom.P:       {},
	atom.Span:    {},
	atom.Section: {},
	atom.Article: {},
	atom.Header:  {},
	atom.Footer:  {},
	atom.H1:      {},
	atom.H2:      {},
	atom.H3:      {},
	atom.Ul:      {},
	atom.Li:      {},
	atom.Em:      {},
	atom.Strong:  {},
	atom.I:       {},
}

// Tag builds an element from the allowlist with an optional class attribute.
func Tag(name, class string, children ...*html.Node) *html.Node {
	tag := atom.Lookup([]byte(name))
	if _, ok := allowedTags[tag]; !ok {
		tag = atom.Div
	}

	var attrs []html.Attribute
	if class != "" {
		attrs = []html.Attribute{{Key: "class", Val: class}}
	}

	return rendering.Element(tag, attrs, children...)
}
