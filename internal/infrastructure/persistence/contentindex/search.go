package contentindex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	// DefaultSearchLimit caps results when the caller gives no limit.
	DefaultSearchLimit = 20
	// MaxSearchLimit is the largest limit Search accepts.
	MaxSearchLimit = 100
	maxSearchTerms = 8
	snippetRadius  = 60
)

// ErrEmptyQuery is returned when a search query has no terms.
var ErrEmptyQuery = errors.New("empty search query")

// SearchResult is a page matching a search, with an excerpt of its content
// around the first match.
type SearchResult struct {
	*Entry
	Snippet string `json:"snippet"`
}

// Search finds pages whose title, description, tags or content contain every
// whitespace separated term of q, case-insensitively. Title matches on the
// first term rank first, then results are ordered by slug.
func (r *Repository) Search(ctx context.Context, q string, limit int) ([]*SearchResult, error) {
	terms := strings.Fields(q)
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}
	if len(terms) > maxSearchTerms {
		terms = terms[:maxSearchTerms]
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)

	var where []string
	var args []any
	for _, term := range terms {
		pattern := likePattern(term)
		where = append(where, `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	args = append(args, likePattern(terms[0]), limit)

	query := `SELECT slug, file_path, title, description, tags, links, modified_at, build_id, content FROM pages
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY CASE WHEN title LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, slug
		LIMIT ?`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search pages: %w", err)
	}
	defer rows.Close()

	results := []*SearchResult{}
	for rows.Next() {
		e, err := scanEntry(rows.Scan, true)
		if err != nil {
			return nil, err
		}
		results = append(results, &SearchResult{Entry: e, Snippet: snippet(e.Content, terms)})
		e.Content = ""
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to search pages: %w", err)
	}

	r.logger.Database().Debug("Search completed", "query", q, "results", len(results), "duration", time.Since(start))
	return results, nil
}

// likePattern wraps term for a LIKE match, escaping its wildcards.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

// snippet returns the text around the earliest match of any term, or the
// start of the text when no term occurs in it.
func snippet(text string, terms []string) string {
	runes := []rune(text)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	at := -1
	for _, term := range terms {
		if i := indexRunes(lower, []rune(strings.ToLower(term))); i >= 0 && (at < 0 || i < at) {
			at = i
		}
	}
	if at < 0 {
		at = 0
	}

	from := max(at-snippetRadius, 0)
	to := min(at+snippetRadius, len(runes))
	out := strings.TrimSpace(string(runes[from:to]))
	if from > 0 {
		out = "..." + out
	}
	if to < len(runes) {
		out += "..."
	}
	return out
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, r := range needle {
			if haystack[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
