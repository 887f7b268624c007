// Package content discovers markdown files in the content directory and turns
// them into pages ready for rendering.
package content

import (
	"time"

	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

// Page is one parsed content file.
type Page struct {
	Slug        sitepath.FullSlug `json:"slug"`
	FilePath    sitepath.FilePath `json:"filePath"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Draft       bool              `json:"-"`
	Links       []string          `json:"links,omitempty"`
	HTML        string            `json:"-"`
	Text        string            `json:"content"`
	ModTime     time.Time         `json:"date"`
}
