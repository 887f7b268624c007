// Package rendering provides domain entities for HTML rendering operations
package rendering

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/site"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

// ErrInvalidContext is matched by every InvalidContextError.
var ErrInvalidContext = errors.New("invalid render context")

// InvalidContextError reports a render context that is missing a required field.
type InvalidContextError struct {
	Field string
}

func (e *InvalidContextError) Error() string {
	return fmt.Sprintf("invalid render context: %s is required", e.Field)
}

// Is lets errors.Is(err, ErrInvalidContext) match.
func (e *InvalidContextError) Is(target error) bool {
	return target == ErrInvalidContext
}

// RenderContext provides the context for rendering one page. It is built once
// per page by the build pipeline and must not be mutated by components.
type RenderContext struct {
	Slug         sitepath.FullSlug `json:"slug"`
	Cfg          *site.Config      `json:"cfg,omitempty"`
	DisplayClass []string          `json:"displayClass,omitempty"`
	Title        string            `json:"title,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
}

// NewRenderContext builds and validates a context for slug.
func NewRenderContext(slug sitepath.FullSlug, cfg *site.Config, displayClass ...string) (*RenderContext, error) {
	ctx := &RenderContext{Slug: slug, Cfg: cfg, DisplayClass: displayClass}
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Validate rejects contexts whose page location cannot be determined.
func (c *RenderContext) Validate() error {
	if c == nil {
		return &InvalidContextError{Field: "context"}
	}
	if strings.Trim(string(c.Slug), "/") == "" {
		return &InvalidContextError{Field: "slug"}
	}
	return nil
}

// WithDisplayClass returns a copy of the context carrying extra class tokens.
func (c *RenderContext) WithDisplayClass(classes ...string) *RenderContext {
	cp := *c
	cp.DisplayClass = append(append([]string(nil), c.DisplayClass...), classes...)
	return &cp
}
