// Package components provides the page components mounted by the page
// assembly. Each component renders a fragment from a RenderContext and owns a
// static stylesheet that the style service emits once per build.
package components

import (
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
)

// Component is the shape the page assembly mounts.
type Component interface {
	// Name identifies the component type. Styles are deduplicated by name.
	Name() string
	// Render builds the component's markup for one page. Implementations must
	// not retain or mutate ctx.
	Render(ctx *rendering.RenderContext) (*rendering.Fragment, error)
	// CSS returns the component's static stylesheet, or "" for none.
	CSS() string
}

// Header returns the components mounted in every page header, in order.
func Header() []Component {
	return []Component{NewLogo()}
}

// BeforeBody returns the components mounted above the article body.
func BeforeBody() []Component {
	return []Component{NewArticleTitle(), NewTagList()}
}
