package components

import (
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates/elements"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

// LogoAsset is where the masked logo icon is published, relative to the site root.
const LogoAsset = "static/logo.svg"

const logoCSS = `
.page-title {
  margin: 0;
}

.logo {
  width: 80px;
  height: 60px;
  background-color: var(--tertiary);
  -webkit-mask: url("static/logo.svg") no-repeat center / contain;
  mask: url("static/logo.svg") no-repeat center / contain;
  display: inline-block;
}
`

// Logo renders the site logo as a link back to the site root.
type Logo struct{}

// NewLogo creates the logo component.
func NewLogo() *Logo {
	return &Logo{}
}

func (l *Logo) Name() string { return "Logo" }

// Render returns <a href="{root}" class="{display} page-title"><i class="logo"></i></a>.
// ctx.Cfg is accepted for interface uniformity and not read.
func (l *Logo) Render(ctx *rendering.RenderContext) (*rendering.Fragment, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}

	classes := append(append([]string(nil), ctx.DisplayClass...), "page-title")
	icon := elements.Tag("i", "logo")

	return rendering.NewFragment(elements.Anchor(
		sitepath.PathToRoot(ctx.Slug),
		templates.JoinClassNames(classes...),
		icon,
	)), nil
}

func (l *Logo) CSS() string { return logoCSS }
