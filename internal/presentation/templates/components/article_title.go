package components

import (
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates/elements"
)

const articleTitleCSS = `
.article-title {
  margin: 2rem 0 0 0;
}
`

// ArticleTitle renders the page title as the article heading. Pages without a
// title render an empty fragment.
type ArticleTitle struct{}

func NewArticleTitle() *ArticleTitle { return &ArticleTitle{} }

func (a *ArticleTitle) Name() string { return "ArticleTitle" }

func (a *ArticleTitle) Render(ctx *rendering.RenderContext) (*rendering.Fragment, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	if ctx.Title == "" {
		return rendering.NewFragment(nil), nil
	}

	class := templates.JoinClassNames(append(append([]string(nil), ctx.DisplayClass...), "article-title")...)
	return rendering.NewFragment(elements.Tag("h1", class, rendering.Text(ctx.Title))), nil
}

func (a *ArticleTitle) CSS() string { return articleTitleCSS }
