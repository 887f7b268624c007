package components

import (
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates/elements"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

const tagListCSS = `
.tags {
  list-style: none;
  display: flex;
  padding-left: 0;
  gap: 0.4rem;
  margin: 1rem 0;
  flex-wrap: wrap;
}

.tags > li {
  display: inline-block;
  white-space: nowrap;
  margin: 0;
  overflow-wrap: normal;
}

a.internal.tag-link {
  border-radius: 8px;
  background-color: var(--highlight);
  padding: 0.2rem 0.4rem;
  margin: 0 0.1rem;
}
`

// TagList renders the page's tags as links to their tag pages.
type TagList struct{}

func NewTagList() *TagList { return &TagList{} }

func (tl *TagList) Name() string { return "TagList" }

func (tl *TagList) Render(ctx *rendering.RenderContext) (*rendering.Fragment, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	if len(ctx.Tags) == 0 {
		return rendering.NewFragment(nil), nil
	}

	list := elements.Tag("ul", templates.JoinClassNames(append(append([]string(nil), ctx.DisplayClass...), "tags")...))
	for _, tag := range ctx.Tags {
		target := sitepath.FullSlug(sitepath.JoinSegments("tags", string(sitepath.SlugifyFilePath(sitepath.FilePath(tag))), "index"))
		link := elements.Anchor(sitepath.ResolveRelative(ctx.Slug, target), "internal tag-link", rendering.Text(tag))
		list.AppendChild(elements.Tag("li", "", link))
	}

	return rendering.NewFragment(list), nil
}

func (tl *TagList) CSS() string { return tagListCSS }
