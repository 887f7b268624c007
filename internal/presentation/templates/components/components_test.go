package components

import (
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/site"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

func renderLogo(t *testing.T, ctx *rendering.RenderContext) *rendering.Fragment {
	t.Helper()
	f, err := NewLogo().Render(ctx)
	require.NoError(t, err)
	return f
}

func TestLogoNestedPage(t *testing.T) {
	f := renderLogo(t, &rendering.RenderContext{Slug: "posts/2024/a", Cfg: site.DefaultConfig()})

	href, _ := f.Attr("href")
	class, _ := f.Attr("class")
	assert.Equal(t, "../..", href)
	assert.Equal(t, "page-title", class)
	assert.Equal(t, `<a href="../.." class="page-title"><i class="logo"></i></a>`, f.String())
}

func TestLogoHrefResolvesToRoot(t *testing.T) {
	for _, slug := range []sitepath.FullSlug{"index", "about", "posts/index", "posts/2024/a", "a/b/c/d"} {
		f := renderLogo(t, &rendering.RenderContext{Slug: slug})
		href, _ := f.Attr("href")

		resolved := path.Join(path.Dir("/"+sitepath.OutputPath(slug)), href)
		assert.Equal(t, "/", resolved, "slug %q", slug)
	}
}

func TestLogoRootPageLinksToItself(t *testing.T) {
	f := renderLogo(t, &rendering.RenderContext{Slug: "index"})
	href, _ := f.Attr("href")
	assert.Equal(t, ".", href)
}

func TestLogoDisplayClass(t *testing.T) {
	f := renderLogo(t, &rendering.RenderContext{Slug: "index", DisplayClass: []string{"extra"}})
	class, _ := f.Attr("class")
	assert.Equal(t, "extra page-title", class)

	f = renderLogo(t, &rendering.RenderContext{Slug: "index", DisplayClass: []string{"page-title", "extra"}})
	class, _ = f.Attr("class")
	assert.Equal(t, "page-title extra", class)
}

func TestLogoMissingSlug(t *testing.T) {
	_, err := NewLogo().Render(&rendering.RenderContext{Cfg: site.DefaultConfig()})
	assert.ErrorIs(t, err, rendering.ErrInvalidContext)

	_, err = NewLogo().Render(nil)
	assert.ErrorIs(t, err, rendering.ErrInvalidContext)
}

func TestLogoDeterministic(t *testing.T) {
	ctx := &rendering.RenderContext{Slug: "posts/a", DisplayClass: []string{"desktop-only"}}
	first := renderLogo(t, ctx).String()

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := NewLogo().Render(ctx)
			if err == nil {
				results[i] = f.String()
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, first, r)
	}
	assert.Equal(t, []string{"desktop-only"}, ctx.DisplayClass, "context must not be mutated")
}

func TestLogoCSS(t *testing.T) {
	css := NewLogo().CSS()
	assert.Equal(t, css, NewLogo().CSS())
	assert.Contains(t, css, "width: 80px;")
	assert.Contains(t, css, "height: 60px;")
	assert.Contains(t, css, "var(--tertiary)")
	assert.Contains(t, css, `url("`+LogoAsset+`")`)
	assert.Contains(t, css, "display: inline-block;")
}

func TestArticleTitle(t *testing.T) {
	f, err := NewArticleTitle().Render(&rendering.RenderContext{Slug: "a", Title: "Hello & Bye"})
	require.NoError(t, err)
	assert.Equal(t, `<h1 class="article-title">Hello &amp; Bye</h1>`, f.String())

	f, err = NewArticleTitle().Render(&rendering.RenderContext{Slug: "a"})
	require.NoError(t, err)
	assert.Empty(t, f.String())
}

func TestTagList(t *testing.T) {
	f, err := NewTagList().Render(&rendering.RenderContext{Slug: "posts/a", Tags: []string{"go", "web dev"}})
	require.NoError(t, err)

	out := f.String()
	assert.True(t, strings.HasPrefix(out, `<ul class="tags">`))
	assert.Contains(t, out, `<a href="../tags/go/" class="internal tag-link">go</a>`)
	assert.Contains(t, out, `<a href="../tags/web-dev/" class="internal tag-link">web dev</a>`)

	f, err = NewTagList().Render(&rendering.RenderContext{Slug: "posts/a"})
	require.NoError(t, err)
	assert.Empty(t, f.String())
}

func TestComponentNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range append(Header(), BeforeBody()...) {
		assert.False(t, seen[c.Name()], c.Name())
		seen[c.Name()] = true
	}
}
