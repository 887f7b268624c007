package templates

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPage(t *testing.T) {
	out, err := RenderPageBytes(PageData{
		Lang:       "en",
		Title:      "A <b>title</b>",
		Slug:       "posts/a",
		Stylesheet: "../index.abc.css",
		Favicon:    "../static/icon.png",
		Header:     template.HTML(`<a href=".." class="page-title"><i class="logo"></i></a>`),
		Body:       template.HTML(`<p>hi</p>`),
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<html lang="en">`)
	assert.Contains(t, html, `<title>A &lt;b&gt;title&lt;/b&gt;</title>`)
	assert.Contains(t, html, `<link rel="stylesheet" href="../index.abc.css">`)
	assert.Contains(t, html, `<header><a href=".." class="page-title"><i class="logo"></i></a></header>`)
	assert.Contains(t, html, `<p>hi</p>`)
	assert.NotContains(t, html, "WebSocket")
	assert.NotContains(t, html, `name="description"`)
}

func TestRenderPageLiveReload(t *testing.T) {
	out, err := RenderPageBytes(PageData{Title: "x", LiveReload: true})
	require.NoError(t, err)

	assert.Contains(t, string(out), "new WebSocket")
	assert.Regexp(t, `ws\\?/reload`, string(out))
}
