package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestSplitFrontMatter(t *testing.T) {
	header, body := splitFrontMatter([]byte("---\ntitle: A\n---\n# Body\n"))
	assert.Equal(t, "title: A\n", string(header))
	assert.Equal(t, "# Body\n", string(body))

	header, body = splitFrontMatter([]byte("# No header\n"))
	assert.Nil(t, header)
	assert.Equal(t, "# No header\n", string(body))

	header, body = splitFrontMatter([]byte("---\ntitle: unterminated\n"))
	assert.Nil(t, header)
	assert.Equal(t, "---\ntitle: unterminated\n", string(body))

	header, body = splitFrontMatter([]byte("---\r\ntitle: A\r\n---\r\nx"))
	assert.Equal(t, "title: A\r\n", string(header))
	assert.Equal(t, "x", string(body))
}

func TestParse(t *testing.T) {
	loader := NewLoader("", nil, logging.NewNopLogger())

	page, err := loader.Parse("posts/My Post.md", []byte(`---
title: Hello
tags: [go, web]
description: "  An intro  "
---
Some *text* with a [link](../about) and [ext](https://x.test).

Second paragraph.
`))
	require.NoError(t, err)

	assert.Equal(t, sitepath.FullSlug("posts/My-Post"), page.Slug)
	assert.Equal(t, "Hello", page.Title)
	assert.Equal(t, "An intro", page.Description)
	assert.Equal(t, []string{"go", "web"}, page.Tags)
	assert.Equal(t, []string{"../about"}, page.Links)
	assert.Contains(t, page.HTML, "<em>text</em>")
	assert.Equal(t, "Some text with a link and ext. Second paragraph.", page.Text)
}

func TestParseTitleFallbackAndScalarTags(t *testing.T) {
	loader := NewLoader("", nil, logging.NewNopLogger())

	page, err := loader.Parse("notes/idea.md", []byte("---\ntags: a, b\n---\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "idea", page.Title)
	assert.Equal(t, []string{"a", "b"}, page.Tags)
}

func TestParseInvalidFrontMatter(t *testing.T) {
	loader := NewLoader("", nil, logging.NewNopLogger())

	_, err := loader.Parse("bad.md", []byte("---\ntags: {a: b}\n---\n"))
	assert.ErrorContains(t, err, "bad.md")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.md", "# Home")
	writeFile(t, dir, "posts/2024/a.md", "---\ntitle: A\n---\nA")
	writeFile(t, dir, "posts/draft.md", "---\ndraft: true\n---\nD")
	writeFile(t, dir, "private/secret.md", "S")
	writeFile(t, dir, "static/notes.md", "not content")
	writeFile(t, dir, "static/logo.svg", "<svg/>")
	writeFile(t, dir, "readme.txt", "ignored")

	loader := NewLoader(dir, []string{"private"}, logging.NewNopLogger())
	pages, err := loader.Load(context.Background())
	require.NoError(t, err)

	var slugs []sitepath.FullSlug
	for _, p := range pages {
		slugs = append(slugs, p.Slug)
		assert.False(t, p.ModTime.IsZero())
	}
	assert.Equal(t, []sitepath.FullSlug{"index", "posts/2024/a"}, slugs)
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.md", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(dir, nil, logging.NewNopLogger()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadUppercaseExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Notes.MD", "x")

	pages, err := NewLoader(dir, nil, logging.NewNopLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, sitepath.FullSlug("Notes"), pages[0].Slug)
	assert.Equal(t, "Notes", pages[0].Title)
}

func TestLoadDuplicateSlug(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a b.md", "First")
	writeFile(t, dir, "a-b.md", "Second")

	_, err := NewLoader(dir, nil, logging.NewNopLogger()).Load(context.Background())
	assert.ErrorIs(t, err, ErrDuplicateSlug)
	assert.ErrorContains(t, err, "a b.md")
	assert.ErrorContains(t, err, "a-b.md")
}

func TestLoadDuplicateSlugIgnoresDrafts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a b.md", "---\ndraft: true\n---\nold")
	writeFile(t, dir, "a-b.md", "live")

	pages, err := NewLoader(dir, nil, logging.NewNopLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "a-b.md", string(pages[0].FilePath))
}
