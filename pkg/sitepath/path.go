// Package sitepath converts content file paths into slugs and computes relative
// links between published pages.
//
// A FullSlug names a page exactly as it is published, without the ".html"
// extension ("posts/2024/a", "posts/index", "index"). A SimpleSlug is the form
// used in links, where a trailing "index" is dropped ("posts/", "/").
package sitepath

import (
	"path"
	"regexp"
	"strings"
)

// FullSlug identifies a published page, e.g. "notes/go/index".
type FullSlug string

// SimpleSlug is a FullSlug with any trailing "index" removed. The root is "/".
type SimpleSlug string

// FilePath is a path relative to the content directory, e.g. "notes/Go Tips.md".
type FilePath string

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// PathToRoot returns the relative path that leads from the page identified by
// slug back to the site root. Resolving the result against the directory the
// page is published in always yields the root; the root page itself gets ".".
func PathToRoot(slug FullSlug) string {
	segments := nonEmptySegments(string(slug))
	if len(segments) <= 1 {
		return "."
	}
	return strings.Repeat("../", len(segments)-2) + ".."
}

// SimplifySlug strips the trailing "index" segment of a slug.
// Folder pages keep a trailing slash ("posts/index" becomes "posts/").
func SimplifySlug(slug FullSlug) SimpleSlug {
	s := string(slug)
	switch {
	case s == "index":
		s = ""
	case strings.HasSuffix(s, "/index"):
		s = strings.TrimSuffix(s, "index")
	}
	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return "/"
	}
	return SimpleSlug(s)
}

// SlugifyFilePath derives the slug of a content file. Markdown and HTML
// extensions are dropped; any other extension is kept so that assets keep
// resolving to themselves.
func SlugifyFilePath(fp FilePath) FullSlug {
	p := strings.Trim(strings.ReplaceAll(string(fp), "\\", "/"), "/")
	ext := path.Ext(p)
	withoutExt := strings.TrimSuffix(p, ext)
	if strings.EqualFold(ext, ".md") || strings.EqualFold(ext, ".html") {
		ext = ""
	}

	slug := sluggify(withoutExt)
	if slug == "_index" || strings.HasSuffix(slug, "/_index") {
		slug = strings.TrimSuffix(slug, "_index") + "index"
	}
	return FullSlug(slug + ext)
}

func sluggify(s string) string {
	segments := strings.Split(s, "/")
	for i, segment := range segments {
		segment = strings.Join(strings.Fields(segment), "-")
		segment = strings.ReplaceAll(segment, "&", "-and-")
		segment = strings.ReplaceAll(segment, "%", "-percent")
		segment = strings.ReplaceAll(segment, "?", "")
		segment = strings.ReplaceAll(segment, "#", "")
		segments[i] = segment
	}
	return strings.TrimSuffix(strings.Join(segments, "/"), "/")
}

// JoinSegments joins path segments with "/", skipping empty ones and
// collapsing repeated slashes.
func JoinSegments(segments ...string) string {
	kept := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return repeatedSlashes.ReplaceAllString(strings.Join(kept, "/"), "/")
}

// ResolveRelative returns a link from the page current to the page target.
func ResolveRelative(current, target FullSlug) string {
	simple := SimplifySlug(target)
	if simple == "/" {
		return PathToRoot(current) + "/"
	}
	return JoinSegments(PathToRoot(current), string(simple))
}

// IsFolderPath reports whether p refers to a folder page.
func IsFolderPath(p string) bool {
	return strings.HasSuffix(p, "/") ||
		p == "index" || strings.HasSuffix(p, "/index") ||
		strings.HasSuffix(p, "index.md") ||
		strings.HasSuffix(p, "index.html")
}

// OutputPath is the file, relative to the output directory, a slug is written to.
func OutputPath(slug FullSlug) string {
	return string(slug) + ".html"
}

func nonEmptySegments(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
