package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

// StaticDir is the content subdirectory copied verbatim to the output.
const StaticDir = "static"

// ErrDuplicateSlug is returned when two content files publish to one slug.
var ErrDuplicateSlug = errors.New("duplicate slug")

// Loader reads markdown pages from a content directory.
type Loader struct {
	dir    string
	ignore []string
	md     goldmark.Markdown
	logger *logging.ChanneledLogger
}

// NewLoader creates a loader for dir. Paths matching any ignore pattern
// (filepath.Match syntax, tested against the relative path and each of its
// segments) are skipped.
func NewLoader(dir string, ignore []string, logger *logging.ChanneledLogger) *Loader {
	return &Loader{
		dir:    dir,
		ignore: ignore,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		logger: logger,
	}
}

// Dir returns the content directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Load parses every markdown file under the content directory, skipping
// drafts. Pages are returned sorted by slug. Two files that map to the same
// slug fail the load.
func (l *Loader) Load(ctx context.Context) ([]*Page, error) {
	var pages []*Page
	owners := make(map[sitepath.FullSlug]sitepath.FilePath)

	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if rel == StaticDir || l.ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(rel), ".md") || l.ignored(rel) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		page, err := l.Parse(sitepath.FilePath(rel), data)
		if err != nil {
			return err
		}
		if info, err := d.Info(); err == nil {
			page.ModTime = info.ModTime().UTC()
		}

		if page.Draft {
			l.logger.Content().Debug("Skipping draft", "file", rel)
			return nil
		}
		if prev, ok := owners[page.Slug]; ok {
			return fmt.Errorf("%w: %s and %s both map to %q", ErrDuplicateSlug, prev, rel, page.Slug)
		}
		owners[page.Slug] = page.FilePath
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load content from %s: %w", l.dir, err)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })
	l.logger.Content().Info("Content loaded", "dir", l.dir, "pages", len(pages))
	return pages, nil
}

// Parse turns one markdown document into a page.
func (l *Loader) Parse(fp sitepath.FilePath, data []byte) (*Page, error) {
	header, body := splitFrontMatter(data)
	fm, err := parseFrontMatter(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fp, err)
	}

	doc := l.md.Parser().Parse(text.NewReader(body))

	var buf bytes.Buffer
	if err := l.md.Renderer().Render(&buf, body, doc); err != nil {
		return nil, fmt.Errorf("%s: failed to render markdown: %w", fp, err)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		base := filepath.Base(string(fp))
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	plain, links := extract(doc, body)

	return &Page{
		Slug:        sitepath.SlugifyFilePath(fp),
		FilePath:    fp,
		Title:       title,
		Description: strings.TrimSpace(fm.Description),
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		Links:       links,
		HTML:        buf.String(),
		Text:        plain,
	}, nil
}

// extract collects the plain text and the internal link destinations of a
// parsed document.
func extract(doc ast.Node, source []byte) (string, []string) {
	var b strings.Builder
	var links []string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.Link:
			if dest := string(node.Destination); isInternal(dest) {
				links = append(links, dest)
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(b.String()), " "), links
}

func isInternal(dest string) bool {
	return dest != "" && !strings.Contains(dest, "://") &&
		!strings.HasPrefix(dest, "#") && !strings.HasPrefix(dest, "mailto:")
}

func (l *Loader) ignored(rel string) bool {
	for _, pattern := range l.ignore {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		for _, segment := range strings.Split(rel, "/") {
			if ok, _ := filepath.Match(pattern, segment); ok {
				return true
			}
		}
	}
	return false
}
