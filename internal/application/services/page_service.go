package services

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/site"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/content"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates/components"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

// FaviconAsset is the site icon, relative to the site root.
const FaviconAsset = "static/icon.png"

// ErrUnknownComponent is returned when no mounted component has the name.
var ErrUnknownComponent = errors.New("unknown component")

// PageOptions carries build-level values shared by every page.
type PageOptions struct {
	// Stylesheet is the bundle path relative to the site root.
	Stylesheet string
	LiveReload bool
}

// PageService assembles complete pages from components and content.
type PageService struct {
	header     []components.Component
	beforeBody []components.Component
	logger     *logging.ChanneledLogger
}

// NewPageService creates a page assembler mounting the given components.
func NewPageService(header, beforeBody []components.Component, logger *logging.ChanneledLogger) *PageService {
	return &PageService{
		header:     header,
		beforeBody: beforeBody,
		logger:     logger,
	}
}

// Components returns every mounted component, header first.
func (s *PageService) Components() []components.Component {
	all := make([]components.Component, 0, len(s.header)+len(s.beforeBody))
	all = append(all, s.header...)
	return append(all, s.beforeBody...)
}

// RenderPage renders one page to a complete HTML document. A component
// failure fails the page; the error names the page and the component.
func (s *PageService) RenderPage(page *content.Page, cfg *site.Config, opts PageOptions) ([]byte, error) {
	ctx := &rendering.RenderContext{
		Slug:  page.Slug,
		Cfg:   cfg,
		Title: page.Title,
		Tags:  page.Tags,
	}
	if err := ctx.Validate(); err != nil {
		return nil, fmt.Errorf("render %s: %w", page.FilePath, err)
	}

	header, err := s.renderAll(s.header, ctx)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", page.Slug, err)
	}
	beforeBody, err := s.renderAll(s.beforeBody, ctx)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", page.Slug, err)
	}

	root := sitepath.PathToRoot(page.Slug)
	title := page.Title
	if cfg != nil && cfg.PageTitle != "" && title != cfg.PageTitle {
		title = page.Title + " | " + cfg.PageTitle
	}

	out, err := templates.RenderPageBytes(templates.PageData{
		Lang:        lang(cfg),
		Title:       title,
		Description: page.Description,
		Slug:        string(page.Slug),
		Stylesheet:  sitepath.JoinSegments(root, opts.Stylesheet),
		Favicon:     sitepath.JoinSegments(root, FaviconAsset),
		Header:      header,
		BeforeBody:  beforeBody,
		Body:        template.HTML(page.HTML),
		LiveReload:  opts.LiveReload,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", page.Slug, err)
	}

	s.logger.Render().Debug("Page rendered", "slug", page.Slug, "bytes", len(out))
	return out, nil
}

// RenderComponent renders a single mounted component by name. Used by the
// preview server's fragment endpoint.
func (s *PageService) RenderComponent(name string, ctx *rendering.RenderContext) (string, error) {
	for _, c := range s.Components() {
		if c.Name() != name {
			continue
		}
		fragment, err := c.Render(ctx)
		if err != nil {
			return "", err
		}
		return fragment.Render()
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownComponent, name)
}

func (s *PageService) renderAll(list []components.Component, ctx *rendering.RenderContext) (template.HTML, error) {
	var b strings.Builder
	for _, c := range list {
		fragment, err := c.Render(ctx)
		if err != nil {
			return "", fmt.Errorf("component %s: %w", c.Name(), err)
		}
		markup, err := fragment.Render()
		if err != nil {
			return "", fmt.Errorf("component %s: %w", c.Name(), err)
		}
		b.WriteString(markup)
	}
	return template.HTML(b.String()), nil
}

func lang(cfg *site.Config) string {
	if cfg == nil || cfg.Locale == "" {
		return "en"
	}
	l, _, _ := strings.Cut(cfg.Locale, "-")
	return l
}
