package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/site"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/content"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/media"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/persistence/contentindex"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/security"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates/components"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

// ContentIndexAsset is the search index written next to the static assets.
const ContentIndexAsset = "static/contentIndex.json"

// PageIndex records finished builds.
type PageIndex interface {
	RecordBuild(ctx context.Context, b *contentindex.Build) error
	UpsertPages(ctx context.Context, buildID string, pages []*content.Page) error
}

// BuildOptions configures where a build reads from and writes to.
type BuildOptions struct {
	OutputDir   string
	Concurrency int
	LiveReload  bool
}

// BuildReport summarises a successful build.
type BuildReport struct {
	BuildID    string        `json:"buildId"`
	StartedAt  time.Time     `json:"startedAt"`
	Pages      int           `json:"pages"`
	Stylesheet string        `json:"stylesheet"`
	Duration   time.Duration `json:"duration"`
	// Phases maps each pipeline phase to how long it took.
	Phases map[string]time.Duration `json:"phases"`
}

// BuildService runs the full pipeline: load content, bundle styles, render
// every page, publish assets and record the build. Builds are serialised.
type BuildService struct {
	site     *site.Config
	opts     BuildOptions
	loader   *content.Loader
	pages    *PageService
	media    *media.ImageProcessor
	index    PageIndex
	notifier messaging.Notifier
	logger   *logging.ChanneledLogger

	buildMu   sync.Mutex
	mu        sync.RWMutex
	lastSheet *Stylesheet
	last      *BuildReport
}

// NewBuildService wires a build pipeline. index and notifier may be nil.
func NewBuildService(
	cfg *site.Config,
	opts BuildOptions,
	loader *content.Loader,
	pages *PageService,
	images *media.ImageProcessor,
	index PageIndex,
	notifier messaging.Notifier,
	logger *logging.ChanneledLogger,
) *BuildService {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &BuildService{
		site:     cfg,
		opts:     opts,
		loader:   loader,
		pages:    pages,
		media:    images,
		index:    index,
		notifier: notifier,
		logger:   logger,
	}
}

// Build produces the whole site in the output directory.
func (s *BuildService) Build(ctx context.Context) (*BuildReport, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()
	buildID := security.GenerateULID()
	log := s.logger.Build().With("build", buildID)
	log.Info("Build started", "content", s.loader.Dir(), "output", s.opts.OutputDir)

	if err := s.checkOutputDir(); err != nil {
		return nil, err
	}

	tracker := performance.NewTracker(performance.DefaultSlowThreshold)

	var pages []*content.Page
	err := tracker.Track("load", func() (err error) {
		pages, err = s.loader.Load(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Styles are collected per component type, never per page.
	var sheet *Stylesheet
	err = tracker.Track("styles", func() (err error) {
		styles := NewStyleService(s.logger)
		for _, c := range s.pages.Components() {
			if err := styles.Register(c); err != nil {
				return err
			}
		}
		sheet, err = styles.Bundle(s.site.Theme)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Everything is written to a staging directory next to the output and
	// swapped in once the whole site rendered, so a failed build leaves the
	// previous site untouched.
	staging, err := s.stagingDir()
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	if err := writeFile(filepath.Join(staging, sheet.Path()), []byte(sheet.Content)); err != nil {
		return nil, err
	}

	if err := tracker.Track("render", func() error { return s.renderPages(ctx, staging, pages, sheet) }); err != nil {
		log.Error("Build failed", "error", err.Error())
		return nil, err
	}

	if err := tracker.Track("static", func() error { return s.publishStatic(staging) }); err != nil {
		return nil, err
	}
	if err := tracker.Track("contentIndex", func() error { return s.writeContentIndex(staging, pages) }); err != nil {
		return nil, err
	}
	if err := s.swapOutput(staging); err != nil {
		return nil, err
	}

	report := &BuildReport{
		BuildID:    buildID,
		StartedAt:  start.UTC(),
		Pages:      len(pages),
		Stylesheet: sheet.Path(),
		Duration:   time.Since(start),
	}

	if s.index != nil {
		record := &contentindex.Build{
			ID:         report.BuildID,
			StartedAt:  report.StartedAt,
			Duration:   report.Duration,
			PageCount:  report.Pages,
			Stylesheet: report.Stylesheet,
		}
		err := tracker.Track("record", func() error {
			if err := s.index.RecordBuild(ctx, record); err != nil {
				return err
			}
			return s.index.UpsertPages(ctx, buildID, pages)
		})
		if err != nil {
			return nil, err
		}
	}

	report.Phases = tracker.Durations()
	for _, m := range tracker.Slow() {
		log.Warn("Slow build phase", "phase", m.Operation, "duration", m.Duration)
	}

	s.mu.Lock()
	s.last, s.lastSheet = report, sheet
	s.mu.Unlock()

	log.Info("Build completed", "pages", report.Pages, "stylesheet", report.Stylesheet, "duration", report.Duration)
	if s.notifier != nil {
		s.notifier.Notify(messaging.MessageRebuild)
	}
	return report, nil
}

// LastReport returns the most recent successful build, or nil.
func (s *BuildService) LastReport() *BuildReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Stylesheet returns the bundle of the most recent successful build, or nil.
func (s *BuildService) Stylesheet() *Stylesheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSheet
}

// Pages returns the page assembler the pipeline renders with.
func (s *BuildService) Pages() *PageService {
	return s.pages
}

// Site returns the site configuration.
func (s *BuildService) Site() *site.Config {
	return s.site
}

func (s *BuildService) renderPages(ctx context.Context, dir string, pages []*content.Page, sheet *Stylesheet) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	opts := PageOptions{Stylesheet: sheet.Path(), LiveReload: s.opts.LiveReload}
	for _, page := range pages {
		page := page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := s.pages.RenderPage(page, s.site, opts)
			if err != nil {
				return err
			}
			return writeFile(filepath.Join(dir, filepath.FromSlash(sitepath.OutputPath(page.Slug))), out)
		})
	}
	return g.Wait()
}

// publishStatic copies the content static directory and derives the icon
// thumbnails. A missing logo is reported, not fatal: the mask simply shows
// nothing.
func (s *BuildService) publishStatic(dir string) error {
	src := filepath.Join(s.loader.Dir(), content.StaticDir)
	dst := filepath.Join(dir, content.StaticDir)

	if err := copyDir(src, dst); err != nil {
		return fmt.Errorf("failed to copy static assets: %w", err)
	}

	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(components.LogoAsset))); err != nil {
		s.logger.Build().Warn("Logo asset missing; the logo will render empty", "asset", components.LogoAsset)
	}

	icon := filepath.Join(dir, filepath.FromSlash(FaviconAsset))
	if _, err := os.Stat(icon); err == nil && s.media != nil {
		if _, err := s.media.GenerateIconThumbnails(icon, dst); err != nil {
			return err
		}
	}
	return nil
}

type contentIndexEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Links       []string `json:"links"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content"`
}

func (s *BuildService) writeContentIndex(dir string, pages []*content.Page) error {
	index := make(map[sitepath.FullSlug]contentIndexEntry, len(pages))
	for _, p := range pages {
		entry := contentIndexEntry{
			Title:       p.Title,
			Description: p.Description,
			Links:       p.Links,
			Tags:        p.Tags,
			Content:     p.Text,
		}
		if entry.Links == nil {
			entry.Links = []string{}
		}
		if entry.Tags == nil {
			entry.Tags = []string{}
		}
		index[p.Slug] = entry
	}

	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to encode content index: %w", err)
	}
	return writeFile(filepath.Join(dir, filepath.FromSlash(ContentIndexAsset)), data)
}

// checkOutputDir refuses output locations a clean would destroy content in.
func (s *BuildService) checkOutputDir() error {
	if s.opts.OutputDir == "" {
		return fmt.Errorf("no output directory configured")
	}
	out, err := filepath.Abs(s.opts.OutputDir)
	if err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}
	in, err := filepath.Abs(s.loader.Dir())
	if err != nil {
		return fmt.Errorf("invalid content directory: %w", err)
	}
	if out == filepath.Dir(out) {
		return fmt.Errorf("refusing to use %q as the output directory", s.opts.OutputDir)
	}
	if rel, err := filepath.Rel(out, in); err == nil && !escapes(rel) {
		return fmt.Errorf("output directory %q contains the content directory", s.opts.OutputDir)
	}
	return nil
}

// escapes reports whether a relative path leaves its base directory.
func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// stagingDir creates an empty directory beside the output directory.
func (s *BuildService) stagingDir() (string, error) {
	out := filepath.Clean(s.opts.OutputDir)
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("failed to create output parent directory: %w", err)
	}
	dir, err := os.MkdirTemp(filepath.Dir(out), "."+filepath.Base(out)+"-build-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return dir, nil
}

// swapOutput replaces the output directory with the staged build. The old
// site is moved aside first and only removed once the new one is in place.
func (s *BuildService) swapOutput(staging string) error {
	out := filepath.Clean(s.opts.OutputDir)
	if err := os.Chmod(staging, 0755); err != nil {
		return fmt.Errorf("failed to prepare staged output: %w", err)
	}

	old := ""
	if _, err := os.Stat(out); err == nil {
		old = staging + "-old"
		if err := os.Rename(out, old); err != nil {
			return fmt.Errorf("failed to move previous output aside: %w", err)
		}
	}
	if err := os.Rename(staging, out); err != nil {
		if old != "" {
			_ = os.Rename(old, out)
		}
		return fmt.Errorf("failed to publish output directory: %w", err)
	}
	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			s.logger.Build().Warn("Failed to remove previous output", "dir", old, "error", err.Error())
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func copyDir(src, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
