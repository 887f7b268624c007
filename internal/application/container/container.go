// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/AtRiskMedia/quartzgo/internal/application/services"
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/site"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/content"
	schema "github.com/AtRiskMedia/quartzgo/internal/infrastructure/database"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/media"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/persistence/contentindex"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/siteconfig"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates/components"
)

// Options are the process-level settings the container is wired from.
type Options struct {
	ContentDir     string
	OutputDir      string
	SiteConfigPath string
	Concurrency    int
	LiveReload     bool
	Database       database.Options
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	Site         *site.Config
	OutputDir    string
	PageService  *services.PageService
	BuildService *services.BuildService
	ContentIndex *contentindex.Repository
	Reload       *messaging.ReloadBroadcaster
	Fragments    *stores.FragmentsStore
	Logger       *logging.ChanneledLogger

	db *database.DB
}

// NewContainer loads the site configuration, opens the content index and
// wires every service.
func NewContainer(opts Options, logger *logging.ChanneledLogger) (*Container, error) {
	cfg, err := siteconfig.Load(opts.SiteConfigPath, ".")
	if err != nil {
		return nil, err
	}

	db, err := database.Open(opts.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := schema.NewTableCreator().CreateSchema(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create content index schema: %w", err)
	}
	index := contentindex.NewRepository(db.DB, logger)

	reload := messaging.NewReloadBroadcaster(logger)
	fragments := stores.NewFragmentsStore(stores.DefaultFragmentTTL)
	pages := services.NewPageService(components.Header(), components.BeforeBody(), logger)
	builds := services.NewBuildService(
		cfg,
		services.BuildOptions{
			OutputDir:   opts.OutputDir,
			Concurrency: opts.Concurrency,
			LiveReload:  opts.LiveReload,
		},
		content.NewLoader(opts.ContentDir, cfg.IgnorePatterns, logger),
		pages,
		media.NewImageProcessor(logger),
		index,
		messaging.Notifiers{fragments, reload},
		logger,
	)

	return &Container{
		Site:         cfg,
		OutputDir:    opts.OutputDir,
		PageService:  pages,
		BuildService: builds,
		ContentIndex: index,
		Reload:       reload,
		Fragments:    fragments,
		Logger:       logger,
		db:           db,
	}, nil
}

// Close releases the content index connection.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Backend names the content index backend.
func (c *Container) Backend() string {
	if c.db == nil {
		return ""
	}
	return c.db.Backend()
}
