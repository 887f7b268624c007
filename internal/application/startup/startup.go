// Package startup wires the application for the build and serve commands.
package startup

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/AtRiskMedia/quartzgo/internal/application/container"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/watch"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/http/server"
	"github.com/AtRiskMedia/quartzgo/pkg/config"
)

// ShutdownTimeout bounds how long in-flight requests get on shutdown.
const ShutdownTimeout = 30 * time.Second

// Build runs a single build and returns.
func Build(ctx context.Context) error {
	logger, err := NewLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	c, err := newContainer(logger, false)
	if err != nil {
		return err
	}
	defer c.Close()

	report, err := c.BuildService.Build(ctx)
	if err != nil {
		return err
	}
	logger.Build().Info("Site written",
		"output", config.OutputDir,
		"pages", report.Pages,
		"build", report.BuildID,
		"duration", report.Duration,
	)
	return nil
}

// Serve builds the site, then serves it with live reload and rebuilds on
// content changes until ctx is cancelled.
func Serve(ctx context.Context) error {
	start := time.Now().UTC()
	setupGin()

	logger, err := NewLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	phase := time.Now()
	c, err := newContainer(logger, true)
	logger.LogStartupPhase("container", time.Since(phase), err == nil)
	if err != nil {
		return err
	}
	defer c.Close()
	logger.Startup().Info("Content index ready", "backend", c.Backend())

	phase = time.Now()
	_, err = c.BuildService.Build(ctx)
	logger.LogStartupPhase("initial build", time.Since(phase), err == nil)
	if err != nil {
		// Keep serving; the next content change retries.
		logger.Startup().Error("Initial build failed", "error", err.Error())
	}

	httpServer := server.New(config.Port, c)
	watcher := watch.NewWatcher(config.ContentDir, config.WatchDebounce, func(ctx context.Context) error {
		_, err := c.BuildService.Build(ctx)
		return err
	}, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Reload.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(httpServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
			return err
		}
		logger.Shutdown().Info("HTTP server stopped successfully")
		return nil
	})

	logger.Startup().Info("Preview server ready",
		"address", "http://localhost"+httpServer.Addr(),
		"totalDuration", time.Since(start),
	)

	err = g.Wait()
	logger.Shutdown().Info("Application shutdown complete", "totalUptime", time.Since(start))
	return err
}

// NewLogger builds the channeled logger from the environment settings.
func NewLogger() (*logging.ChanneledLogger, error) {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}

	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = level
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.JSONFormat = config.LogJSON
	return logging.NewChanneledLogger(cfg)
}

func newContainer(logger *logging.ChanneledLogger, liveReload bool) (*container.Container, error) {
	c, err := container.NewContainer(container.Options{
		ContentDir:     config.ContentDir,
		OutputDir:      config.OutputDir,
		SiteConfigPath: config.SiteConfigPath,
		Concurrency:    config.BuildConcurrency,
		LiveReload:     liveReload,
		Database: database.Options{
			SQLitePath:     config.DBPath,
			TursoDatabase:  config.TursoDatabase,
			TursoAuthToken: config.TursoAuthToken,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return c, nil
}

func setupGin() {
	if strings.EqualFold(os.Getenv("GIN_MODE"), gin.DebugMode) {
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
