// Package database opens the connection behind the content index: Turso via
// libsql when credentials are configured, a local SQLite file otherwise.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
)

// Options selects the backend.
type Options struct {
	SQLitePath     string
	TursoDatabase  string
	TursoAuthToken string
}

// DB wraps the standard SQL connection with the backend it talks to.
type DB struct {
	*sql.DB
	UseTurso bool
}

// Open connects to Turso when both the database URL and token are set and
// falls back to SQLite otherwise. A failing Turso connection also falls back,
// with a warning.
func Open(opts Options, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()

	if opts.TursoDatabase != "" && opts.TursoAuthToken != "" {
		conn, err := NewConnection("libsql", opts.TursoDatabase+"?authToken="+opts.TursoAuthToken)
		if err == nil {
			logger.Database().Info("Database connection established", "driver", "libsql", "duration", time.Since(start))
			return &DB{DB: conn, UseTurso: true}, nil
		}
		logger.Database().Warn("Turso connection failed, using SQLite", "error", err.Error())
	}

	if opts.SQLitePath == "" {
		return nil, fmt.Errorf("no database configured")
	}
	if opts.SQLitePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := NewConnection("sqlite3", opts.SQLitePath)
	if err != nil {
		logger.Database().Error("Failed to open SQLite database", "error", err.Error(), "path", opts.SQLitePath)
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite serialises writers; one connection avoids "database is locked".
	conn.SetMaxOpenConns(1)

	logger.Database().Info("Database connection established", "driver", "sqlite3", "path", opts.SQLitePath, "duration", time.Since(start))
	return &DB{DB: conn}, nil
}

// NewConnection opens and pings a connection for the given driver.
func NewConnection(driverName, dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Backend names the connected backend for logs and status output.
func (db *DB) Backend() string {
	if db.UseTurso {
		return "turso"
	}
	return "sqlite"
}
