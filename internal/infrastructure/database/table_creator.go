// Package database creates the content index schema.
package database

import (
	"database/sql"
	"fmt"
)

// TableCreator builds the content index tables.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all table and index statements. Every statement is
// idempotent, so it is safe to run on each start.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// Timestamps are unix milliseconds; tags and links are JSON arrays.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS builds (id TEXT PRIMARY KEY, started_at INTEGER NOT NULL, duration_ms INTEGER NOT NULL, page_count INTEGER NOT NULL, stylesheet TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS pages (slug TEXT PRIMARY KEY, file_path TEXT NOT NULL, title TEXT NOT NULL, description TEXT, tags TEXT NOT NULL, links TEXT NOT NULL, content TEXT NOT NULL, modified_at INTEGER, build_id TEXT NOT NULL REFERENCES builds(id))`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_pages_build_id ON pages(build_id)`,
}
