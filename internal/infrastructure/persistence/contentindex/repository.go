// Package contentindex persists build records and the published page index.
package contentindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/content"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Build is one completed site build.
type Build struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
	PageCount  int           `json:"pageCount"`
	Stylesheet string        `json:"stylesheet"`
}

// Entry is a published page as recorded in the index. Content is only
// populated by GetPage.
type Entry struct {
	Slug        sitepath.FullSlug `json:"slug"`
	FilePath    sitepath.FilePath `json:"filePath"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags"`
	Links       []string          `json:"links"`
	Content     string            `json:"content,omitempty"`
	ModTime     time.Time         `json:"modTime"`
	BuildID     string            `json:"buildId"`
}

// Repository reads and writes the content index.
type Repository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewRepository(db *sql.DB, logger *logging.ChanneledLogger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// RecordBuild stores a build record.
func (r *Repository) RecordBuild(ctx context.Context, b *Build) error {
	query := `INSERT INTO builds (id, started_at, duration_ms, page_count, stylesheet) VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, b.ID, b.StartedAt.UnixMilli(), b.Duration.Milliseconds(), b.PageCount, b.Stylesheet)
	if err != nil {
		r.logger.Database().Error("Build insert failed", "error", err.Error(), "id", b.ID)
		return fmt.Errorf("failed to insert build: %w", err)
	}

	r.logger.Database().Debug("Build insert completed", "id", b.ID, "duration", time.Since(start))
	return nil
}

// LatestBuild returns the most recent build, or ErrNotFound before the first.
func (r *Repository) LatestBuild(ctx context.Context) (*Build, error) {
	query := `SELECT id, started_at, duration_ms, page_count, stylesheet FROM builds ORDER BY started_at DESC, id DESC LIMIT 1`

	var b Build
	var startedAt, durationMS int64
	err := r.db.QueryRowContext(ctx, query).Scan(&b.ID, &startedAt, &durationMS, &b.PageCount, &b.Stylesheet)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest build: %w", err)
	}

	b.StartedAt = time.UnixMilli(startedAt).UTC()
	b.Duration = time.Duration(durationMS) * time.Millisecond
	return &b, nil
}

// UpsertPages records pages as published by buildID and removes every page
// the build no longer produced, in one transaction.
func (r *Repository) UpsertPages(ctx context.Context, buildID string, pages []*content.Page) error {
	start := time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO pages (slug, file_path, title, description, tags, links, content, modified_at, build_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			file_path = excluded.file_path,
			title = excluded.title,
			description = excluded.description,
			tags = excluded.tags,
			links = excluded.links,
			content = excluded.content,
			modified_at = excluded.modified_at,
			build_id = excluded.build_id`)
	if err != nil {
		return fmt.Errorf("failed to prepare page upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pages {
		tags, err := marshalList(p.Tags)
		if err != nil {
			return err
		}
		links, err := marshalList(p.Links)
		if err != nil {
			return err
		}
		var modified sql.NullInt64
		if !p.ModTime.IsZero() {
			modified = sql.NullInt64{Int64: p.ModTime.UnixMilli(), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, string(p.Slug), string(p.FilePath), p.Title, p.Description,
			tags, links, p.Text, modified, buildID); err != nil {
			return fmt.Errorf("failed to upsert page %s: %w", p.Slug, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE build_id != ?`, buildID)
	if err != nil {
		return fmt.Errorf("failed to prune stale pages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pages: %w", err)
	}

	pruned, _ := res.RowsAffected()
	r.logger.Database().Info("Content index updated",
		"build", buildID,
		"pages", len(pages),
		"pruned", pruned,
		"duration", time.Since(start),
	)
	return nil
}

// ListPages returns every indexed page ordered by slug, without content.
func (r *Repository) ListPages(ctx context.Context) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slug, file_path, title, description, tags, links, modified_at, build_id FROM pages ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		e, err := scanEntry(rows.Scan, false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetPage returns one indexed page including its plain-text content.
func (r *Repository) GetPage(ctx context.Context, slug sitepath.FullSlug) (*Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT slug, file_path, title, description, tags, links, modified_at, build_id, content FROM pages WHERE slug = ?`,
		string(slug))

	e, err := scanEntry(row.Scan, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func scanEntry(scan func(dest ...any) error, withContent bool) (*Entry, error) {
	var e Entry
	var slug, filePath, tags, links string
	var description sql.NullString
	var modified sql.NullInt64

	dest := []any{&slug, &filePath, &e.Title, &description, &tags, &links, &modified, &e.BuildID}
	if withContent {
		dest = append(dest, &e.Content)
	}
	if err := scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan page: %w", err)
	}

	e.Slug = sitepath.FullSlug(slug)
	e.FilePath = sitepath.FilePath(filePath)
	e.Description = description.String
	if modified.Valid {
		e.ModTime = time.UnixMilli(modified.Int64).UTC()
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("page %s: invalid tags: %w", slug, err)
	}
	if err := json.Unmarshal([]byte(links), &e.Links); err != nil {
		return nil, fmt.Errorf("page %s: invalid links: %w", slug, err)
	}
	return &e, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}
