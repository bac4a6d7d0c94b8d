package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
)

// SourceRepository handles feed source operations
type SourceRepository struct {
	db *sqlx.DB
}

// sourceSQL represents a feed source for SQL operations
type sourceSQL struct {
	ID      int64  `db:"id"`
	Slug    string `db:"slug"`
	Name    string `db:"name"`
	URL     string `db:"url"`
	Enabled bool   `db:"enabled"`
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// ListSources returns enabled sources having a feed URL, in insertion order
func (r *SourceRepository) ListSources(ctx context.Context) ([]domain.FeedSource, error) {
	query := `
		SELECT id, slug, name, url, enabled FROM feed_sources
		WHERE enabled = 1 AND url != ''
		ORDER BY id
	`
	var rows []sourceSQL
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	res := make([]domain.FeedSource, 0, len(rows))
	for _, s := range rows {
		res = append(res, domain.FeedSource{
			ID:   strconv.FormatInt(s.ID, 10),
			Name: s.Name,
			Slug: s.Slug,
			URL:  s.URL,
		})
	}
	return res, nil
}

// UpsertSources inserts sources or updates name and url of existing ones, matched by slug
func (r *SourceRepository) UpsertSources(ctx context.Context, sources []domain.FeedSource) error {
	query := `
		INSERT INTO feed_sources (slug, name, url, enabled)
		VALUES (:slug, :name, :url, 1)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			enabled = 1,
			updated_at = CURRENT_TIMESTAMP
	`
	return withRetry(ctx, "upsert sources", func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		for _, s := range sources {
			if _, err := tx.NamedExecContext(ctx, query, sourceSQL{Slug: s.Slug, Name: s.Name, URL: s.URL}); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}
