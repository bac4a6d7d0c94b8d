package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
)

const (
	// DefaultListLimit used when filter has no limit
	DefaultListLimit = 20
	// MaxListLimit caps a single page
	MaxListLimit = 100
)

// RecordRepository handles news record operations
type RecordRepository struct {
	db *sqlx.DB
}

// recordSQL represents a news record for SQL operations.
// Published kept as RFC3339 UTC text, so lexical order is chronological.
type recordSQL struct {
	ID         int64     `db:"id"`
	GUID       string    `db:"guid"`
	Title      string    `db:"title"`
	URL        string    `db:"url"`
	Excerpt    string    `db:"excerpt"`
	SourceSlug string    `db:"source_slug"`
	Published  string    `db:"published"`
	ImageURL   string    `db:"image_url"`
	Category   string    `db:"category"`
	CreatedAt  time.Time `db:"created_at"`
	SourceName string    `db:"source_name"`
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Ping verifies the database connection
func (r *RecordRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FindByGUID returns the record with given guid or ErrNotFound
func (r *RecordRepository) FindByGUID(ctx context.Context, guid string) (*domain.Record, error) {
	var rec recordSQL
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM news_items WHERE guid = ?", guid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find record %q: %w", guid, err)
	}
	return rec.toDomain(), nil
}

// Create inserts a new record and sets its ID. Existing guid returns ErrDuplicate, never overwrites.
func (r *RecordRepository) Create(ctx context.Context, rec *domain.Record) error {
	row := recordSQL{
		GUID:       rec.GUID,
		Title:      rec.Title,
		URL:        rec.URL,
		Excerpt:    rec.Excerpt,
		SourceSlug: rec.SourceSlug,
		Published:  rec.Published.UTC().Format(time.RFC3339),
		ImageURL:   rec.ImageURL,
		Category:   rec.Category,
	}

	query := `
		INSERT INTO news_items (guid, title, url, excerpt, source_slug, published, image_url, category)
		VALUES (:guid, :title, :url, :excerpt, :source_slug, :published, :image_url, :category)
	`
	return withRetry(ctx, "create record", func() error {
		res, err := r.db.NamedExecContext(ctx, query, row)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("get insert id: %w", err)
		}
		rec.ID = id
		return nil
	})
}

// List returns records matching filter, newest first
func (r *RecordRepository) List(ctx context.Context, filter domain.RecordFilter) ([]domain.Record, error) {
	where, args := filterClause(filter)
	limit, offset := pageBounds(filter)

	query := `SELECT n.*, COALESCE(s.name, '') AS source_name
		FROM news_items n LEFT JOIN feed_sources s ON s.slug = n.source_slug` +
		where + " ORDER BY n.published DESC, n.id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []recordSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	res := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		res = append(res, *row.toDomain())
	}
	return res, nil
}

// Count returns number of records matching filter, ignoring limit and offset
func (r *RecordRepository) Count(ctx context.Context, filter domain.RecordFilter) (int, error) {
	where, args := filterClause(filter)
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM news_items n"+where, args...); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// Categories returns distinct categories of stored records, sorted
func (r *RecordRepository) Categories(ctx context.Context) ([]string, error) {
	var res []string
	if err := r.db.SelectContext(ctx, &res, "SELECT DISTINCT category FROM news_items WHERE category != '' ORDER BY category"); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return res, nil
}

// filterClause builds WHERE part for filter, empty when nothing to filter by
func filterClause(filter domain.RecordFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.SourceSlug != "" {
		conds = append(conds, "n.source_slug = ?")
		args = append(args, filter.SourceSlug)
	}
	if filter.Category != "" {
		conds = append(conds, "n.category = ? COLLATE NOCASE")
		args = append(args, filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		conds = append(conds, `(n.title LIKE ? ESCAPE '\' OR n.excerpt LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// pageBounds applies default and max limit, negative offset is treated as zero
func pageBounds(filter domain.RecordFilter) (limit, offset int) {
	limit = filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)
	return limit, max(filter.Offset, 0)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r recordSQL) toDomain() *domain.Record {
	published, _ := time.Parse(time.RFC3339, r.Published) // zero on corrupted value
	return &domain.Record{
		ID:         r.ID,
		GUID:       r.GUID,
		Title:      r.Title,
		URL:        r.URL,
		Excerpt:    r.Excerpt,
		SourceSlug: r.SourceSlug,
		Published:  published,
		ImageURL:   r.ImageURL,
		Category:   r.Category,
		CreatedAt:  r.CreatedAt,
		SourceName: r.SourceName,
	}
}
