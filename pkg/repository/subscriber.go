package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
)

// SubscriberRepository handles newsletter subscriber operations
type SubscriberRepository struct {
	db *sqlx.DB
}

// subscriberSQL represents a subscriber for SQL operations
type subscriberSQL struct {
	ID             int64      `db:"id"`
	Email          string     `db:"email"`
	Status         string     `db:"status"`
	Source         string     `db:"source"`
	Tags           tagsSQL    `db:"tags"`
	SubscribedAt   time.Time  `db:"subscribed_at"`
	UnsubscribedAt *time.Time `db:"unsubscribed_at"`
}

// tagsSQL is a JSON array of tags for SQL operations
type tagsSQL []string

// Value implements driver.Valuer for database storage
func (t tagsSQL) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (t *tagsSQL) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*t = tagsSQL{}
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported tags type %T", value)
	}
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *sqlx.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// FindByEmail returns subscriber with given email or ErrNotFound. Email expected lower-cased.
func (r *SubscriberRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	var row subscriberSQL
	err := r.db.GetContext(ctx, &row, "SELECT * FROM subscribers WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return row.toDomain(), nil
}

// CreateSubscriber inserts an active subscriber and sets its ID, existing email returns ErrDuplicate
func (r *SubscriberRepository) CreateSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	if sub.SubscribedAt.IsZero() {
		sub.SubscribedAt = time.Now().UTC()
	}
	if sub.Status == "" {
		sub.Status = domain.SubscriberActive
	}

	row := subscriberSQL{
		Email:        sub.Email,
		Status:       string(sub.Status),
		Source:       sub.Source,
		Tags:         tagsSQL(sub.Tags),
		SubscribedAt: sub.SubscribedAt,
	}
	query := `
		INSERT INTO subscribers (email, status, source, tags, subscribed_at)
		VALUES (:email, :status, :source, :tags, :subscribed_at)
	`
	return withRetry(ctx, "create subscriber", func() error {
		res, err := r.db.NamedExecContext(ctx, query, row)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("get insert id: %w", err)
		}
		sub.ID = id
		return nil
	})
}

// Reactivate marks subscriber active again and resets subscription time
func (r *SubscriberRepository) Reactivate(ctx context.Context, id int64) error {
	query := `
		UPDATE subscribers
		SET status = ?, subscribed_at = ?, unsubscribed_at = NULL
		WHERE id = ?
	`
	return withRetry(ctx, "reactivate subscriber", func() error {
		res, err := r.db.ExecContext(ctx, query, string(domain.SubscriberActive), time.Now().UTC(), id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r subscriberSQL) toDomain() *domain.Subscriber {
	return &domain.Subscriber{
		ID:             r.ID,
		Email:          r.Email,
		Status:         domain.SubscriberStatus(r.Status),
		Source:         r.Source,
		Tags:           []string(r.Tags),
		SubscribedAt:   r.SubscribedAt,
		UnsubscribedAt: r.UnsubscribedAt,
	}
}
