package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Subscriber is a chat user allowed to track products. The bot process
// owns the conversation; this table just anchors product ownership and
// the authorization flags.
type Subscriber struct {
	ID           int64     `db:"id"`
	IsAdmin      bool      `db:"is_admin"`
	IsAuthorized bool      `db:"is_authorized"`
	CreatedAt    time.Time `db:"created_at"`
}

type SubscriberStore struct {
	db *sqlx.DB
}

func NewSubscriberStore(db *sqlx.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

// Ensure registers the subscriber if it is not known yet. Existing rows
// keep their flags.
func (s *SubscriberStore) Ensure(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscribers (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING`, id)
	return err
}

func (s *SubscriberStore) Get(ctx context.Context, id int64) (*Subscriber, error) {
	var sub Subscriber
	query := `
		SELECT id, is_admin, is_authorized, created_at
		FROM subscribers
		WHERE id = $1`

	err := s.db.GetContext(ctx, &sub, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriberStore) Authorize(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE subscribers SET is_authorized = TRUE WHERE id = $1", id)
	return err
}
