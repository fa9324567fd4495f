package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

type FailureStore struct {
	db *sqlx.DB
}

func NewFailureStore(db *sqlx.DB) *FailureStore {
	return &FailureStore{db: db}
}

// Get returns a product's failure record, nil when it has none.
func (s *FailureStore) Get(ctx context.Context, productID int64) (*domain.FailureRecord, error) {
	var rec domain.FailureRecord
	query := `
		SELECT product_id, consecutive_failures, last_error_kind, next_retry_at
		FROM failure_records
		WHERE product_id = $1`

	err := s.db.GetContext(ctx, &rec, query, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FailureStore) Upsert(ctx context.Context, rec *domain.FailureRecord) error {
	exec := GetExecutor(ctx, s.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO failure_records (product_id, consecutive_failures, last_error_kind, next_retry_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id) DO UPDATE SET
			consecutive_failures = EXCLUDED.consecutive_failures,
			last_error_kind = EXCLUDED.last_error_kind,
			next_retry_at = EXCLUDED.next_retry_at`,
		rec.ProductID, rec.Consecutive, rec.LastErrorKind, rec.NextRetryAt,
	)
	return err
}

// Reset clears the record after a successful poll.
func (s *FailureStore) Reset(ctx context.Context, productID int64) error {
	exec := GetExecutor(ctx, s.db)
	_, err := exec.ExecContext(ctx,
		"DELETE FROM failure_records WHERE product_id = $1", productID)
	return err
}
