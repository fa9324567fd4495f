package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

type ProductStore struct {
	db *sqlx.DB
}

func NewProductStore(db *sqlx.DB) *ProductStore {
	return &ProductStore{db: db}
}

// Create registers a tracked product. Re-tracking the same URL by the
// same owner returns the existing row's id instead of duplicating it.
func (s *ProductStore) Create(ctx context.Context, p *domain.TrackedProduct) (int64, error) {
	query := `
		INSERT INTO tracked_products (owner_id, store, url, title)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, store, url) DO UPDATE SET title = EXCLUDED.title
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, p.OwnerID, p.Store, p.URL, p.Title).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *ProductStore) Get(ctx context.Context, id int64) (*domain.TrackedProduct, error) {
	var p domain.TrackedProduct
	query := `
		SELECT id, owner_id, store, url, title, dormant, created_at
		FROM tracked_products
		WHERE id = $1`

	err := s.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListDue returns every product eligible for polling: not dormant and
// either never failed or past its next retry time.
func (s *ProductStore) ListDue(ctx context.Context, now time.Time) ([]domain.TrackedProduct, error) {
	query := `
		SELECT p.id, p.owner_id, p.store, p.url, p.title, p.dormant, p.created_at
		FROM tracked_products p
		LEFT JOIN failure_records f ON f.product_id = p.id
		WHERE p.dormant = FALSE
		  AND (f.next_retry_at IS NULL OR f.next_retry_at <= $1)
		ORDER BY p.id`

	var products []domain.TrackedProduct
	err := s.db.SelectContext(ctx, &products, query, now)
	return products, err
}

func (s *ProductStore) ListByOwner(ctx context.Context, ownerID int64) ([]domain.TrackedProduct, error) {
	query := `
		SELECT id, owner_id, store, url, title, dormant, created_at
		FROM tracked_products
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	var products []domain.TrackedProduct
	err := s.db.SelectContext(ctx, &products, query, ownerID)
	return products, err
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tracked_products WHERE id = $1", id)
	return err
}

func (s *ProductStore) MarkDormant(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE tracked_products SET dormant = TRUE WHERE id = $1", id)
	return err
}

// Rearm wakes a dormant product and clears its failure history so the
// next cycle picks it up again.
func (s *ProductStore) Rearm(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE tracked_products SET dormant = FALSE WHERE id = $1", id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"DELETE FROM failure_records WHERE product_id = $1", id)
	return err
}
