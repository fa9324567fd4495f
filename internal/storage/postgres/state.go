package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

type StateStore struct {
	db *sqlx.DB
}

func NewStateStore(db *sqlx.DB) *StateStore {
	return &StateStore{db: db}
}

// GetLastKnown returns a product's comparison baseline, nil when the
// product has not been observed successfully yet.
func (s *StateStore) GetLastKnown(ctx context.Context, productID int64) (*domain.LastKnownState, error) {
	query := `
		SELECT product_id, title, price, currency, in_stock, fetched_at
		FROM last_known_state
		WHERE product_id = $1`

	var row struct {
		ProductID int64     `db:"product_id"`
		Title     string    `db:"title"`
		Price     float64   `db:"price"`
		Currency  string    `db:"currency"`
		InStock   bool      `db:"in_stock"`
		FetchedAt time.Time `db:"fetched_at"`
	}
	err := s.db.GetContext(ctx, &row, query, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.LastKnownState{
		ProductID: row.ProductID,
		Title:     row.Title,
		Price:     domain.Price{Amount: row.Price, Currency: row.Currency},
		InStock:   row.InStock,
		FetchedAt: row.FetchedAt,
	}, nil
}

// SaveObservation appends the observation to the audit log and replaces
// the last known state. The state update is guarded so fetched_at never
// moves backwards, even if writes race across restarts.
func (s *StateStore) SaveObservation(ctx context.Context, obs *domain.Observation) error {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO observations (product_id, title, price, currency, in_stock, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		obs.ProductID, obs.Title, obs.Price.Amount, obs.Price.Currency, obs.InStock, obs.FetchedAt,
	)
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, `
		INSERT INTO last_known_state (product_id, title, price, currency, in_stock, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			in_stock = EXCLUDED.in_stock,
			fetched_at = EXCLUDED.fetched_at
		WHERE last_known_state.fetched_at <= EXCLUDED.fetched_at`,
		obs.ProductID, obs.Title, obs.Price.Amount, obs.Price.Currency, obs.InStock, obs.FetchedAt,
	)
	return err
}
