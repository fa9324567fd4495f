package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

type ProductStore interface {
	ListDue(ctx context.Context, now time.Time) ([]domain.TrackedProduct, error)
	MarkDormant(ctx context.Context, productID int64) error
}

type StateStore interface {
	// GetLastKnown returns nil when the product has no baseline yet.
	GetLastKnown(ctx context.Context, productID int64) (*domain.LastKnownState, error)
	SaveObservation(ctx context.Context, obs *domain.Observation) error
}

type FailureStore interface {
	// Get returns nil when the product has no failure record.
	Get(ctx context.Context, productID int64) (*domain.FailureRecord, error)
	Upsert(ctx context.Context, rec *domain.FailureRecord) error
	Reset(ctx context.Context, productID int64) error
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Parser interface {
	Parse(kind domain.StoreKind, page []byte) (domain.ParsedProduct, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event *domain.ChangeEvent) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type MetricsRecorder interface {
	RecordPoll(outcome string)
	RecordFailure(kind string)
	RecordChange(kind domain.ChangeKind)
	RecordCycle(d time.Duration)
}
