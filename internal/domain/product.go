package domain

import (
	"fmt"
	"math"
	"time"
)

// StoreKind identifies which adapter parses a tracked product's pages.
type StoreKind string

const (
	StoreTrendyol    StoreKind = "trendyol"
	StoreHepsiburada StoreKind = "hepsiburada"
	StoreN11         StoreKind = "n11"
	StoreAmazon      StoreKind = "amazon"
	StoreTeknosa     StoreKind = "teknosa"
	StoreMediaMarkt  StoreKind = "mediamarkt"
	StoreGeneric     StoreKind = "generic"
)

// Price is a decimal amount tagged with an ISO currency code.
// Amounts are compared at two decimal places (kuruş precision for TRY),
// never by raw float equality.
type Price struct {
	Amount   float64 `json:"amount" db:"price"`
	Currency string  `json:"currency" db:"currency"`
}

// Cents returns the amount rounded to the currency's minor unit.
func (p Price) Cents() int64 {
	return int64(math.Round(p.Amount * 100))
}

// Equal reports whether two prices match at minor-unit precision.
func (p Price) Equal(other Price) bool {
	return p.Currency == other.Currency && p.Cents() == other.Cents()
}

func (p Price) String() string {
	return fmt.Sprintf("%.2f %s", float64(p.Cents())/100, p.Currency)
}

// TrackedProduct is a subscriber's request to monitor one product URL at
// one store. Unique per (owner, store, url); re-tracking is idempotent.
type TrackedProduct struct {
	ID        int64     `db:"id"`
	OwnerID   int64     `db:"owner_id"`
	Store     StoreKind `db:"store"`
	URL       string    `db:"url"`
	Title     string    `db:"title"`
	Dormant   bool      `db:"dormant"`
	CreatedAt time.Time `db:"created_at"`
}

// ParsedProduct is the result of extracting one fetched page.
type ParsedProduct struct {
	Title   string
	Price   Price
	InStock bool
}

// Observation is one successful fetch-and-parse result at a point in time.
// Immutable once recorded.
type Observation struct {
	ID        int64     `db:"id"`
	ProductID int64     `db:"product_id"`
	Title     string    `db:"title"`
	Price     Price     `db:"-"`
	InStock   bool      `db:"in_stock"`
	FetchedAt time.Time `db:"fetched_at"`
}

// LastKnownState is the most recent successful observation per product,
// replaced in place on every success. It is the baseline for change
// detection; FetchedAt is monotonically non-decreasing.
type LastKnownState struct {
	ProductID int64     `db:"product_id"`
	Title     string    `db:"title"`
	Price     Price     `db:"-"`
	InStock   bool      `db:"in_stock"`
	FetchedAt time.Time `db:"fetched_at"`
}

// FailureRecord tracks consecutive fetch/extract failures for a product.
// Reset on any success. At the dormancy threshold the product stops being
// polled until re-armed.
type FailureRecord struct {
	ProductID     int64     `db:"product_id"`
	Consecutive   int       `db:"consecutive_failures"`
	LastErrorKind string    `db:"last_error_kind"`
	NextRetryAt   time.Time `db:"next_retry_at"`
}

// CycleStats summarizes one poll cycle. Fields are accumulated with
// atomic adds while workers run.
type CycleStats struct {
	Due      int64
	Polled   int64
	Changed  int64
	Notified int64
	Failed   int64
	Dormant  int64
	Skipped  int64
	Errors   int64
	Duration time.Duration
}
