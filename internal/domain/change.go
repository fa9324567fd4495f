package domain

import "time"

// ChangeKind classifies the delta between two consecutive observations.
type ChangeKind string

const (
	NoChange       ChangeKind = "no_change"
	PriceIncreased ChangeKind = "price_increased"
	PriceDecreased ChangeKind = "price_decreased"
	BackInStock    ChangeKind = "back_in_stock"
	OutOfStock     ChangeKind = "out_of_stock"
)

// ChangeEvent is the classified difference between the last known state and
// a fresh observation. Ephemeral: produced by the detector, consumed once by
// the dispatcher. When a stock transition coincides with a price change, the
// event kind is the stock transition and the price fields carry the delta as
// supplementary context.
type ChangeEvent struct {
	Product     *TrackedProduct
	Kind        ChangeKind
	PrevPrice   Price
	NewPrice    Price
	PrevInStock bool
	NewInStock  bool
	Title       string
	At          time.Time
}

// PriceDelta returns new minus previous at minor-unit precision.
// Zero when the event has no prior price (first observation).
func (e ChangeEvent) PriceDelta() float64 {
	return float64(e.NewPrice.Cents()-e.PrevPrice.Cents()) / 100
}
