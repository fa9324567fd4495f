// Package detector classifies the delta between a product's last known
// state and a fresh observation. It is pure: no I/O, no clocks of its
// own, no shared state.
package detector

import (
	"time"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// Detect compares the new observation against the last known state and
// returns the classified change. Rules, in priority order:
//
//  1. No prior state: NoChange. The observation still becomes the
//     baseline, so tracking is established without notifying.
//  2. Stock false→true: BackInStock, regardless of any price change.
//  3. Stock true→false: OutOfStock.
//  4. Price differs while in stock both before and after: PriceIncreased
//     or PriceDecreased. Prices are compared at minor-unit precision, so
//     float noise below a kuruş is not a change.
//  5. Otherwise: NoChange.
//
// A stock transition that coincides with a price change produces one
// event: the stock kind, with the price delta carried in the event's
// price fields.
func Detect(product *domain.TrackedProduct, last *domain.LastKnownState, cur domain.ParsedProduct, at time.Time) domain.ChangeEvent {
	event := domain.ChangeEvent{
		Product:    product,
		Kind:       domain.NoChange,
		NewPrice:   cur.Price,
		NewInStock: cur.InStock,
		Title:      cur.Title,
		At:         at,
	}
	if last == nil {
		event.PrevPrice = cur.Price
		event.PrevInStock = cur.InStock
		return event
	}

	event.PrevPrice = last.Price
	event.PrevInStock = last.InStock

	switch {
	case !last.InStock && cur.InStock:
		event.Kind = domain.BackInStock
	case last.InStock && !cur.InStock:
		event.Kind = domain.OutOfStock
	case last.InStock && cur.InStock && !last.Price.Equal(cur.Price):
		if cur.Price.Cents() < last.Price.Cents() {
			event.Kind = domain.PriceDecreased
		} else {
			event.Kind = domain.PriceIncreased
		}
	}
	return event
}
