package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

var (
	testProduct = &domain.TrackedProduct{
		ID:    1,
		Store: domain.StoreTrendyol,
		URL:   "https://www.trendyol.com/marka/urun-p-123",
	}
	testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func try(amount float64) domain.Price {
	return domain.Price{Amount: amount, Currency: "TRY"}
}

func state(price domain.Price, inStock bool) *domain.LastKnownState {
	return &domain.LastKnownState{
		ProductID: testProduct.ID,
		Title:     "Kulaklik",
		Price:     price,
		InStock:   inStock,
		FetchedAt: testTime.Add(-30 * time.Minute),
	}
}

func observed(price domain.Price, inStock bool) domain.ParsedProduct {
	return domain.ParsedProduct{Title: "Kulaklik", Price: price, InStock: inStock}
}

func TestDetect_FirstObservationIsBaseline(t *testing.T) {
	cur := observed(try(100), true)

	event := Detect(testProduct, nil, cur, testTime)

	assert.Equal(t, domain.NoChange, event.Kind)
	assert.Equal(t, cur.Price, event.PrevPrice)
	assert.Equal(t, cur.Price, event.NewPrice)
	assert.Equal(t, 0.0, event.PriceDelta())
}

func TestDetect_PriceDecreased(t *testing.T) {
	event := Detect(testProduct, state(try(100), true), observed(try(89), true), testTime)

	assert.Equal(t, domain.PriceDecreased, event.Kind)
	assert.InDelta(t, -11.0, event.PriceDelta(), 0.001)
	assert.Equal(t, try(100), event.PrevPrice)
	assert.Equal(t, try(89), event.NewPrice)
}

func TestDetect_PriceIncreased(t *testing.T) {
	event := Detect(testProduct, state(try(89), true), observed(try(100), true), testTime)

	assert.Equal(t, domain.PriceIncreased, event.Kind)
	assert.InDelta(t, 11.0, event.PriceDelta(), 0.001)
}

func TestDetect_FloatNoiseBelowMinorUnitIsNoChange(t *testing.T) {
	event := Detect(testProduct, state(try(19.99), true), observed(try(19.990000001), true), testTime)

	assert.Equal(t, domain.NoChange, event.Kind)
}

func TestDetect_BackInStockTrumpsPriceChange(t *testing.T) {
	event := Detect(testProduct, state(try(100), false), observed(try(89), true), testTime)

	assert.Equal(t, domain.BackInStock, event.Kind)
	// The price delta still rides along for the notification text.
	assert.InDelta(t, -11.0, event.PriceDelta(), 0.001)
}

func TestDetect_OutOfStock(t *testing.T) {
	event := Detect(testProduct, state(try(100), true), observed(try(100), false), testTime)

	assert.Equal(t, domain.OutOfStock, event.Kind)
}

func TestDetect_OutOfStockTrumpsPriceChange(t *testing.T) {
	event := Detect(testProduct, state(try(100), true), observed(try(120), false), testTime)

	assert.Equal(t, domain.OutOfStock, event.Kind)
}

func TestDetect_PriceChangeWhileOutOfStockBothSides(t *testing.T) {
	// A price moving on a sold-out listing is not actionable.
	event := Detect(testProduct, state(try(100), false), observed(try(150), false), testTime)

	assert.Equal(t, domain.NoChange, event.Kind)
}

func TestDetect_SamePriceSameStock(t *testing.T) {
	event := Detect(testProduct, state(try(100), true), observed(try(100), true), testTime)

	assert.Equal(t, domain.NoChange, event.Kind)
	assert.Equal(t, testTime, event.At)
	assert.Same(t, testProduct, event.Product)
}

func TestDetect_CurrencyChangeIsAPriceChange(t *testing.T) {
	cur := domain.ParsedProduct{
		Title:   "Kulaklik",
		Price:   domain.Price{Amount: 100, Currency: "USD"},
		InStock: true,
	}

	event := Detect(testProduct, state(try(100), true), cur, testTime)

	assert.Equal(t, domain.PriceIncreased, event.Kind)
}
