package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

func testEvent(kind domain.ChangeKind, prev, cur float64) *domain.ChangeEvent {
	return &domain.ChangeEvent{
		Product: &domain.TrackedProduct{
			ID:      1,
			OwnerID: 7,
			Store:   domain.StoreTrendyol,
			URL:     "https://www.trendyol.com/x-p-1",
		},
		Kind:        kind,
		PrevPrice:   domain.Price{Amount: prev, Currency: "TRY"},
		NewPrice:    domain.Price{Amount: cur, Currency: "TRY"},
		PrevInStock: true,
		NewInStock:  true,
		Title:       "Logitech MX Master 3S",
		At:          time.Now(),
	}
}

func TestRenderText_PriceDecreased(t *testing.T) {
	text := renderText(testEvent(domain.PriceDecreased, 100, 89))

	assert.Contains(t, text, "📉 Fiyat düştü!")
	assert.Contains(t, text, "Logitech MX Master 3S")
	assert.Contains(t, text, "Eski fiyat: 100.00 TRY")
	assert.Contains(t, text, "Yeni fiyat: 89.00 TRY")
	assert.Contains(t, text, "https://www.trendyol.com/x-p-1")
}

func TestRenderText_PriceIncreased(t *testing.T) {
	text := renderText(testEvent(domain.PriceIncreased, 89, 100))

	assert.Contains(t, text, "📈 Fiyat arttı!")
}

func TestRenderText_BackInStockWithPriceMove(t *testing.T) {
	event := testEvent(domain.BackInStock, 100, 89)
	event.PrevInStock = false

	text := renderText(event)

	assert.Contains(t, text, "🎉 Ürün tekrar stokta!")
	assert.Contains(t, text, "Fiyat: 89.00 TRY")
	assert.Contains(t, text, "Önceki fiyat: 100.00 TRY")
}

func TestRenderText_BackInStockSamePrice(t *testing.T) {
	event := testEvent(domain.BackInStock, 100, 100)
	event.PrevInStock = false

	text := renderText(event)

	assert.Contains(t, text, "Fiyat: 100.00 TRY")
	assert.NotContains(t, text, "Önceki fiyat")
}

func TestRenderText_OutOfStock(t *testing.T) {
	event := testEvent(domain.OutOfStock, 100, 100)
	event.NewInStock = false

	text := renderText(event)

	assert.Contains(t, text, "❌ Ürün stokta kalmadı!")
	assert.NotContains(t, text, "Eski fiyat")
}
