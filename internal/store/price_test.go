package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Price
	}{
		{
			name: "turkish thousands and decimal comma",
			text: "1.234,56 TL",
			want: domain.Price{Amount: 1234.56, Currency: "TRY"},
		},
		{
			name: "decimal comma only",
			text: "89,90 TL",
			want: domain.Price{Amount: 89.9, Currency: "TRY"},
		},
		{
			name: "plain dot decimal",
			text: "19.99",
			want: domain.Price{Amount: 19.99, Currency: "TRY"},
		},
		{
			name: "dot as thousands separator",
			text: "12.999 TL",
			want: domain.Price{Amount: 12999, Currency: "TRY"},
		},
		{
			name: "multiple dots group thousands",
			text: "1.299.000",
			want: domain.Price{Amount: 1299000, Currency: "TRY"},
		},
		{
			name: "integer with no separators",
			text: "450 TL",
			want: domain.Price{Amount: 450, Currency: "TRY"},
		},
		{
			name: "surrounding markup noise",
			text: "  Fiyat:\n\t2.499,00 TL (KDV dahil)  ",
			want: domain.Price{Amount: 2499, Currency: "TRY"},
		},
		{
			name: "dollar symbol",
			text: "$49.99",
			want: domain.Price{Amount: 49.99, Currency: "USD"},
		},
		{
			name: "euro code",
			text: "129,00 EUR",
			want: domain.Price{Amount: 129, Currency: "EUR"},
		},
		{
			name: "turkish lira sign",
			text: "₺349,90",
			want: domain.Price{Amount: 349.9, Currency: "TRY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePrice(tt.text)
			assert.True(t, ok)
			assert.Equal(t, tt.want.Currency, got.Currency)
			assert.InDelta(t, tt.want.Amount, got.Amount, 0.001)
		})
	}
}

func TestParsePrice_NoNumber(t *testing.T) {
	for _, text := range []string{"", "Fiyat sorunuz", "TL", "..."} {
		_, ok := parsePrice(text)
		assert.False(t, ok, "expected %q to fail", text)
	}
}

func TestPriceCentsRounding(t *testing.T) {
	assert.Equal(t, int64(1999), domain.Price{Amount: 19.99}.Cents())
	assert.Equal(t, int64(1999), domain.Price{Amount: 19.990000001}.Cents())
	assert.True(t, domain.Price{Amount: 19.99, Currency: "TRY"}.
		Equal(domain.Price{Amount: 19.990000001, Currency: "TRY"}))
	assert.False(t, domain.Price{Amount: 19.99, Currency: "TRY"}.
		Equal(domain.Price{Amount: 19.99, Currency: "USD"}))
}
