package store

import (
	"strings"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// TeknosaAdapter parses teknosa.com product pages.
type TeknosaAdapter struct{}

func (a *TeknosaAdapter) Kind() domain.StoreKind { return domain.StoreTeknosa }

func (a *TeknosaAdapter) Validate(rawURL string) bool {
	u, ok := hostMatches(rawURL, "teknosa.com")
	if !ok {
		return false
	}
	return strings.Contains(u.Path, "-p-") && !strings.HasPrefix(u.Path, "/arama")
}

func (a *TeknosaAdapter) Extract(page []byte) (domain.ParsedProduct, error) {
	doc, err := parseDoc(page)
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	title, err := requireTitle(firstText(doc, "h1.pdp-title"))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	price, err := requirePrice(firstText(doc, ".product-price"))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	soldOut := anyExists(doc, ".add-to-cart--out-of-stock")
	addToCart := anyExists(doc, ".add-to-cart:not(.add-to-cart--out-of-stock)")

	return domain.ParsedProduct{
		Title:   title,
		Price:   price,
		InStock: !soldOut && addToCart,
	}, nil
}
