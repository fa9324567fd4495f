package store

import (
	"strings"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// N11Adapter parses n11.com product pages.
type N11Adapter struct{}

func (a *N11Adapter) Kind() domain.StoreKind { return domain.StoreN11 }

func (a *N11Adapter) Validate(rawURL string) bool {
	u, ok := hostMatches(rawURL, "n11.com")
	if !ok {
		return false
	}
	return strings.Contains(u.Path, "/urun/") && !strings.HasPrefix(u.Path, "/arama")
}

func (a *N11Adapter) Extract(page []byte) (domain.ParsedProduct, error) {
	doc, err := parseDoc(page)
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	title, err := requireTitle(firstText(doc, "h1.proName", "h1.productName"))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	// The discounted price sits in an <ins> inside the price block.
	priceText := firstText(doc, ".newPrice ins", ".newPrice", ".price ins", ".price")
	price, err := requirePrice(priceText)
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	soldOut := anyExists(doc, ".unf-p-summary-out-of-stock", ".outOfStock")
	addToCart := anyExists(doc, "#addBasket", ".btnAddBasket")

	return domain.ParsedProduct{
		Title:   title,
		Price:   price,
		InStock: !soldOut && addToCart,
	}, nil
}
