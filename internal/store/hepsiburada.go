package store

import (
	"strings"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// HepsiburadaAdapter parses hepsiburada.com product pages.
type HepsiburadaAdapter struct{}

func (a *HepsiburadaAdapter) Kind() domain.StoreKind { return domain.StoreHepsiburada }

func (a *HepsiburadaAdapter) Validate(rawURL string) bool {
	u, ok := hostMatches(rawURL, "hepsiburada.com")
	if !ok {
		return false
	}
	return strings.Contains(u.Path, "-p-") && !strings.HasPrefix(u.Path, "/ara")
}

func (a *HepsiburadaAdapter) Extract(page []byte) (domain.ParsedProduct, error) {
	doc, err := parseDoc(page)
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	title, err := requireTitle(firstText(doc,
		"h1.product-name",
		`h1[data-bind="markupText: product.name"]`,
	))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	price, err := requirePrice(firstText(doc,
		`[data-bind="markupText: product.price.currentPrice"]`,
		".product-price",
	))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	// Hepsiburada keeps a status banner in the page even for sellable
	// items; only the "tükendi" wording means sold out.
	soldOutText := firstText(doc, ".product-status-text", ".out-of-stock-text")
	soldOut := strings.Contains(strings.ToLower(soldOutText), "tükendi")
	addToCart := anyExists(doc, "#addToCart", ".add-to-cart")

	return domain.ParsedProduct{
		Title:   title,
		Price:   price,
		InStock: !soldOut && addToCart,
	}, nil
}
