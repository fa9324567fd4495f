package store

import (
	"strings"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// TrendyolAdapter parses trendyol.com product pages.
type TrendyolAdapter struct{}

func (a *TrendyolAdapter) Kind() domain.StoreKind { return domain.StoreTrendyol }

func (a *TrendyolAdapter) Validate(rawURL string) bool {
	u, ok := hostMatches(rawURL, "trendyol.com")
	if !ok {
		return false
	}
	// Product URLs carry a "-p-<id>" slug; search and category listings
	// live under /sr.
	return strings.Contains(u.Path, "-p-") && !strings.HasPrefix(u.Path, "/sr")
}

func (a *TrendyolAdapter) Extract(page []byte) (domain.ParsedProduct, error) {
	doc, err := parseDoc(page)
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	title, err := requireTitle(firstText(doc, "h1.pr-new-br", "h1.product-name"))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	price, err := requirePrice(firstText(doc, ".prc-dsc", ".product-price"))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	soldOut := anyExists(doc, ".pr-in-cn", ".soldOutProductCt")
	addToCart := anyExists(doc, ".add-to-basket", ".add-to-cart")

	return domain.ParsedProduct{
		Title:   title,
		Price:   price,
		InStock: !soldOut && addToCart,
	}, nil
}
