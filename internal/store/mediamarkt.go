package store

import (
	"strings"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// MediaMarktAdapter parses mediamarkt.com.tr product pages.
type MediaMarktAdapter struct{}

func (a *MediaMarktAdapter) Kind() domain.StoreKind { return domain.StoreMediaMarkt }

func (a *MediaMarktAdapter) Validate(rawURL string) bool {
	u, ok := hostMatches(rawURL, "mediamarkt.com.tr")
	if !ok {
		return false
	}
	return strings.Contains(u.Path, "/product/") || strings.HasSuffix(u.Path, ".html")
}

func (a *MediaMarktAdapter) Extract(page []byte) (domain.ParsedProduct, error) {
	doc, err := parseDoc(page)
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	title, err := requireTitle(firstText(doc, "h1.product-title"))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	price, err := requirePrice(firstText(doc, ".price"))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	var inStock bool
	availability := strings.ToLower(firstText(doc, ".availability"))
	if availability != "" {
		inStock = strings.Contains(availability, "stokta") || strings.Contains(availability, "in stock")
	} else {
		inStock = anyExists(doc, ".add-to-cart")
	}

	return domain.ParsedProduct{
		Title:   title,
		Price:   price,
		InStock: inStock,
	}, nil
}
