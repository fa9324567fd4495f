package store

import (
	"strings"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// AmazonAdapter parses amazon.com.tr product pages.
type AmazonAdapter struct{}

func (a *AmazonAdapter) Kind() domain.StoreKind { return domain.StoreAmazon }

func (a *AmazonAdapter) Validate(rawURL string) bool {
	u, ok := hostMatches(rawURL, "amazon.com.tr")
	if !ok {
		return false
	}
	return strings.Contains(u.Path, "/dp/") || strings.Contains(u.Path, "/gp/product/")
}

func (a *AmazonAdapter) Extract(page []byte) (domain.ParsedProduct, error) {
	doc, err := parseDoc(page)
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	title, err := requireTitle(firstText(doc, "#productTitle"))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	price, err := requirePrice(firstText(doc, ".a-price .a-offscreen", "#priceblock_ourprice"))
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	var inStock bool
	availability := strings.ToLower(firstText(doc, "#availability"))
	if availability != "" {
		inStock = strings.Contains(availability, "stokta") || strings.Contains(availability, "in stock")
	} else {
		inStock = anyExists(doc, "#add-to-cart-button")
	}

	return domain.ParsedProduct{
		Title:   title,
		Price:   price,
		InStock: inStock,
	}, nil
}
