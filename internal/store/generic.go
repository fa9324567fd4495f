package store

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// outOfStockMarkers are phrases that mean "sold out" on Turkish and
// English storefronts.
var outOfStockMarkers = []string{
	"out of stock",
	"tükendi",
	"sold out",
	"stokta yok",
	"stokta bulunmamaktadır",
	"ürün geçici olarak temin edilemiyor",
}

// GenericAdapter is a best-effort parser for stores without a dedicated
// adapter. It probes common e-commerce markup patterns; a title can fall
// back to the page <title>, but a page with no locatable price still
// fails, since a priceless observation cannot be diffed.
type GenericAdapter struct{}

func (a *GenericAdapter) Kind() domain.StoreKind { return domain.StoreGeneric }

func (a *GenericAdapter) Validate(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	// Anything with a path beyond the site root might be a product page.
	return u.Hostname() != "" && len(strings.Trim(u.Path, "/")) > 0
}

func (a *GenericAdapter) Extract(page []byte) (domain.ParsedProduct, error) {
	doc, err := parseDoc(page)
	if err != nil {
		return domain.ParsedProduct{}, err
	}

	title := firstText(doc,
		"h1",
		`[class*="title" i]`,
		`[class*="product-name" i]`,
		"title",
	)
	if title == "" {
		return domain.ParsedProduct{}, &domain.ExtractionError{Reason: domain.MissingField, Field: "title"}
	}

	price, ok := a.findPrice(doc)
	if !ok {
		return domain.ParsedProduct{}, &domain.ExtractionError{Reason: domain.MissingField, Field: "price"}
	}

	return domain.ParsedProduct{
		Title:   title,
		Price:   price,
		InStock: a.inferStock(doc),
	}, nil
}

func (a *GenericAdapter) findPrice(doc *goquery.Document) (domain.Price, bool) {
	selectors := []string{
		`[class*="price" i]:not([class*="old" i]):not([class*="regular" i])`,
		`[id*="price" i]`,
		`[class*="current" i][class*="price" i]`,
	}
	for _, sel := range selectors {
		var found domain.Price
		var ok bool
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if p, parsed := parsePrice(strings.TrimSpace(s.Text())); parsed {
				found, ok = p, true
				return false
			}
			return true
		})
		if ok {
			return found, true
		}
	}

	// Open Graph product metadata as a last resort.
	if content, exists := doc.Find(`meta[property="product:price:amount"]`).Attr("content"); exists {
		if p, parsed := parsePrice(content); parsed {
			return p, true
		}
	}
	return domain.Price{}, false
}

func (a *GenericAdapter) inferStock(doc *goquery.Document) bool {
	pageText := strings.ToLower(doc.Text())
	for _, marker := range outOfStockMarkers {
		if strings.Contains(pageText, marker) {
			return false
		}
	}
	return anyExists(doc,
		`[class*="add-to-cart" i]`,
		`[class*="addtocart" i]`,
		`[class*="add-to-basket" i]`,
		`[class*="addtobasket" i]`,
		`[id*="add-to-cart" i]`,
		`[id*="addtocart" i]`,
		// A visible price with no sold-out marker usually means buyable.
		`[class*="price" i]`,
	)
}
