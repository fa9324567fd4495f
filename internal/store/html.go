package store

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

func parseDoc(page []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, &domain.ExtractionError{Reason: domain.LayoutChanged}
	}
	return doc, nil
}

// firstText returns the trimmed text of the first selector that matches
// a non-empty element.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// anyExists reports whether any of the selectors matches.
func anyExists(doc *goquery.Document, selectors ...string) bool {
	for _, sel := range selectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// requirePrice parses priceText scraped from a located price element.
// An empty string means the element was never found (MissingField); text
// that cannot be reduced to a number means the page changed shape under
// us (AmbiguousContent).
func requirePrice(priceText string) (domain.Price, error) {
	if priceText == "" {
		return domain.Price{}, &domain.ExtractionError{Reason: domain.MissingField, Field: "price"}
	}
	price, ok := parsePrice(priceText)
	if !ok {
		return domain.Price{}, &domain.ExtractionError{Reason: domain.AmbiguousContent, Field: "price"}
	}
	return price, nil
}

func requireTitle(title string) (string, error) {
	if title == "" {
		return "", &domain.ExtractionError{Reason: domain.MissingField, Field: "title"}
	}
	return title, nil
}
