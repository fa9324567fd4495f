package store

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// defaultCurrency applies when no symbol is present. All supported
// stores price in Turkish lira.
const defaultCurrency = "TRY"

var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parsePrice normalizes a scraped price string into a canonical
// amount + currency pair. It handles Turkish formatting ("1.234,56 TL"),
// plain decimal-point formatting ("1234.56") and stray markup text
// around the number. Returns false when no number can be found.
func parsePrice(text string) (domain.Price, bool) {
	currency := detectCurrency(text)

	// Keep digits and separators only.
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			return r
		}
		return -1
	}, text)
	if cleaned == "" {
		return domain.Price{}, false
	}

	cleaned = normalizeSeparators(cleaned)

	match := numberRe.FindString(cleaned)
	if match == "" {
		return domain.Price{}, false
	}
	amount, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return domain.Price{}, false
	}
	return domain.Price{Amount: amount, Currency: currency}, true
}

// normalizeSeparators rewrites a digit string with mixed separators into
// dot-decimal form. A comma, when present, is always the decimal mark
// (Turkish convention); a lone dot is a decimal mark only when it is
// followed by at most two digits, otherwise it groups thousands.
func normalizeSeparators(s string) string {
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasDot:
		last := strings.LastIndexByte(s, '.')
		decimals := len(s) - last - 1
		if strings.Count(s, ".") == 1 && decimals <= 2 {
			// "19.99" style, already dot-decimal.
			break
		}
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

func detectCurrency(text string) string {
	switch {
	case strings.Contains(text, "$") || strings.Contains(text, "USD"):
		return "USD"
	case strings.Contains(text, "€") || strings.Contains(text, "EUR"):
		return "EUR"
	default:
		return defaultCurrency
	}
}
