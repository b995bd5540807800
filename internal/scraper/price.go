package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"pricetracker/logger"
)

// CurrencyUnknown is reported when no known symbol appears in the text.
const CurrencyUnknown = "Unknown"

var (
	currencySymbols = []string{"€", "$", "£", "¥"}

	// First contiguous run of digits with an optional decimal separator.
	// Tolerates surrounding text such as "À partir de 129,99€".
	priceTokenRe = regexp.MustCompile(`\d+[.,]?\d*`)
)

// CleanPrice converts raw price text into a numeric value.
// Returns nil when the text is empty, "none", or holds no parsable
// number. A comma in the matched token is treated as a decimal point.
func CleanPrice(text string) *float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, "none") {
		return nil
	}

	// Remove currency symbols
	for _, symbol := range currencySymbols {
		trimmed = strings.ReplaceAll(trimmed, symbol, "")
	}

	// Normalize non-breaking space variants to ordinary whitespace
	trimmed = strings.ReplaceAll(trimmed, " ", " ")
	trimmed = strings.ReplaceAll(trimmed, " ", " ")
	trimmed = strings.TrimSpace(trimmed)

	token := priceTokenRe.FindString(trimmed)
	if token == "" {
		logger.ForPipeline().Warn().
			Str("text", text).
			Msg("No numeric price found in text")
		return nil
	}

	token = strings.ReplaceAll(token, ",", ".")
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		logger.ForPipeline().Warn().
			Str("token", token).
			Msg("Could not convert price token to number")
		return nil
	}

	return &value
}

// ExtractCurrency returns the first known currency symbol found anywhere
// in the text, or CurrencyUnknown.
func ExtractCurrency(text string) string {
	for _, symbol := range currencySymbols {
		if strings.Contains(text, symbol) {
			return symbol
		}
	}
	return CurrencyUnknown
}
