package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"euro with comma decimal", "129,99 €", 129.99},
		{"dollar no decimal", "$1299", 1299.0},
		{"pound with dot decimal", "£24.50", 24.5},
		{"symbol after number", "12,50€", 12.5},
		{"surrounding text", "À partir de 89,90 € TTC", 89.9},
		// A non-breaking thousands separator ends the numeric token
		{"non-breaking thousands separator", "1 299,00 €", 1.0},
		{"plain integer", "42", 42.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanPrice(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestCleanPriceNoNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"none literal", "none"},
		{"none uppercase", "None"},
		{"availability text", "Rupture de stock"},
		{"currency only", "€"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, CleanPrice(tt.input))
		})
	}
}

func TestExtractCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"129,99 €", "€"},
		{"$12.99", "$"},
		{"£10", "£"},
		{"¥1000", "¥"},
		{"12.99", CurrencyUnknown},
		{"", CurrencyUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractCurrency(tt.input), "input: %q", tt.input)
	}
}

func TestExtractCurrencyPrefersEuro(t *testing.T) {
	// When several symbols appear the fixed order decides
	assert.Equal(t, "€", ExtractCurrency("€ converted from $"))
	assert.Equal(t, "€", ExtractCurrency("$ converted to €"))
}
