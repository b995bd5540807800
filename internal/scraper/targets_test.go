package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pricetracker/pkg/errors"
)

func writeTargets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTargets(t *testing.T) {
	path := writeTargets(t, `[
		{
			"id": "echo-dot",
			"name": "Echo Dot",
			"url": "https://www.amazon.fr/dp/B0TEST",
			"css_selector": "auto",
			"notify_on_drop": true,
			"notify_on_threshold": true,
			"threshold_price": 39.99
		},
		{
			"name": "Widget",
			"url": "https://shop.example.com/widget",
			"css_selector": ".promo-price"
		}
	]`)

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	echo := targets[0]
	assert.Equal(t, "echo-dot", echo.ID)
	assert.Equal(t, "Echo Dot", echo.Name)
	assert.True(t, echo.NotifyOnDrop)
	require.NotNil(t, echo.ThresholdPrice)
	assert.Equal(t, 39.99, *echo.ThresholdPrice)
	assert.Empty(t, echo.SelectorOverride(), "auto means no override")

	widget := targets[1]
	assert.Equal(t, DeriveID(widget.URL), widget.ID, "missing id is derived from the URL")
	assert.Equal(t, ".promo-price", widget.SelectorOverride())
	assert.False(t, widget.NotifyOnDrop)
	assert.Nil(t, widget.ThresholdPrice)
}

func TestLoadTargetsMissingFile(t *testing.T) {
	_, err := LoadTargets(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
}

func TestLoadTargetsMalformedJSON(t *testing.T) {
	path := writeTargets(t, `{not json`)
	_, err := LoadTargets(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
}

func TestLoadTargetsMissingURL(t *testing.T) {
	path := writeTargets(t, `[{"id": "x", "name": "No URL"}]`)
	_, err := LoadTargets(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
}

func TestDeriveID(t *testing.T) {
	id := DeriveID("https://shop.example.com/widget")
	assert.Len(t, id, 8)
	// Stable across calls, distinct across URLs
	assert.Equal(t, id, DeriveID("https://shop.example.com/widget"))
	assert.NotEqual(t, id, DeriveID("https://shop.example.com/other"))
}
