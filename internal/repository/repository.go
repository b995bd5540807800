package repository

import (
	"context"
	"errors"
	"io"

	"pricetracker/internal/scraper"
)

// ErrNoHistory is returned when a product has no recorded price yet.
var ErrNoHistory = errors.New("repository: no price history")

// History stores the append-only price history and the latest snapshot
// per product, and answers previous-price lookups for alert decisions.
type History interface {
	// SavePrice appends a price observation and upserts the product's
	// latest snapshot.
	SavePrice(ctx context.Context, target scraper.ProductTarget, result scraper.ExtractionResult) error

	// PreviousPrice returns the most recent recorded price for a
	// product, or ErrNoHistory.
	PreviousPrice(ctx context.Context, productID string) (float64, error)

	// ExportCSV writes the full price history as CSV.
	ExportCSV(ctx context.Context, w io.Writer) error

	// Close releases the underlying storage.
	Close() error
}
