package notifier

import "pricetracker/internal/scraper"

// Notifier delivers price alerts for tracked products. Delivery
// failures are reportable, never fatal to a run.
type Notifier interface {
	// PriceDrop alerts that a product's price fell below its previous
	// recorded price.
	PriceDrop(target scraper.ProductTarget, oldPrice, newPrice float64, currency string) error

	// ThresholdReached alerts that a product's price fell to or below
	// its configured threshold.
	ThresholdReached(target scraper.ProductTarget, price, threshold float64, currency string) error
}
