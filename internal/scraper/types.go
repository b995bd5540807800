package scraper

import "time"

// Status reports whether an extraction produced a usable price.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Source reports where a page body came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceLive  Source = "live"
	SourceError Source = "error"
)

// SelectorAuto marks a target without a selector override.
const SelectorAuto = "auto"

// ProductTarget is a product to track. It is immutable during a pipeline run.
type ProductTarget struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	URL               string   `json:"url"`
	CSSSelector       string   `json:"css_selector"`
	NotifyOnDrop      bool     `json:"notify_on_drop"`
	NotifyOnThreshold bool     `json:"notify_on_threshold"`
	ThresholdPrice    *float64 `json:"threshold_price,omitempty"`
}

// SelectorOverride returns the target's selector override, or "" when the
// target uses automatic site detection.
func (t ProductTarget) SelectorOverride() string {
	if t.CSSSelector == "" || t.CSSSelector == SelectorAuto {
		return ""
	}
	return t.CSSSelector
}

// ExtractionResult is the outcome of one fetch-and-extract attempt.
// It is never mutated after creation.
type ExtractionResult struct {
	PriceText    string   `json:"price,omitempty"`
	NumericPrice *float64 `json:"numeric_price,omitempty"`
	Currency     string   `json:"currency"`
	Title        string   `json:"title"`
	Availability string   `json:"availability,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Site         string   `json:"site"`
	URL          string   `json:"url"`
	Status       Status   `json:"status"`
	Source       Source   `json:"source"`
}

// FetchOutcome is a retrieved page body and where it came from.
type FetchOutcome struct {
	Body   []byte
	Source Source
}

// Summary is one line of a batch run report.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     *float64  `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}
