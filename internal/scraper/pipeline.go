package scraper

import (
	"context"
	"fmt"

	"pricetracker/logger"
	apperrors "pricetracker/pkg/errors"
)

// Pipeline coordinates the per-target chain: resolve site, fetch
// (cache or live), extract, normalize, emit. Any stage failure
// short-circuits to an error-status result; no stage after a failure
// runs, and nothing propagates as a panic.
type Pipeline struct {
	fetcher *Fetcher
	opts    FetchOptions
	log     *logger.Logger
}

// NewPipeline creates a pipeline using the given fetcher and fetch options.
func NewPipeline(fetcher *Fetcher, opts FetchOptions) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		opts:    opts,
		log:     logger.ForPipeline(),
	}
}

// Run executes the full pipeline for one target and returns exactly one
// canonical extraction record.
func (p *Pipeline) Run(ctx context.Context, target ProductTarget) ExtractionResult {
	return p.RunURL(ctx, target.URL, target.SelectorOverride())
}

// RunURL executes the pipeline for an ad hoc URL and optional selector
// override, without requiring a configured target.
func (p *Pipeline) RunURL(ctx context.Context, rawURL, selectorOverride string) ExtractionResult {
	site := DetectSite(rawURL)

	outcome, err := p.fetcher.Fetch(ctx, rawURL, p.opts)
	if err != nil {
		p.log.Error().Err(err).Str("url", rawURL).Msg("Fetch failed after all retries")
		return errorResult(rawURL, site)
	}

	extracted, err := ExtractPage(outcome.Body, rawURL, selectorOverride)
	if err != nil {
		p.log.Error().Err(err).Str("url", rawURL).Msg("Failed to parse page markup")
		return errorResult(rawURL, site)
	}

	if extracted.PriceText == "" {
		extractionErr := apperrors.NewExtraction(rawURL, "no price element matched any selector")
		p.log.Warn().
			Err(extractionErr).
			Str("selector", selectorOverride).
			Str("site", site.String()).
			Msg("Price element not found")
		if extracted.Title != TitleUnknown {
			p.log.Info().
				Str("title", extracted.Title).
				Msg("Product title found, but no price with the available selectors")
		}
		return errorResult(rawURL, site)
	}

	numeric := CleanPrice(extracted.PriceText)
	if numeric == nil {
		// A matched-but-unparsable price text is still an error outcome;
		// the pipeline never substitutes a placeholder price.
		normalizationErr := apperrors.NewNormalization(rawURL, fmt.Sprintf("price text %q holds no parsable number", extracted.PriceText))
		p.log.Warn().
			Err(normalizationErr).
			Str("price_text", extracted.PriceText).
			Msg("Price text did not normalize to a number")
		return errorResult(rawURL, site)
	}

	result := *extracted
	result.NumericPrice = numeric
	result.Currency = ExtractCurrency(extracted.PriceText)
	result.Status = StatusSuccess
	result.Source = outcome.Source

	p.log.Info().
		Str("url", rawURL).
		Str("price", extracted.PriceText).
		Float64("numeric_price", *numeric).
		Str("source", string(outcome.Source)).
		Msg("Price found")

	return result
}

// errorResult is the canonical error-status record: no price text, no
// numeric price.
func errorResult(rawURL string, site Site) ExtractionResult {
	return ExtractionResult{
		Currency: CurrencyUnknown,
		Title:    TitleUnknown,
		Site:     site.String(),
		URL:      rawURL,
		Status:   StatusError,
		Source:   SourceError,
	}
}
