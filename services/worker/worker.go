package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"pricetracker/internal/observability"
	"pricetracker/internal/repository"
	"pricetracker/internal/scraper"
	"pricetracker/logger"
	"pricetracker/services/notifier"
	"pricetracker/services/publisher"
)

// Runner runs the full pipeline for one target.
type Runner interface {
	Run(ctx context.Context, target scraper.ProductTarget) scraper.ExtractionResult
}

// Worker drives periodic batch runs: it loads the target list, fans the
// targets out over a bounded pool, and hands each result to the
// publisher, the history repository and the notifier.
type Worker struct {
	ctx         context.Context
	runner      Runner
	repo        repository.History
	notifier    notifier.Notifier
	publisher   publisher.Publisher
	targetsPath string
	interval    time.Duration
	concurrency int
	log         *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	runner Runner,
	repo repository.History,
	ntf notifier.Notifier,
	pub publisher.Publisher,
	targetsPath string,
	interval time.Duration,
	concurrency int,
) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		ctx:         ctx,
		runner:      runner,
		repo:        repo,
		notifier:    ntf,
		publisher:   pub,
		targetsPath: targetsPath,
		interval:    interval,
		concurrency: concurrency,
		log:         logger.ForWorker(),
	}
}

// Start runs batches on the configured interval until the context is
// canceled or the target list becomes unreadable.
func (w *Worker) Start() error {
	for {
		start := time.Now()
		if _, err := w.RunBatch(); err != nil {
			return err
		}
		w.log.Info().Dur("elapsed", time.Since(start)).Msg("Batch finished")

		select {
		case <-w.ctx.Done():
			return nil
		case <-time.After(w.interval):
		}
	}
}

// RunBatch processes every configured target once and returns the batch
// summary. Only a target-list read failure aborts the batch; per-target
// failures are counted and reported, never fatal.
func (w *Worker) RunBatch() ([]scraper.Summary, error) {
	targets, err := scraper.LoadTargets(w.targetsPath)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		w.log.Warn().Msg("No targets found in the configuration file")
		return nil, nil
	}

	w.log.Info().Int("target_count", len(targets)).Msg("Starting price tracking run")

	queue := make(chan scraper.ProductTarget)
	summaries := make([]scraper.Summary, 0, len(targets))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		succeeded int
		failed    int
	)

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range queue {
				summary, ok := w.processTarget(target)
				mu.Lock()
				summaries = append(summaries, summary)
				if ok {
					succeeded++
				} else {
					failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, target := range targets {
		select {
		case <-w.ctx.Done():
			// Let in-flight targets drain; queued ones are dropped
			close(queue)
			wg.Wait()
			return summaries, nil
		case queue <- target:
		}
	}
	close(queue)
	wg.Wait()

	if w.publisher != nil {
		if err := w.publisher.TrimStream(); err != nil {
			w.log.Error().Err(err).Msg("Failed to trim result stream")
		}
	}

	w.log.Info().
		Int("succeeded", succeeded).
		Int("failed", failed).
		Msg("Price tracking run complete")

	return summaries, nil
}

// processTarget runs one target's pipeline to completion and fans the
// result out. A terminal failure here never aborts other targets.
func (w *Worker) processTarget(target scraper.ProductTarget) (scraper.Summary, bool) {
	result := w.runner.Run(w.ctx, target)

	w.publish(target, result)

	summary := scraper.Summary{
		ID:        target.ID,
		Name:      target.Name,
		Timestamp: time.Now(),
	}

	if result.Status != scraper.StatusSuccess {
		observability.TargetsProcessedTotal.WithLabelValues(string(scraper.StatusError)).Inc()
		w.log.Warn().
			Str("product_id", target.ID).
			Str("url", target.URL).
			Msg("Target processed without a usable price")
		return summary, false
	}

	summary.Price = result.NumericPrice
	observability.TargetsProcessedTotal.WithLabelValues(string(scraper.StatusSuccess)).Inc()

	// The previous price must be read before the new observation lands
	previous, prevErr := w.previousPrice(target.ID)

	if w.repo != nil {
		if err := w.repo.SavePrice(w.ctx, target, result); err != nil {
			w.log.Error().Err(err).Str("product_id", target.ID).Msg("Failed to record price")
		}
	}

	w.checkAlerts(target, result, previous, prevErr)

	return summary, true
}

func (w *Worker) previousPrice(productID string) (float64, error) {
	if w.repo == nil {
		return 0, repository.ErrNoHistory
	}
	price, err := w.repo.PreviousPrice(w.ctx, productID)
	if err != nil && !errors.Is(err, repository.ErrNoHistory) {
		w.log.Error().Err(err).Str("product_id", productID).Msg("Failed to look up previous price")
	}
	return price, err
}

// checkAlerts applies the drop and threshold decisions for one result.
func (w *Worker) checkAlerts(target scraper.ProductTarget, result scraper.ExtractionResult, previous float64, prevErr error) {
	if w.notifier == nil || result.NumericPrice == nil {
		return
	}

	price := *result.NumericPrice
	currency := result.Currency
	if currency == scraper.CurrencyUnknown {
		currency = "€"
	}

	if target.NotifyOnDrop && prevErr == nil && price < previous {
		w.log.Info().
			Str("product_id", target.ID).
			Float64("old_price", previous).
			Float64("new_price", price).
			Msg("Price drop detected")
		if err := w.notifier.PriceDrop(target, previous, price, currency); err != nil {
			w.log.Error().Err(err).Str("product_id", target.ID).Msg("Failed to deliver drop alert")
		} else {
			observability.AlertsSentTotal.Inc()
		}
	}

	if target.NotifyOnThreshold && target.ThresholdPrice != nil && price <= *target.ThresholdPrice {
		w.log.Info().
			Str("product_id", target.ID).
			Float64("price", price).
			Float64("threshold", *target.ThresholdPrice).
			Msg("Price threshold reached")
		if err := w.notifier.ThresholdReached(target, price, *target.ThresholdPrice, currency); err != nil {
			w.log.Error().Err(err).Str("product_id", target.ID).Msg("Failed to deliver threshold alert")
		} else {
			observability.AlertsSentTotal.Inc()
		}
	}
}

func (w *Worker) publish(target scraper.ProductTarget, result scraper.ExtractionResult) {
	if w.publisher == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		w.log.Error().Err(err).Str("product_id", target.ID).Msg("Failed to marshal result")
		return
	}

	if err := w.publisher.Publish(target.ID, data); err != nil {
		w.log.Error().Err(err).Str("product_id", target.ID).Msg("Failed to publish result")
	}
}
