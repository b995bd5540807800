package scraper

import (
	"context"
	"errors"
	mathrand "math/rand"
	"net"
	"net/http"
	"net/url"
	"time"

	"pricetracker/helpers"
	"pricetracker/internal/observability"
	"pricetracker/logger"
	apperrors "pricetracker/pkg/errors"
	"pricetracker/services/cache"
)

// FetchOptions controls one fetch: retry budget, backoff base, and the
// caching policy.
type FetchOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	UseCache   bool
	CacheTTL   time.Duration
}

// DefaultFetchOptions mirror the defaults of the batch runner.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		UseCache:   true,
		CacheTTL:   time.Hour,
	}
}

// Fetcher retrieves product pages, consulting and populating the cache
// store and observing the per-host politeness limiter.
type Fetcher struct {
	cache   cache.Store
	limiter *HostLimiter
	log     *logger.Logger
}

// NewFetcher creates a fetcher. Both store and limiter may be nil;
// caching and politeness are optimizations, not dependencies.
func NewFetcher(store cache.Store, limiter *HostLimiter) *Fetcher {
	return &Fetcher{
		cache:   store,
		limiter: limiter,
		log:     logger.ForFetcher(),
	}
}

// Fetch retrieves the page at rawURL. A valid cache entry short-circuits
// the network entirely; otherwise the live path retries up to
// opts.MaxRetries with additive jittered backoff. After the budget is
// exhausted a network error is returned; the caller converts it into an
// error-status result, it never propagates as a crash.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts FetchOptions) (*FetchOutcome, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, apperrors.NewNetwork(rawURL, "invalid URL", err)
	}
	key := cache.Key(u)

	if opts.UseCache && f.cache != nil {
		body, err := f.cache.Lookup(key, opts.CacheTTL)
		if err == nil {
			observability.CacheHitsTotal.Inc()
			f.log.Info().Str("url", rawURL).Msg("Using cached response")
			return &FetchOutcome{Body: body, Source: SourceCache}, nil
		}
		observability.CacheMissesTotal.Inc()
		if !errors.Is(err, cache.ErrMiss) {
			f.log.Warn().
				Err(apperrors.NewCache(rawURL, "cache lookup failed", err)).
				Msg("Cache lookup failed, fetching live")
		}
	}

	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 1 {
			delay := retryDelay(opts.BaseDelay)
			f.log.Info().
				Int("attempt", attempt).
				Int("max_retries", opts.MaxRetries).
				Dur("delay", delay).
				Str("url", rawURL).
				Msg("Retrying fetch")
			select {
			case <-ctx.Done():
				return nil, apperrors.NewNetwork(rawURL, "fetch canceled", ctx.Err())
			case <-time.After(delay):
			}
		}

		if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, apperrors.NewNetwork(rawURL, "fetch canceled", err)
		}

		observability.FetchAttemptsTotal.Inc()
		body, err := helpers.FetchPage(ctx, rawURL)
		if err != nil {
			f.logAttemptFailure(rawURL, attempt, opts.MaxRetries, err)
			continue
		}

		// Cache before extraction so a later parse failure never
		// prevents caching of the raw page. Write failures are logged
		// and discarded.
		if opts.UseCache && f.cache != nil {
			if err := f.cache.Store(key, body); err != nil {
				f.log.Warn().
					Err(apperrors.NewCache(rawURL, "failed to save response", err)).
					Msg("Failed to save response to cache")
			}
		}

		return &FetchOutcome{Body: body, Source: SourceLive}, nil
	}

	return nil, apperrors.NewNetwork(rawURL, "failed to fetch after all retries", nil)
}

// retryDelay is additive-with-jitter, not exponential: base plus a
// uniform 1-3s, bounding worst-case wait while desynchronizing
// concurrent targets.
func retryDelay(base time.Duration) time.Duration {
	jitter := time.Duration((1 + 2*mathrand.Float64()) * float64(time.Second))
	return base + jitter
}

func (f *Fetcher) logAttemptFailure(rawURL string, attempt, maxRetries int, err error) {
	log := f.log.WithFields(logger.Fields{
		"url":         rawURL,
		"attempt":     attempt,
		"max_retries": maxRetries,
	})

	var statusErr *helpers.StatusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		if statusErr.Code == http.StatusForbidden {
			log.Warn().Int("status", statusErr.Code).Msg("Possible block detected (403), consider a proxy for this site")
		} else {
			log.Error().Int("status", statusErr.Code).Msg("HTTP error")
		}
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Error().Msg("Timeout error")
	default:
		log.Error().Err(err).Msg("Request failed")
	}
}
