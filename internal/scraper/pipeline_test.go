package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, useCache bool) *Pipeline {
	t.Helper()
	opts := FetchOptions{MaxRetries: 1, UseCache: useCache}
	if useCache {
		return NewPipeline(NewFetcher(newTestStore(t), nil), opts)
	}
	return NewPipeline(NewFetcher(nil, nil), opts)
}

func TestPipelineRunSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><span class="price">12,50€</span><h1>Widget</h1></body></html>`))
	}))
	defer server.Close()

	pipeline := newTestPipeline(t, false)
	result := pipeline.Run(context.Background(), ProductTarget{
		ID:   "widget-1",
		Name: "Widget",
		URL:  server.URL,
	})

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, SourceLive, result.Source)
	assert.Equal(t, "12,50€", result.PriceText)
	require.NotNil(t, result.NumericPrice)
	assert.Equal(t, 12.5, *result.NumericPrice)
	assert.Equal(t, "€", result.Currency)
	assert.Equal(t, "Widget", result.Title)
	assert.Equal(t, "generic", result.Site)
	assert.Equal(t, server.URL, result.URL)
}

func TestPipelineRunSelectorOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><span class="special">7,99 €</span></body></html>`))
	}))
	defer server.Close()

	pipeline := newTestPipeline(t, false)
	result := pipeline.Run(context.Background(), ProductTarget{
		URL:         server.URL,
		CSSSelector: ".special",
	})

	assert.Equal(t, StatusSuccess, result.Status)
	require.NotNil(t, result.NumericPrice)
	assert.Equal(t, 7.99, *result.NumericPrice)
}

func TestPipelineRunPriceNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Widget</h1><p>no price markup</p></body></html>`))
	}))
	defer server.Close()

	pipeline := newTestPipeline(t, false)
	result := pipeline.Run(context.Background(), ProductTarget{URL: server.URL})

	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, SourceError, result.Source)
	assert.Nil(t, result.NumericPrice)
	assert.Empty(t, result.PriceText)
	assert.Equal(t, CurrencyUnknown, result.Currency)
	assert.Equal(t, TitleUnknown, result.Title)
}

func TestPipelineRunUnparsablePrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><span class="price">Prix indisponible</span></body></html>`))
	}))
	defer server.Close()

	pipeline := newTestPipeline(t, false)
	result := pipeline.Run(context.Background(), ProductTarget{URL: server.URL})

	// Matched price text that does not normalize is still an error outcome
	assert.Equal(t, StatusError, result.Status)
	assert.Nil(t, result.NumericPrice)
}

func TestPipelineRunFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	pipeline := newTestPipeline(t, false)
	result := pipeline.Run(context.Background(), ProductTarget{URL: server.URL})

	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, SourceError, result.Source)
	assert.Equal(t, server.URL, result.URL)
}

func TestPipelineRunCachedSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><span class="price">30,00 €</span></body></html>`))
	}))
	defer server.Close()

	opts := FetchOptions{MaxRetries: 1, UseCache: true, CacheTTL: time.Hour}
	pipeline := NewPipeline(NewFetcher(newTestStore(t), nil), opts)

	first := pipeline.RunURL(context.Background(), server.URL, "")
	assert.Equal(t, SourceLive, first.Source)

	second := pipeline.RunURL(context.Background(), server.URL, "")
	assert.Equal(t, SourceCache, second.Source)
	require.NotNil(t, second.NumericPrice)
	assert.Equal(t, 30.0, *second.NumericPrice)
}
