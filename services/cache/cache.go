package cache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrMiss is returned by Lookup when no usable entry exists for a key.
// A missing, stale or corrupt entry all degrade to a miss; the caller
// falls back to a live fetch.
var ErrMiss = errors.New("cache: miss")

// Store represents a TTL-bound store of raw fetched page bodies.
type Store interface {
	// Lookup retrieves the body stored at key if it is younger than ttl.
	// Returns ErrMiss when the entry is absent, stale or corrupt.
	Lookup(key string, ttl time.Duration) ([]byte, error)

	// Store persists a body at key, overwriting any prior content.
	Store(key string, body []byte) error

	// Delete removes the entry at key
	Delete(key string) error
}

// Key derives a stable cache key from a URL's host and path.
// URLs differing only in their query string map to the same key.
func Key(u *url.URL) string {
	sum := sha256.Sum256([]byte(u.Path))
	return fmt.Sprintf("%s_%x", u.Hostname(), sum[:8])
}

// KeyForURL derives a cache key from a raw URL string.
func KeyForURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	return Key(u), nil
}
