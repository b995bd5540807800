package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHostLimiterSpacesSameHost(t *testing.T) {
	limiter := NewHostLimiter(100 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		assert.NoError(t, limiter.Wait(context.Background(), "shop.example.com"))
	}
	// Two waits of ~100ms between the three calls
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestHostLimiterIndependentHosts(t *testing.T) {
	limiter := NewHostLimiter(time.Second)

	start := time.Now()
	assert.NoError(t, limiter.Wait(context.Background(), "a.example.com"))
	assert.NoError(t, limiter.Wait(context.Background(), "b.example.com"))
	assert.NoError(t, limiter.Wait(context.Background(), "c.example.com"))
	// Distinct hosts never wait on each other
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestHostLimiterDisabled(t *testing.T) {
	limiter := NewHostLimiter(0)

	start := time.Now()
	for i := 0; i < 10; i++ {
		assert.NoError(t, limiter.Wait(context.Background(), "shop.example.com"))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestHostLimiterNilReceiver(t *testing.T) {
	var limiter *HostLimiter
	assert.NoError(t, limiter.Wait(context.Background(), "shop.example.com"))
}

func TestHostLimiterCanceledContext(t *testing.T) {
	limiter := NewHostLimiter(time.Minute)

	// The first call consumes the burst token
	assert.NoError(t, limiter.Wait(context.Background(), "shop.example.com"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, limiter.Wait(ctx, "shop.example.com"))
}
