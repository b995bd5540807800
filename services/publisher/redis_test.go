package publisher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test requires a running Redis instance.
// If Redis is not available, the test is skipped.
func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()
	pub := NewRedisPublisher(ctx, "localhost:6379", 0, "price_results_test", 10)
	defer pub.Close()

	if err := pub.client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	defer pub.client.Del(ctx, "price_results_test")

	err := pub.Publish("echo-dot", []byte(`{"status":"success","numeric_price":49.99}`))
	require.NoError(t, err)

	// The record lands in the stream with both fields
	entries, err := pub.client.XRange(ctx, "price_results_test", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "echo-dot", entries[0].Values["product_id"])
	assert.Contains(t, entries[0].Values["result"], "49.99")

	assert.NoError(t, pub.TrimStream())
}

func TestTrimStreamDisabled(t *testing.T) {
	// A non-positive max length disables trimming without touching Redis
	pub := &RedisPublisher{maxLength: 0}
	assert.NoError(t, pub.TrimStream())
}
