package source_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-feed/internal/infra/source"
)

func TestNewRateLimiter_DisabledNeverBlocks(t *testing.T) {
	limiter := source.NewRateLimiter(0, 5)
	assert.Nil(t, limiter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		assert.NoError(t, limiter.Allow(ctx))
	}
}

func TestRateLimiter_BurstThenWait(t *testing.T) {
	limiter := source.NewRateLimiter(1, 2)
	require.NotNil(t, limiter)

	ctx := context.Background()
	require.NoError(t, limiter.Allow(ctx))
	require.NoError(t, limiter.Allow(ctx))

	// The third token is a second away, past the deadline.
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Allow(short))
}

func TestRateLimiter_CanceledContext(t *testing.T) {
	limiter := source.NewRateLimiter(100, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, limiter.Allow(ctx), context.Canceled)
}
