package maps

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Option {
	return WithRetryPolicy(3, time.Millisecond)
}

func TestLoadSucceedsFirstTry(t *testing.T) {
	var calls atomic.Int32
	loader := NewLoader("key", func(ctx context.Context, apiKey string) error {
		calls.Add(1)
		assert.Equal(t, "key", apiKey)
		return nil
	}, nil, fastPolicy())

	require.NoError(t, loader.Load(context.Background()))
	assert.True(t, loader.Loaded())
	assert.Equal(t, int32(1), calls.Load())

	state := loader.State()
	assert.Equal(t, PhaseLoaded, state.Phase)
	assert.Equal(t, 1, state.Attempts)
	assert.NoError(t, state.LastErr)

	// Second Load is a no-op.
	require.NoError(t, loader.Load(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	loader := NewLoader("key", func(ctx context.Context, apiKey string) error {
		if calls.Add(1) < 3 {
			return errors.New("connection reset")
		}
		return nil
	}, nil, fastPolicy())

	require.NoError(t, loader.Load(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, loader.State().Attempts)
}

func TestLoadExhaustsRetries(t *testing.T) {
	fetchErr := errors.New("blocked by firewall")
	var calls atomic.Int32
	loader := NewLoader("key", func(ctx context.Context, apiKey string) error {
		calls.Add(1)
		return fetchErr
	}, nil, fastPolicy())

	err := loader.Load(context.Background())
	assert.ErrorIs(t, err, ErrLoadExhausted)
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, int32(4), calls.Load()) // initial attempt + 3 retries
	assert.False(t, loader.Loaded())

	state := loader.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.ErrorIs(t, state.LastErr, fetchErr)

	// A failed loader can be retried.
	loader.fetch = func(ctx context.Context, apiKey string) error { return nil }
	require.NoError(t, loader.Load(context.Background()))
	assert.True(t, loader.Loaded())
}

func TestLoadRequiresAPIKey(t *testing.T) {
	loader := NewLoader("", func(ctx context.Context, apiKey string) error { return nil }, nil)
	assert.ErrorIs(t, loader.Load(context.Background()), ErrMissingAPIKey)
	assert.Equal(t, PhaseIdle, loader.State().Phase)
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	loader := NewLoader("key", func(ctx context.Context, apiKey string) error {
		calls.Add(1)
		<-release
		return nil
	}, nil, fastPolicy())

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = loader.Load(context.Background())
		}(i)
	}

	// Let all goroutines reach the loader before releasing the fetch.
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestResetClearsLoadedState(t *testing.T) {
	var calls atomic.Int32
	loader := NewLoader("key", func(ctx context.Context, apiKey string) error {
		calls.Add(1)
		return nil
	}, nil, fastPolicy())

	require.NoError(t, loader.Load(context.Background()))
	loader.Reset()
	assert.Equal(t, PhaseIdle, loader.State().Phase)

	require.NoError(t, loader.Load(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoadHonorsContextBetweenRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loader := NewLoader("key", func(ctx context.Context, apiKey string) error {
		cancel()
		return errors.New("transient")
	}, nil, WithRetryPolicy(3, time.Minute))

	err := loader.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseFailed, loader.State().Phase)
}
