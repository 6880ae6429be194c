// Package maps manages the availability of the external map provider's
// script bundle. The loader used to be process-global state; it is now an
// injected dependency with its own state machine so callers share one load
// and tests can drive failures.
package maps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
)

// ScriptFetcher retrieves the provider script bundle. The production fetcher
// performs the network fetch; tests substitute a func that fails on demand.
type ScriptFetcher func(ctx context.Context, apiKey string) error

// Phase is the loader's lifecycle position.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseFailed  Phase = "failed"
)

// State is a point-in-time snapshot of the loader, safe to read concurrently
// with loads.
type State struct {
	Phase    Phase
	Attempts int
	LastErr  error
}

var (
	ErrMissingAPIKey = errors.New("maps: api key is missing")
	ErrLoadExhausted = errors.New("maps: load retries exhausted")
)

// Loader fetches the map script once and remembers the outcome. Concurrent
// Load calls share a single fetch. A failed load can be retried by calling
// Load again; Reset clears a loaded state entirely.
type Loader struct {
	fetch      ScriptFetcher
	apiKey     string
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	phase    Phase
	attempts int
	lastErr  error
	inflight chan struct{}
}

// Option customizes a Loader.
type Option func(*Loader)

// WithRetryPolicy overrides the retry count and base backoff.
func WithRetryPolicy(maxRetries int, backoff time.Duration) Option {
	return func(loader *Loader) {
		loader.maxRetries = maxRetries
		loader.backoff = backoff
	}
}

// NewLoader builds a Loader with 3 retries and a 1s base backoff like the
// old client-side loader had.
func NewLoader(apiKey string, fetch ScriptFetcher, logger *slog.Logger, opts ...Option) *Loader {
	loader := &Loader{
		fetch:      fetch,
		apiKey:     apiKey,
		maxRetries: 3,
		backoff:    time.Second,
		logger:     logger,
		phase:      PhaseIdle,
	}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load ensures the script is loaded, fetching it if needed. It returns nil
// immediately when already loaded, joins the in-flight fetch when one is
// running, and otherwise fetches with bounded linear backoff between
// attempts (1x, 2x, 3x the base, as the original did).
func (loader *Loader) Load(ctx context.Context) error {
	if loader.apiKey == "" {
		return ErrMissingAPIKey
	}

	loader.mu.Lock()
	switch loader.phase {
	case PhaseLoaded:
		loader.mu.Unlock()
		return nil
	case PhaseLoading:
		done := loader.inflight
		loader.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		loader.mu.Lock()
		defer loader.mu.Unlock()
		if loader.phase == PhaseLoaded {
			return nil
		}
		return loader.lastErr
	}
	loader.phase = PhaseLoading
	loader.attempts = 0
	loader.lastErr = nil
	loader.inflight = make(chan struct{})
	loader.mu.Unlock()

	err := loader.run(ctx)

	loader.mu.Lock()
	if err == nil {
		loader.phase = PhaseLoaded
	} else {
		loader.phase = PhaseFailed
		loader.lastErr = err
	}
	close(loader.inflight)
	loader.inflight = nil
	loader.mu.Unlock()
	return err
}

func (loader *Loader) run(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= loader.maxRetries+1; attempt++ {
		loader.mu.Lock()
		loader.attempts = attempt
		loader.mu.Unlock()

		lastErr = loader.fetch(ctx, loader.apiKey)
		if lastErr == nil {
			return nil
		}
		if loader.logger != nil {
			log.Error(ctx, loader.logger, "maps_load_failed",
				fmt.Sprintf("Map script fetch failed (attempt %d/%d)", attempt, loader.maxRetries+1), lastErr)
		}
		if attempt > loader.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(loader.backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("%w: %w", ErrLoadExhausted, lastErr)
}

// State reports the current phase, attempt count, and last error.
func (loader *Loader) State() State {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	return State{Phase: loader.phase, Attempts: loader.attempts, LastErr: loader.lastErr}
}

// Loaded reports whether the script is usable.
func (loader *Loader) Loaded() bool {
	return loader.State().Phase == PhaseLoaded
}

// Reset drops any loaded or failed state so the next Load starts fresh. It
// does nothing while a load is in flight.
func (loader *Loader) Reset() {
	loader.mu.Lock()
	defer loader.mu.Unlock()
	if loader.phase == PhaseLoading {
		return
	}
	loader.phase = PhaseIdle
	loader.attempts = 0
	loader.lastErr = nil
}
