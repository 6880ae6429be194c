package tracking

import (
	"math/rand"
	"time"
)

// Timings controls the session's scheduling. Zero values fall back to the
// production defaults; tests compress them to keep suites fast.
type Timings struct {
	PrepDelayMin time.Duration // lower bound of the randomized preparation delay
	PrepDelayMax time.Duration // upper bound of the randomized preparation delay
	TickInterval time.Duration // simulated movement step interval
	GraceDelay   time.Duration // pause between arrival and the completion callback
}

const (
	defaultPrepDelayMin = 10 * time.Second
	defaultPrepDelayMax = 15 * time.Second
	defaultTickInterval = 2 * time.Second
	defaultGraceDelay   = 3 * time.Second
)

func (timings Timings) withDefaults() Timings {
	if timings.PrepDelayMin <= 0 {
		timings.PrepDelayMin = defaultPrepDelayMin
	}
	if timings.PrepDelayMax <= 0 || timings.PrepDelayMax < timings.PrepDelayMin {
		timings.PrepDelayMax = timings.PrepDelayMin
		if defaultPrepDelayMax > timings.PrepDelayMin {
			timings.PrepDelayMax = defaultPrepDelayMax
		}
	}
	if timings.TickInterval <= 0 {
		timings.TickInterval = defaultTickInterval
	}
	if timings.GraceDelay <= 0 {
		timings.GraceDelay = defaultGraceDelay
	}
	return timings
}

// Option configures a Session at Start.
type Option func(*Session)

// WithUpdateFunc registers the state-change observer.
func WithUpdateFunc(fn UpdateFunc) Option {
	return func(session *Session) { session.onUpdate = fn }
}

// WithTerminalFunc registers the terminal-event observer.
func WithTerminalFunc(fn TerminalFunc) Option {
	return func(session *Session) { session.onTerminal = fn }
}

// WithCompletionFunc registers a callback invoked once, GraceDelay after the
// session completed. Not invoked on cancellation.
func WithCompletionFunc(fn func()) Option {
	return func(session *Session) { session.onCompletion = fn }
}

// WithRand injects a seedable random source so route synthesis becomes
// deterministic under test. Production uses a time-seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(session *Session) { session.rng = rng }
}

// WithTimings overrides the session scheduling intervals.
func WithTimings(timings Timings) Option {
	return func(session *Session) { session.timings = timings.withDefaults() }
}

// WithFeed supplies the live driver location feed. Required when the session
// config carries a DriverID.
func WithFeed(feed LocationFeed) Option {
	return func(session *Session) { session.feed = feed }
}
