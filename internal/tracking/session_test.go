package tracking

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
)

var (
	delhi  = geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090}
	mumbai = geo.Coordinate{Latitude: 19.0760, Longitude: 72.8777}
)

// fastTimings compresses the production 10-15s/2s/3s schedule so a full
// 100-step run finishes in well under a second.
func fastTimings() Timings {
	return Timings{
		PrepDelayMin: 20 * time.Millisecond,
		PrepDelayMax: 25 * time.Millisecond,
		TickInterval: time.Millisecond,
		GraceDelay:   time.Millisecond,
	}
}

// recorder collects observer callbacks; the session goroutine is the only
// writer while the test goroutine reads after Done.
type recorder struct {
	mu        sync.Mutex
	session   *Session
	updates   []Update
	terminals []Terminal
	completed int

	// cancelAtMovementUpdate, when > 0, cancels the session from inside the
	// update callback once that many movement updates have been seen.
	cancelAtMovementUpdate int
}

func (rec *recorder) onUpdate(update Update) {
	rec.mu.Lock()
	rec.updates = append(rec.updates, update)
	moves := rec.countMovementLocked()
	session := rec.session
	shouldCancel := rec.cancelAtMovementUpdate > 0 && moves == rec.cancelAtMovementUpdate
	rec.mu.Unlock()

	if shouldCancel && session != nil {
		session.Cancel()
	}
}

func (rec *recorder) onTerminal(terminal Terminal) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.terminals = append(rec.terminals, terminal)
}

func (rec *recorder) onCompletion() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.completed++
}

func (rec *recorder) countMovementLocked() int {
	n := 0
	for _, u := range rec.updates {
		if u.Provider != nil && !u.Status.Terminal() {
			n++
		}
	}
	return n
}

func (rec *recorder) attach(session *Session) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.session = session
}

func (rec *recorder) snapshot() ([]Update, []Terminal, int) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	updates := make([]Update, len(rec.updates))
	copy(updates, rec.updates)
	terminals := make([]Terminal, len(rec.terminals))
	copy(terminals, rec.terminals)
	return updates, terminals, rec.completed
}

func waitDone(t *testing.T, session *Session) {
	t.Helper()
	select {
	case <-session.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("session did not finish in time")
	}
}

func TestSimulatedHappyPath(t *testing.T) {
	rec := &recorder{}
	session, err := Start(context.Background(),
		Config{
			OrderID:             "ord-1",
			CustomerLocation:    delhi,
			ProviderDisplayName: "Test Driver",
		},
		WithRand(rand.New(rand.NewSource(42))),
		WithTimings(fastTimings()),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
		WithCompletionFunc(rec.onCompletion),
	)
	require.NoError(t, err)
	rec.attach(session)
	waitDone(t, session)

	updates, terminals, completed := rec.snapshot()

	// departure update + exactly 100 movement ticks (the 100th carries the
	// completed status)
	require.Len(t, updates, 101)

	// status sequence is monotonic: on_the_way, then arriving, then completed
	sawArriving := false
	for i, update := range updates {
		switch update.Status {
		case order.StatusOnTheWay:
			assert.False(t, sawArriving, "update %d regressed from arriving", i)
		case order.StatusArriving:
			sawArriving = true
		case order.StatusCompleted:
			assert.Equal(t, len(updates)-1, i, "completed must be the final update")
		default:
			t.Fatalf("unexpected status %q at update %d", update.Status, i)
		}
	}
	assert.True(t, sawArriving)

	// ETA is monotonically non-increasing and ends at 0
	for i := 1; i < len(updates); i++ {
		require.NotNil(t, updates[i].ETAMinutes)
		assert.LessOrEqual(t, *updates[i].ETAMinutes, *updates[i-1].ETAMinutes, "update %d", i)
	}
	final := updates[len(updates)-1]
	assert.Equal(t, order.StatusCompleted, final.Status)
	assert.Zero(t, *final.ETAMinutes)
	assert.Zero(t, *final.DistanceKM)

	// distance shrinks overall and never goes negative
	for _, update := range updates {
		require.NotNil(t, update.DistanceKM)
		assert.GreaterOrEqual(t, *update.DistanceKM, 0.0)
	}
	assert.Greater(t, *updates[0].DistanceKM, *updates[60].DistanceKM)

	// exactly one terminal, completion callback fired after the grace delay
	require.Len(t, terminals, 1)
	assert.Equal(t, order.StatusCompleted, terminals[0].Status)
	assert.Equal(t, 1, completed)

	// a synthesized route exists for display: start, 2-4 waypoints, customer
	route := session.Route()
	require.GreaterOrEqual(t, len(route), 4)
	require.LessOrEqual(t, len(route), 6)
	assert.Equal(t, delhi, route[len(route)-1])
}

func TestSimulatedDerivedETAFromDistance(t *testing.T) {
	rec := &recorder{}
	session, err := Start(context.Background(),
		Config{CustomerLocation: delhi, ProviderDisplayName: "Test Driver"},
		WithRand(rand.New(rand.NewSource(7))),
		WithTimings(fastTimings()),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
	)
	require.NoError(t, err)
	rec.attach(session)
	waitDone(t, session)

	updates, _, _ := rec.snapshot()
	require.NotEmpty(t, updates)

	// initial ETA derives from the start distance at 30 km/h; the start is
	// 1.5-3.0 km out so the estimate lands between 3 and 6 minutes
	initial := updates[0]
	require.NotNil(t, initial.ETAMinutes)
	assert.GreaterOrEqual(t, *initial.ETAMinutes, 3)
	assert.LessOrEqual(t, *initial.ETAMinutes, 6)
}

func TestSimulatedSuppliedETADecaysLinearly(t *testing.T) {
	rec := &recorder{}
	session, err := Start(context.Background(),
		Config{CustomerLocation: delhi, ProviderDisplayName: "Test Driver", EstimatedMinutes: 20},
		WithRand(rand.New(rand.NewSource(1))),
		WithTimings(fastTimings()),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
	)
	require.NoError(t, err)
	rec.attach(session)
	waitDone(t, session)

	updates, _, _ := rec.snapshot()
	require.Len(t, updates, 101)

	// eta(k) = round(20 * (1 - k/100)), a decay of the initial estimate,
	// not a fresh distance-based recompute
	assert.Equal(t, 20, *updates[0].ETAMinutes)
	assert.Equal(t, 10, *updates[50].ETAMinutes)
	assert.Equal(t, 15, *updates[25].ETAMinutes)
	assert.Equal(t, 0, *updates[100].ETAMinutes)
}

func TestSimulatedCancelMidFlight(t *testing.T) {
	// cancel from inside the observer once 31 movement updates (departure +
	// 30 ticks) have been delivered
	rec := &recorder{cancelAtMovementUpdate: 31}
	session, err := Start(context.Background(),
		Config{CustomerLocation: delhi, ProviderDisplayName: "Test Driver"},
		WithRand(rand.New(rand.NewSource(42))),
		WithTimings(fastTimings()),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
		WithCompletionFunc(rec.onCompletion),
	)
	require.NoError(t, err)
	rec.attach(session)
	waitDone(t, session)

	updates, terminals, completed := rec.snapshot()

	require.Len(t, terminals, 1)
	assert.Equal(t, order.StatusCancelled, terminals[0].Status)
	assert.Equal(t, order.StatusCancelled, session.Status())

	// no movement after the cancel: 31 movement updates plus the final
	// cancelled status update
	require.Len(t, updates, 32)
	assert.Equal(t, order.StatusCancelled, updates[len(updates)-1].Status)
	for _, update := range updates[:31] {
		assert.False(t, update.Status.Terminal())
	}

	// completion callback is reserved for arrivals
	assert.Zero(t, completed)

	// cancelling again after terminal is a no-op
	session.Cancel()
	_, terminals, _ = rec.snapshot()
	assert.Len(t, terminals, 1)
}

func TestCancelDuringPreparation(t *testing.T) {
	rec := &recorder{}
	session, err := Start(context.Background(),
		Config{CustomerLocation: delhi, ProviderDisplayName: "Test Driver"},
		WithTimings(Timings{
			PrepDelayMin: 5 * time.Second,
			PrepDelayMax: 5 * time.Second,
			TickInterval: time.Millisecond,
			GraceDelay:   time.Millisecond,
		}),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
	)
	require.NoError(t, err)
	rec.attach(session)

	session.Cancel()
	session.Cancel() // idempotent
	waitDone(t, session)

	updates, terminals, _ := rec.snapshot()
	require.Len(t, terminals, 1)
	assert.Equal(t, order.StatusCancelled, terminals[0].Status)

	// never moved: only the cancelled status update, with no location
	require.Len(t, updates, 1)
	assert.Nil(t, updates[0].Provider)
	assert.Nil(t, updates[0].DistanceKM)
}

func TestStartRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()

	_, err := Start(ctx, Config{
		CustomerLocation:    geo.Coordinate{Latitude: 999, Longitude: 0},
		ProviderDisplayName: "Test Driver",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Start(ctx, Config{CustomerLocation: delhi, ProviderDisplayName: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Start(ctx, Config{CustomerLocation: delhi, ProviderDisplayName: "Test Driver", EstimatedMinutes: -3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// live mode without a feed is a configuration error
	_, err = Start(ctx, Config{CustomerLocation: delhi, ProviderDisplayName: "Test Driver", DriverID: "driver-42"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// ----- live-feed mode -----

type stubFeed struct {
	pings chan DriverPing
	err   error

	mu           sync.Mutex
	unsubscribed int
}

func newStubFeed() *stubFeed {
	return &stubFeed{pings: make(chan DriverPing, 16)}
}

func (feed *stubFeed) Subscribe(ctx context.Context, driverID string) (<-chan DriverPing, func(), error) {
	if feed.err != nil {
		return nil, nil, feed.err
	}
	return feed.pings, func() {
		feed.mu.Lock()
		feed.unsubscribed++
		feed.mu.Unlock()
	}, nil
}

func (feed *stubFeed) unsubscribeCount() int {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	return feed.unsubscribed
}

func waitForUpdates(t *testing.T, rec *recorder, n int) []Update {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		updates, _, _ := rec.snapshot()
		if len(updates) >= n {
			return updates
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d updates", n)
	return nil
}

func TestLiveFeedUpdate(t *testing.T) {
	feed := newStubFeed()
	rec := &recorder{}
	session, err := Start(context.Background(),
		Config{
			OrderID:             "ord-live",
			CustomerLocation:    mumbai,
			ProviderDisplayName: "Live Driver",
			DriverID:            "driver-42",
		},
		WithFeed(feed),
		WithTimings(fastTimings()),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
		WithCompletionFunc(rec.onCompletion),
	)
	require.NoError(t, err)
	rec.attach(session)

	now := time.Now().UTC()
	feed.pings <- DriverPing{
		Position:   geo.Coordinate{Latitude: 19.08, Longitude: 72.88},
		ObservedAt: now,
	}

	updates := waitForUpdates(t, rec, 1)
	first := updates[0]
	assert.Equal(t, order.StatusOnTheWay, first.Status)
	require.NotNil(t, first.Provider)
	assert.Zero(t, first.Provider.SpeedKMH)
	assert.Zero(t, first.Provider.HeadingDegrees)

	// haversine between (19.08, 72.88) and the customer is ~0.5 km; the
	// fresh ETA at 30 km/h rounds to 1 minute
	require.NotNil(t, first.DistanceKM)
	assert.InDelta(t, 0.506, *first.DistanceKM, 0.02)
	require.NotNil(t, first.ETAMinutes)
	assert.Equal(t, 1, *first.ETAMinutes)

	// an out-of-order sample (older timestamp) is dropped
	feed.pings <- DriverPing{
		Position:   geo.Coordinate{Latitude: 19.2, Longitude: 72.9},
		ObservedAt: now.Add(-time.Second),
	}
	// a fresh sample is applied
	feed.pings <- DriverPing{
		Position:   geo.Coordinate{Latitude: 19.077, Longitude: 72.878},
		ObservedAt: now.Add(time.Second),
	}

	updates = waitForUpdates(t, rec, 2)
	require.Len(t, updates, 2)
	second := updates[1]
	assert.InDelta(t, 19.077, second.Provider.Position.Latitude, 1e-9)
	assert.Less(t, *second.DistanceKM, *first.DistanceKM)

	// completion is externally driven in live mode
	session.NotifyOrderCompleted()
	waitDone(t, session)

	updates, terminals, completed := rec.snapshot()
	final := updates[len(updates)-1]
	assert.Equal(t, order.StatusCompleted, final.Status)
	assert.Zero(t, *final.DistanceKM)
	assert.Zero(t, *final.ETAMinutes)
	require.Len(t, terminals, 1)
	assert.Equal(t, order.StatusCompleted, terminals[0].Status)
	assert.Equal(t, 1, completed)
	assert.GreaterOrEqual(t, feed.unsubscribeCount(), 1)
}

func TestLiveFeedSubscriptionFailure(t *testing.T) {
	feed := newStubFeed()
	feed.err = assert.AnError

	rec := &recorder{}
	session, err := Start(context.Background(),
		Config{
			CustomerLocation:    mumbai,
			ProviderDisplayName: "Live Driver",
			DriverID:            "driver-42",
		},
		WithFeed(feed),
		WithTimings(fastTimings()),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
	)
	require.NoError(t, err)
	rec.attach(session)

	// the failure surfaces as a degraded update, never as simulated movement
	updates := waitForUpdates(t, rec, 1)
	require.ErrorIs(t, updates[0].Err, ErrSubscriptionFailure)
	assert.Nil(t, updates[0].Provider)

	// the degraded session remains cancellable
	session.Cancel()
	waitDone(t, session)

	_, terminals, _ := rec.snapshot()
	require.Len(t, terminals, 1)
	assert.Equal(t, order.StatusCancelled, terminals[0].Status)
}

func TestLiveFeedDropSurfacesDegraded(t *testing.T) {
	feed := newStubFeed()
	rec := &recorder{}
	session, err := Start(context.Background(),
		Config{
			CustomerLocation:    mumbai,
			ProviderDisplayName: "Live Driver",
			DriverID:            "driver-42",
		},
		WithFeed(feed),
		WithTimings(fastTimings()),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
	)
	require.NoError(t, err)
	rec.attach(session)

	close(feed.pings)

	updates := waitForUpdates(t, rec, 1)
	require.ErrorIs(t, updates[0].Err, ErrSubscriptionFailure)

	session.Cancel()
	waitDone(t, session)
	_, terminals, _ := rec.snapshot()
	require.Len(t, terminals, 1)
}

func TestDiscardViaContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	session, err := Start(ctx,
		Config{CustomerLocation: delhi, ProviderDisplayName: "Test Driver"},
		WithTimings(Timings{
			PrepDelayMin: 5 * time.Second,
			PrepDelayMax: 5 * time.Second,
			TickInterval: time.Millisecond,
			GraceDelay:   time.Millisecond,
		}),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
	)
	require.NoError(t, err)
	rec.attach(session)

	// view unmount: the session is discarded without a terminal event
	cancel()
	waitDone(t, session)

	updates, terminals, _ := rec.snapshot()
	assert.Empty(t, updates)
	assert.Empty(t, terminals)
}

func TestObservedAtMonotonic(t *testing.T) {
	rec := &recorder{}
	session, err := Start(context.Background(),
		Config{CustomerLocation: delhi, ProviderDisplayName: "Test Driver"},
		WithRand(rand.New(rand.NewSource(9))),
		WithTimings(fastTimings()),
		WithUpdateFunc(rec.onUpdate),
		WithTerminalFunc(rec.onTerminal),
	)
	require.NoError(t, err)
	rec.attach(session)
	waitDone(t, session)

	updates, _, _ := rec.snapshot()
	var last time.Time
	for i, update := range updates {
		if update.Provider == nil {
			continue
		}
		if i > 0 {
			assert.True(t, update.Provider.ObservedAt.After(last), "update %d not after previous", i)
		}
		last = update.Provider.ObservedAt
	}
}
