package tracking

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
)

// Movement constants for the simulated route: the provider departs at
// 30 km/h and decelerates toward 5 km/h across 100 discrete steps, flipping
// to "arriving" once 80% of the route is covered.
const (
	totalSteps        = 100
	arrivingFraction  = 0.8
	departSpeedKMH     = 30.0
	speedDropKMH       = 25.0
	etaAverageSpeedKMH = 30.0
)

// Config is the fixed input of one tracking session.
type Config struct {
	OrderID              string
	CustomerLocation     geo.Coordinate
	ProviderDisplayName  string
	ProviderContactPhone string

	// EstimatedMinutes seeds the countdown; 0 derives it from the initial
	// distance at the 30 km/h average.
	EstimatedMinutes int

	// DriverID switches the session to live-feed mode.
	DriverID string
}

type command int

const (
	cmdCancel command = iota + 1
	cmdOrderCompleted
)

// Session tracks one active delivery or service job. All mutable state is
// owned by the session's run goroutine; external callers communicate through
// Cancel/NotifyOrderCompleted and observe through the registered callbacks or
// the snapshot accessors.
type Session struct {
	cfg     Config
	timings Timings
	rng     *rand.Rand
	feed    LocationFeed

	onUpdate     UpdateFunc
	onTerminal   TerminalFunc
	onCompletion func()

	cmds chan command
	done chan struct{}

	mu         sync.Mutex
	status     order.Status
	route      []geo.Coordinate
	last       *provider.Location
	distanceKM *float64
	etaMinutes *int
}

// Start validates cfg and launches the session goroutine. Sessions with a
// DriverID require a LocationFeed via WithFeed. Input validation failures are
// returned synchronously; no session is created.
func Start(ctx context.Context, cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.CustomerLocation.Validate(); err != nil {
		return nil, fmt.Errorf("%w: customer location: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(cfg.ProviderDisplayName) == "" {
		return nil, fmt.Errorf("%w: provider display name is required", ErrInvalidInput)
	}
	if cfg.EstimatedMinutes < 0 {
		return nil, fmt.Errorf("%w: estimated minutes cannot be negative", ErrInvalidInput)
	}

	session := &Session{
		cfg:     cfg,
		timings: Timings{}.withDefaults(),
		status:  order.StatusPreparing,
		cmds:    make(chan command, 4),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(session)
	}
	if session.rng == nil {
		session.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.DriverID != "" && session.feed == nil {
		return nil, fmt.Errorf("%w: live-feed session requires a location feed", ErrInvalidInput)
	}

	go session.run(ctx)
	return session, nil
}

// Cancel requests cancellation. Valid in any non-terminal state; a no-op once
// the session is terminal. Safe to call repeatedly and from any goroutine.
func (session *Session) Cancel() {
	select {
	case session.cmds <- cmdCancel:
	case <-session.done:
	}
}

// NotifyOrderCompleted signals that the owning order reached "completed" in
// the store. Drives the completion path of live-feed sessions; simulated
// sessions complete on their own and ignore it.
func (session *Session) NotifyOrderCompleted() {
	select {
	case session.cmds <- cmdOrderCompleted:
	case <-session.done:
	}
}

// Done is closed when the session goroutine has exited.
func (session *Session) Done() <-chan struct{} {
	return session.done
}

// Status returns the last published status.
func (session *Session) Status() order.Status {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.status
}

// Route returns the synthesized display waypoints (start, intermediates,
// customer). Empty for live-feed sessions and before movement begins.
func (session *Session) Route() []geo.Coordinate {
	session.mu.Lock()
	defer session.mu.Unlock()
	out := make([]geo.Coordinate, len(session.route))
	copy(out, session.route)
	return out
}

// LastKnown returns the most recent provider location and derived metrics.
// All three are nil until movement begins.
func (session *Session) LastKnown() (*provider.Location, *float64, *int) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.last, session.distanceKM, session.etaMinutes
}

// ----- run loop -----

func (session *Session) run(ctx context.Context) {
	defer close(session.done)

	if session.cfg.DriverID != "" {
		session.runLive(ctx)
		return
	}
	session.runSimulated(ctx)
}

// runSimulated synthesizes a route toward the customer and advances it on the
// tick interval, deriving distance, speed and the decaying ETA at each step.
func (session *Session) runSimulated(ctx context.Context) {
	prep := time.NewTimer(session.prepDelay())
	defer prep.Stop()

	select {
	case <-ctx.Done():
		return
	case cmd := <-session.cmds:
		if cmd == cmdCancel {
			session.finishCancelled()
			return
		}
	case <-prep.C:
	}

	customer := session.cfg.CustomerLocation
	start := synthesizeStart(session.rng, customer)
	waypoints := synthesizeWaypoints(session.rng, start, customer)

	route := make([]geo.Coordinate, 0, len(waypoints)+2)
	route = append(route, start)
	route = append(route, waypoints...)
	route = append(route, customer)

	initialDistance := geo.DistanceKM(start, customer)
	initialETA := session.cfg.EstimatedMinutes
	if initialETA == 0 {
		initialETA = int(math.Round(initialDistance / etaAverageSpeedKMH * 60))
	}
	heading := geo.BearingDegrees(start, customer)

	session.mu.Lock()
	session.route = route
	session.mu.Unlock()

	session.transition(order.StatusOnTheWay)
	departed := provider.Location{
		Position:       start,
		HeadingDegrees: heading,
		SpeedKMH:       departSpeedKMH,
		ObservedAt:     time.Now().UTC(),
	}
	session.publish(&departed, initialDistance, initialETA, nil)

	ticker := time.NewTicker(session.timings.TickInterval)
	defer ticker.Stop()

	for step := 1; step <= totalSteps; {
		select {
		case <-ctx.Done():
			return
		case cmd := <-session.cmds:
			if cmd == cmdCancel {
				session.finishCancelled()
				return
			}
			// cmdOrderCompleted: simulated sessions complete on their own
		case <-ticker.C:
			// a cancel queued by an observer callback must win over a tick
			// that became ready at the same instant
			select {
			case cmd := <-session.cmds:
				if cmd == cmdCancel {
					session.finishCancelled()
					return
				}
			default:
			}

			progress := float64(step) / totalSteps

			position := geo.Coordinate{
				Latitude:  lerp(start.Latitude, customer.Latitude, progress),
				Longitude: lerp(start.Longitude, customer.Longitude, progress),
			}
			location := provider.Location{
				Position:       position,
				HeadingDegrees: heading,
				SpeedKMH:       departSpeedKMH - progress*speedDropKMH,
				ObservedAt:     session.nextObservedAt(),
			}

			distance := geo.DistanceKM(position, customer)
			eta := int(math.Round(float64(initialETA) * (1 - progress)))
			if eta < 0 {
				eta = 0
			}

			if progress > arrivingFraction {
				session.transition(order.StatusArriving)
			}

			if step == totalSteps {
				ticker.Stop()
				session.transition(order.StatusCompleted)
				session.publish(&location, 0, 0, nil)
				session.emitTerminal(order.StatusCompleted)
				session.completionGrace(ctx)
				return
			}

			session.publish(&location, distance, eta, nil)
			step++
		}
	}
}

// runLive consumes the driver's reported positions and recomputes metrics
// against the fixed customer location. Completion is externally driven; no
// proximity-based transitions happen here.
func (session *Session) runLive(ctx context.Context) {
	pings, unsubscribe, err := session.feed.Subscribe(ctx, session.cfg.DriverID)
	if err != nil {
		session.publishDegraded(fmt.Errorf("%w: %v", ErrSubscriptionFailure, err))
		pings = nil
		unsubscribe = func() {}
	}
	defer unsubscribe()

	var lastApplied time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case cmd := <-session.cmds:
			switch cmd {
			case cmdCancel:
				session.finishCancelled()
				return
			case cmdOrderCompleted:
				session.finishCompletedLive(ctx)
				return
			}

		case ping, ok := <-pings:
			if !ok {
				// feed dropped; degrade but stay cancellable/completable
				pings = nil
				session.publishDegraded(fmt.Errorf("%w: feed closed", ErrSubscriptionFailure))
				continue
			}
			// defensive: drop out-of-order samples
			if !ping.ObservedAt.After(lastApplied) {
				continue
			}
			if ping.Position.Validate() != nil {
				continue
			}
			lastApplied = ping.ObservedAt

			// the live feed carries no heading/speed; report zeros rather
			// than deriving them from sparse, possibly jittery samples
			location := provider.Location{
				Position:   ping.Position,
				ObservedAt: ping.ObservedAt,
			}
			distance := geo.DistanceKM(ping.Position, session.cfg.CustomerLocation)
			eta := int(math.Round(distance / etaAverageSpeedKMH * 60))

			session.transition(order.StatusOnTheWay)
			session.publish(&location, distance, eta, nil)
		}
	}
}

// ----- terminal paths -----

func (session *Session) finishCancelled() {
	session.transitionTerminal(order.StatusCancelled)
	session.publishStatusOnly(nil)
	session.emitTerminal(order.StatusCancelled)
}

func (session *Session) finishCompletedLive(ctx context.Context) {
	session.transitionTerminal(order.StatusCompleted)
	session.publish(session.lastLocation(), 0, 0, nil)
	session.emitTerminal(order.StatusCompleted)
	session.completionGrace(ctx)
}

// completionGrace waits out the grace delay so the UI can show the arrival
// message, then invokes the completion callback. Late commands are drained
// and ignored; the session is already terminal.
func (session *Session) completionGrace(ctx context.Context) {
	if session.onCompletion == nil {
		return
	}
	grace := time.NewTimer(session.timings.GraceDelay)
	defer grace.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-session.cmds:
		case <-grace.C:
			session.onCompletion()
			return
		}
	}
}

// ----- state helpers (run goroutine only) -----

// transition advances status along the state machine; illegal moves are
// silently skipped, which keeps the arriving edge one-way and terminal
// states final.
func (session *Session) transition(next order.Status) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.status.CanTransitionTo(next) {
		session.status = next
	}
}

// transitionTerminal forces the path to a terminal status, walking through
// intermediate states without emitting them. Used for cancellation and for
// externally driven live completion.
func (session *Session) transitionTerminal(terminal order.Status) {
	session.mu.Lock()
	defer session.mu.Unlock()
	for !session.status.Terminal() && session.status != terminal {
		switch {
		case session.status.CanTransitionTo(terminal):
			session.status = terminal
		case session.status.CanTransitionTo(order.StatusOnTheWay):
			session.status = order.StatusOnTheWay
		case session.status.CanTransitionTo(order.StatusArriving):
			session.status = order.StatusArriving
		default:
			return
		}
	}
}

func (session *Session) publish(location *provider.Location, distanceKM float64, etaMinutes int, degraded error) {
	session.mu.Lock()
	session.last = location
	session.distanceKM = &distanceKM
	session.etaMinutes = &etaMinutes
	update := Update{
		Status:     session.status,
		Provider:   location,
		DistanceKM: &distanceKM,
		ETAMinutes: &etaMinutes,
		Err:        degraded,
	}
	session.mu.Unlock()

	if session.onUpdate != nil {
		session.onUpdate(update)
	}
}

func (session *Session) publishStatusOnly(degraded error) {
	session.mu.Lock()
	update := Update{
		Status:     session.status,
		Provider:   session.last,
		DistanceKM: session.distanceKM,
		ETAMinutes: session.etaMinutes,
		Err:        degraded,
	}
	session.mu.Unlock()

	if session.onUpdate != nil {
		session.onUpdate(update)
	}
}

func (session *Session) publishDegraded(err error) {
	session.publishStatusOnly(err)
}

func (session *Session) emitTerminal(status order.Status) {
	if session.onTerminal != nil {
		session.onTerminal(Terminal{Status: status})
	}
}

func (session *Session) lastLocation() *provider.Location {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.last
}

// nextObservedAt returns a strictly increasing timestamp even when ticks are
// compressed under test.
func (session *Session) nextObservedAt() time.Time {
	now := time.Now().UTC()
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.last != nil && !now.After(session.last.ObservedAt) {
		now = session.last.ObservedAt.Add(time.Millisecond)
	}
	return now
}

func (session *Session) prepDelay() time.Duration {
	span := session.timings.PrepDelayMax - session.timings.PrepDelayMin
	if span <= 0 {
		return session.timings.PrepDelayMin
	}
	return session.timings.PrepDelayMin + time.Duration(session.rng.Int63n(int64(span)+1))
}
