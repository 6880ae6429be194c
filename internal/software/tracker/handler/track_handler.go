package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/user"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/jwt"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/tracking"
)

var trackUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	wsAuthTimeout      = 10 * time.Second
	liveStatusInterval = 5 * time.Second
)

// clientFrame is what the customer may send after authenticating. Only
// cancel is meaningful; everything else is ignored.
type clientFrame struct {
	Type string `json:"type"`
}

// trackTarget is the snapshot of the order the session is built from.
type trackTarget struct {
	customerID       string
	location         geo.Coordinate
	status           order.Status
	amount           float64
	driverID         string
	driverName       string
	driverPhone      string
	estimatedMinutes int
}

// ----- Handler: GET /ws/track/{order_id} -----

func (handler *TrackerHTTPHandler) handleTrackOrder(w http.ResponseWriter, r *http.Request) {
	ctx := contextx.WithNewRequestID(r.Context())

	orderID := strings.TrimSpace(r.PathValue("order_id"))
	if orderID == "" {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}
	ctx = contextx.WithOrderID(ctx, orderID)

	conn, err := trackUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(ctx, handler.logger, "ws_upgrade_failed", "Failed to upgrade tracking connection", err)
		return
	}

	// first frame must be the auth message
	_ = conn.SetReadDeadline(time.Now().Add(wsAuthTimeout))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return
	}
	res, err := jwt.ValidateWSAuth(frame, handler.auth, user.RoleCustomer, user.RoleAdmin)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"type": "auth_failed", "error": "unauthorized"})
		_ = conn.Close()
		log.Error(ctx, handler.logger, "ws_auth_failed", "Tracking websocket auth rejected", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	target, err := handler.loadTarget(ctx, orderID)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"type": "error", "error": "order not found"})
		_ = conn.Close()
		return
	}
	if res.Claims.Role == user.RoleCustomer && target.customerID != strings.TrimSpace(res.Claims.Subject) {
		_ = conn.WriteJSON(map[string]string{"type": "error", "error": "order not found"})
		_ = conn.Close()
		return
	}
	if target.status.Terminal() {
		_ = conn.WriteJSON(contracts.WSTrackingTerminal{
			Type:    "tracking_terminal",
			OrderID: orderID,
			Status:  target.status.String(),
		})
		_ = conn.Close()
		return
	}

	handler.runSession(ctx, conn, orderID, target)
}

// loadTarget reads the order and, when a driver is assigned, the driver's
// profile and an arrival estimate seeded from the freshest known position
// (cache first, then the store).
func (handler *TrackerHTTPHandler) loadTarget(ctx context.Context, orderID string) (trackTarget, error) {
	var target trackTarget
	err := handler.uow.WithinTx(ctx, func(txCtx context.Context) error {
		ord, err := handler.orders.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}
		target.customerID = ord.CustomerID
		target.location = ord.Location
		target.status = ord.Status
		target.amount = ord.Amount
		target.driverName = "Delivery Partner"

		if ord.DriverID == nil {
			return nil
		}
		target.driverID = *ord.DriverID

		prov, err := handler.providers.GetByID(txCtx, target.driverID)
		if err != nil {
			return err
		}
		target.driverName = prov.DisplayName
		target.driverPhone = prov.ContactPhone

		// seed the countdown from the driver's current position; the cache
		// has the freshest sample, the store is the fallback
		loc, cacheErr := handler.cache.GetCurrent(txCtx, target.driverID)
		if cacheErr != nil || loc == nil {
			loc, _ = handler.coords.GetCurrentForProvider(txCtx, target.driverID)
		}
		if loc != nil {
			distanceKM := geo.DistanceKM(loc.Position, ord.Location)
			target.estimatedMinutes = int(distanceKM / 30.0 * 60.0)
		}
		return nil
	})
	return target, err
}

// runSession starts the tracking session and bridges its callbacks onto the
// websocket. The session goroutine is the only writer after this point; the
// handler goroutine reads cancel frames, and a watcher mirrors store-side
// terminal transitions into live sessions.
func (handler *TrackerHTTPHandler) runSession(ctx context.Context, conn *websocket.Conn, orderID string, target trackTarget) {
	sessionCtx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg := tracking.Config{
		OrderID:              orderID,
		CustomerLocation:     target.location,
		ProviderDisplayName:  target.driverName,
		ProviderContactPhone: target.driverPhone,
		EstimatedMinutes:     target.estimatedMinutes,
		DriverID:             target.driverID,
	}

	opts := []tracking.Option{
		tracking.WithTimings(handler.timings),
		tracking.WithUpdateFunc(func(update tracking.Update) {
			handler.writeUpdate(ctx, conn, orderID, update)
		}),
		tracking.WithTerminalFunc(func(terminal tracking.Terminal) {
			handler.writeTerminal(ctx, conn, orderID, target, terminal)
		}),
		tracking.WithCompletionFunc(func() {
			handler.markOrderCompleted(ctx, orderID, target.amount)
		}),
	}
	if target.driverID != "" {
		opts = append(opts, tracking.WithFeed(handler.feed))
	}

	session, err := tracking.Start(sessionCtx, cfg, opts...)
	if err != nil {
		log.Error(ctx, handler.logger, "tracking_start_failed", "Failed to start tracking session", err)
		_ = conn.WriteJSON(map[string]string{"type": "error", "error": "tracking unavailable"})
		_ = conn.Close()
		return
	}

	log.Info(ctx, handler.logger, "tracking_started",
		fmt.Sprintf("Tracking session started for order %s", orderID))

	// live sessions learn about store-side completion from the watcher;
	// simulated sessions complete on their own
	if target.driverID != "" {
		go handler.watchStoreStatus(ctx, session, orderID)
	}

	// read loop: surface cancel frames, drop everything else
	go func() {
		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg clientFrame
			if json.Unmarshal(frame, &msg) != nil {
				continue
			}
			if strings.EqualFold(msg.Type, "cancel") {
				handler.cancelOrder(ctx, orderID)
				session.Cancel()
			}
		}
	}()

	<-session.Done()
	_ = conn.Close()
}

// watchStoreStatus polls the store and mirrors terminal transitions into the
// session. Stops as soon as the session finishes.
func (handler *TrackerHTTPHandler) watchStoreStatus(ctx context.Context, session *tracking.Session, orderID string) {
	ticker := time.NewTicker(liveStatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-session.Done():
			return
		case <-ticker.C:
			var status order.Status
			err := handler.uow.WithinTx(ctx, func(txCtx context.Context) error {
				ord, err := handler.orders.GetByID(txCtx, orderID)
				if err != nil {
					return err
				}
				status = ord.Status
				return nil
			})
			if err != nil {
				continue
			}
			switch status {
			case order.StatusCompleted:
				session.NotifyOrderCompleted()
				return
			case order.StatusCancelled:
				session.Cancel()
				return
			}
		}
	}
}

// markOrderCompleted records arrival in the store when a simulated session
// finishes. A conflict means someone else already finalized the order.
func (handler *TrackerHTTPHandler) markOrderCompleted(ctx context.Context, orderID string, amount float64) {
	err := handler.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return handler.orders.Complete(txCtx, orderID, amount, time.Now().UTC())
	})
	if err != nil && !errors.Is(err, ports.ErrWriteConflict) {
		log.Error(ctx, handler.logger, "order_complete_failed",
			fmt.Sprintf("Failed to mark order %s completed after arrival", orderID), err)
	}
}

// cancelOrder propagates a customer cancel frame to the store.
func (handler *TrackerHTTPHandler) cancelOrder(ctx context.Context, orderID string) {
	err := handler.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return handler.orders.Cancel(txCtx, orderID, "cancelled from tracking screen", time.Now().UTC())
	})
	if err != nil && !errors.Is(err, ports.ErrWriteConflict) {
		log.Error(ctx, handler.logger, "order_cancel_failed",
			fmt.Sprintf("Failed to cancel order %s from tracking screen", orderID), err)
	}
}

// writeUpdate converts a session update into the wire frame.
func (handler *TrackerHTTPHandler) writeUpdate(ctx context.Context, conn *websocket.Conn, orderID string, update tracking.Update) {
	frame := contracts.WSTrackingUpdate{
		Type:       "tracking_update",
		OrderID:    orderID,
		Status:     update.Status.String(),
		DistanceKM: update.DistanceKM,
		ETAMinutes: update.ETAMinutes,
		Degraded:   update.Err != nil,
		Timestamp:  time.Now().UTC(),
	}
	if update.Provider != nil {
		frame.Location = &contracts.GeoPoint{
			Lat: update.Provider.Position.Latitude,
			Lng: update.Provider.Position.Longitude,
		}
		frame.SpeedKMH = update.Provider.SpeedKMH
		frame.HeadingDegrees = update.Provider.HeadingDegrees
		frame.Timestamp = update.Provider.ObservedAt
	}

	if err := conn.WriteJSON(frame); err != nil {
		log.Debug(ctx, handler.logger, "tracking_write_failed", "Dropped tracking update: "+err.Error())
	}
}

// writeTerminal sends the closing frame of the stream.
func (handler *TrackerHTTPHandler) writeTerminal(ctx context.Context, conn *websocket.Conn, orderID string, target trackTarget, terminal tracking.Terminal) {
	frame := contracts.WSTrackingTerminal{
		Type:    "tracking_terminal",
		OrderID: orderID,
		Status:  terminal.Status.String(),
	}
	if target.driverID != "" {
		frame.Driver = &contracts.DriverBrief{
			DriverID: target.driverID,
			Name:     target.driverName,
			Phone:    target.driverPhone,
		}
	}

	if err := conn.WriteJSON(frame); err != nil {
		log.Debug(ctx, handler.logger, "tracking_write_failed", "Dropped terminal frame: "+err.Error())
	}

	log.Info(ctx, handler.logger, "tracking_finished",
		fmt.Sprintf("Tracking session for order %s finished as %s", orderID, terminal.Status))
}
