package handler

import (
	"log/slog"
	"net/http"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/jwt"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/rabbitmq"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/tracking"
)

// TrackerHTTPHandler serves the customer tracking stream. Each websocket
// connection owns one tracking session; the session simulates driver
// movement or relays the live feed, and the handler bridges its events onto
// the wire.
type TrackerHTTPHandler struct {
	logger    *slog.Logger
	auth      *jwt.Manager
	uow       ports.UnitOfWork
	orders    ports.OrderRepository
	providers ports.ProviderRepository
	coords    ports.CoordinatesRepository
	cache     ports.LocationCache
	feed      *rabbitmq.LocationFeed
	timings   tracking.Timings
}

// NewTrackerHTTPHandler wires the tracking websocket handler.
func NewTrackerHTTPHandler(
	logger *slog.Logger,
	auth *jwt.Manager,
	uow ports.UnitOfWork,
	orders ports.OrderRepository,
	providers ports.ProviderRepository,
	coords ports.CoordinatesRepository,
	cache ports.LocationCache,
	feed *rabbitmq.LocationFeed,
	timings tracking.Timings,
) *TrackerHTTPHandler {
	return &TrackerHTTPHandler{
		logger:    logger,
		auth:      auth,
		uow:       uow,
		orders:    orders,
		providers: providers,
		coords:    coords,
		cache:     cache,
		feed:      feed,
		timings:   timings,
	}
}

// RegisterRoutes mounts the tracking endpoint on the provided mux.
func (handler *TrackerHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	// WebSocket authenticates itself via the first frame
	mux.HandleFunc("GET /ws/track/{order_id}", handler.handleTrackOrder)
}
