package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/ws"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/user"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/jwt"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/places"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"

	"log/slog"
)

// OrderHTTPHandler adapts HTTP requests to the OrderService and carries the
// identity endpoints for the customer app.
type OrderHTTPHandler struct {
	svc       ports.OrderService
	users     ports.UserRepository
	providers ports.ProviderRepository
	uow       ports.UnitOfWork
	logger    *slog.Logger
	auth      *jwt.Manager
	finder    places.Finder
	hub       *ws.Hub
}

// NewOrderHTTPHandler wires an HTTP handler around the OrderService.
func NewOrderHTTPHandler(
	svc ports.OrderService,
	users ports.UserRepository,
	providers ports.ProviderRepository,
	uow ports.UnitOfWork,
	logger *slog.Logger,
	auth *jwt.Manager,
	finder places.Finder,
	hub *ws.Hub,
) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		svc:       svc,
		users:     users,
		providers: providers,
		uow:       uow,
		logger:    logger,
		auth:      auth,
		finder:    finder,
		hub:       hub,
	}
}

// RegisterRoutes mounts order and identity endpoints on the provided mux.
func (handler *OrderHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", handler.handleRegister)
	mux.HandleFunc("POST /auth/login", handler.handleLogin)

	mux.HandleFunc("POST /orders",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer)(handler.handleCreateOrder),
	)
	mux.HandleFunc("GET /orders",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer)(handler.handleListOrders),
	)
	mux.HandleFunc("GET /orders/{order_id}",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleAdmin)(handler.handleGetOrder),
	)
	mux.HandleFunc("POST /orders/{order_id}/cancel",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer)(handler.handleCancelOrder),
	)

	mux.HandleFunc("GET /places/nearby", handler.handleNearbyPlaces)
	// WebSocket authenticates itself via the first frame
	mux.HandleFunc("GET /ws/customer/{customer_id}", handler.handleCustomerWS)
	mux.HandleFunc("GET /orders/health", handler.handleHealth)
}

func (handler *OrderHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// ----- general helpers -----

func (handler *OrderHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			log.Error(ctx, handler.logger, "response_encode_failed", "Failed to encode response", err)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *OrderHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusUnsupportedMediaType {
		action = "unsupported_media_type"
	}
	log.Error(ctx, handler.logger, action, msg, err)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *OrderHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return contextx.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
