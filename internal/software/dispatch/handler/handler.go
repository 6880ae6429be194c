package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/ws"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/user"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/jwt"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// DispatchHTTPHandler adapts HTTP and WebSocket requests to the
// DispatchService.
type DispatchHTTPHandler struct {
	svc    ports.DispatchService
	logger *slog.Logger
	auth   *jwt.Manager
	hub    *ws.Hub
}

// NewDispatchHTTPHandler wires an HTTP handler around the DispatchService.
func NewDispatchHTTPHandler(
	svc ports.DispatchService,
	logger *slog.Logger,
	auth *jwt.Manager,
	hub *ws.Hub,
) *DispatchHTTPHandler {
	return &DispatchHTTPHandler{svc: svc, logger: logger, auth: auth, hub: hub}
}

// RegisterRoutes mounts driver endpoints on the provided mux.
func (handler *DispatchHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	driverOnly := jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)

	mux.HandleFunc("POST /drivers/{driver_id}/online", driverOnly(handler.handleGoOnline))
	mux.HandleFunc("POST /drivers/{driver_id}/offline", driverOnly(handler.handleGoOffline))
	mux.HandleFunc("POST /drivers/{driver_id}/accept", driverOnly(handler.handleAcceptOrder))
	mux.HandleFunc("POST /drivers/{driver_id}/location", driverOnly(handler.handleReportLocation))
	mux.HandleFunc("POST /drivers/{driver_id}/complete", driverOnly(handler.handleCompleteOrder))

	// WebSocket authenticates itself via the first frame
	mux.HandleFunc("GET /ws/driver/{driver_id}", handler.handleDriverWS)

	mux.HandleFunc("GET /drivers/health", handler.handleHealth)
}

func (handler *DispatchHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// driverFromPath checks that the path driver_id matches the token subject.
func (handler *DispatchHTTPHandler) driverFromPath(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	driverID := strings.TrimSpace(r.PathValue("driver_id"))
	if driverID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "driver_id is required", errors.New("missing driver_id"))
		return "", false
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return "", false
	}
	if strings.TrimSpace(claims.Subject) != driverID {
		handler.httpError(ctx, w, http.StatusForbidden, "driver_id does not match token subject", errors.New("driver/token mismatch"))
		return "", false
	}
	return driverID, true
}

// ----- general helpers -----

func (handler *DispatchHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
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

func (handler *DispatchHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	}
	log.Error(ctx, handler.logger, action, msg, err)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

func (handler *DispatchHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return contextx.WithRequestID(ctx, reqID)
}

func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// decodeStrict decodes a JSON body with the shared guards.
func (handler *DispatchHTTPHandler) decodeStrict(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return false
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return false
	}
	return true
}
