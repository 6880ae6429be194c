package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/jwt"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// ----- Handler: POST /orders/{order_id}/cancel -----

func (handler *OrderHTTPHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	orderID := strings.TrimSpace(r.PathValue("order_id"))
	if orderID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "order_id is required", errors.New("missing order_id"))
		return
	}
	ctx = contextx.WithOrderID(ctx, orderID)

	var req cancelOrderRequest
	if !handler.decodeStrict(ctx, w, r, &req, 256<<10) {
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.CancelOrder(ctxWithTimeout, orderID, strings.TrimSpace(claims.Subject), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "order not found", err)
		case errors.Is(err, ports.ErrWriteConflict):
			handler.httpError(ctxWithTimeout, w, http.StatusConflict, "order can no longer be cancelled", err)
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "database error", err)
				return
			}
			handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, err.Error(), err)
		}
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
