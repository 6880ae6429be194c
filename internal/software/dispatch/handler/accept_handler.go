package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type acceptOrderRequest struct {
	OrderID string `json:"order_id"`
}

// ----- Handler: POST /drivers/{driver_id}/accept -----

func (handler *DispatchHTTPHandler) handleAcceptOrder(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	driverID, ok := handler.driverFromPath(ctx, w, r)
	if !ok {
		return
	}

	var req acceptOrderRequest
	if !handler.decodeStrict(ctx, w, r, &req, 256<<10) {
		return
	}
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "order_id is required", errors.New("missing order_id"))
		return
	}
	ctx = contextx.WithOrderID(ctx, orderID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.AcceptOrder(ctxWithTimeout, ports.AcceptOrderInput{
		DriverID: driverID,
		OrderID:  orderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "order not found", err)
		case errors.Is(err, order.ErrAlreadyAssigned):
			handler.httpError(ctxWithTimeout, w, http.StatusConflict, "order already taken", err)
		default:
			handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, err.Error(), err)
		}
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
