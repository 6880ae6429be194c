package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type completeOrderRequest struct {
	OrderID       string         `json:"order_id"`
	FinalAmount   float64        `json:"final_amount,omitempty"`
	FinalLocation ports.GeoPoint `json:"final_location,omitempty"`
}

// ----- Handler: POST /drivers/{driver_id}/complete -----

func (handler *DispatchHTTPHandler) handleCompleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	driverID, ok := handler.driverFromPath(ctx, w, r)
	if !ok {
		return
	}

	var req completeOrderRequest
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

	res, err := handler.svc.CompleteOrder(ctxWithTimeout, ports.CompleteOrderInput{
		DriverID:      driverID,
		OrderID:       orderID,
		FinalAmount:   req.FinalAmount,
		FinalLocation: req.FinalLocation,
	})
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "order not found", err)
		case errors.Is(err, ports.ErrWriteConflict):
			handler.httpError(ctxWithTimeout, w, http.StatusConflict, "order cannot be completed from its current status", err)
		default:
			handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, err.Error(), err)
		}
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
