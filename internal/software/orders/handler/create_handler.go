package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/jwt"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type createOrderRequest struct {
	CustomerID string  `json:"customer_id"`
	Kind       string  `json:"kind"` // fuel | mechanic
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Address    string  `json:"address"`
	Notes      string  `json:"notes"`

	// fuel orders
	FuelType       string  `json:"fuel_type,omitempty"`
	QuantityLiters float64 `json:"quantity_liters,omitempty"`

	// mechanic orders
	MechanicService string `json:"mechanic_service,omitempty"`
	VehicleType     string `json:"vehicle_type,omitempty"`
}

// ----- Handler: POST /orders -----

func (handler *OrderHTTPHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req createOrderRequest
	if !handler.decodeStrict(ctx, w, r, &req, 1<<20) {
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	// fill or verify customer_id against the token subject
	sub := strings.TrimSpace(claims.Subject)
	if strings.TrimSpace(req.CustomerID) == "" {
		req.CustomerID = sub
	} else if req.CustomerID != sub {
		handler.httpError(ctx, w, http.StatusForbidden, "customer_id does not match token subject", errors.New("customer/token mismatch"))
		return
	}

	kind, err := order.ParseKind(req.Kind)
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "kind must be one of: fuel, mechanic", err)
		return
	}

	in := ports.CreateOrderInput{
		CustomerID:      strings.TrimSpace(req.CustomerID),
		Kind:            kind,
		FuelType:        strings.TrimSpace(req.FuelType),
		QuantityLiters:  req.QuantityLiters,
		MechanicService: strings.TrimSpace(req.MechanicService),
		VehicleType:     strings.TrimSpace(req.VehicleType),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Address:         strings.TrimSpace(req.Address),
		Notes:           strings.TrimSpace(req.Notes),
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.CreateOrder(ctxWithTimeout, in)
	if err != nil {
		// distinguish DB failures from validation errors
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "database error", err)
			return
		}
		handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}
