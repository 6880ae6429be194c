package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type reportLocationRequest struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	SpeedKMH       *float64 `json:"speed_kmh,omitempty"`
	HeadingDegrees *float64 `json:"heading_degrees,omitempty"`
}

// ----- Handler: POST /drivers/{driver_id}/location -----

func (handler *DispatchHTTPHandler) handleReportLocation(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	driverID, ok := handler.driverFromPath(ctx, w, r)
	if !ok {
		return
	}

	var req reportLocationRequest
	if !handler.decodeStrict(ctx, w, r, &req, 256<<10) {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.ReportLocation(ctxWithTimeout, ports.ReportLocationInput{
		DriverID:       driverID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		SpeedKMH:       req.SpeedKMH,
		HeadingDegrees: req.HeadingDegrees,
	})
	if err != nil {
		handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
