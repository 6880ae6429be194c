package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/places"
)

// ----- Handler: GET /places/nearby?kind=fuel&lat=..&lng=..&radius_km=.. -----

func (handler *OrderHTTPHandler) handleNearbyPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)
	q := r.URL.Query()

	kind, err := places.ParseKind(q.Get("kind"))
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "kind must be one of: fuel, mechanic", err)
		return
	}

	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "lat and lng are required numbers", errors.Join(latErr, lngErr))
		return
	}
	from, err := geo.NewCoordinate(lat, lng)
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	radiusKM := 5.0
	if raw := q.Get("radius_km"); raw != "" {
		radiusKM, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKM < 0 {
			handler.httpError(ctx, w, http.StatusBadRequest, "radius_km must be a non-negative number", err)
			return
		}
	}

	results, err := handler.finder.FindNearby(ctx, kind, from, radiusKM)
	if err != nil {
		handler.httpError(ctx, w, http.StatusInternalServerError, "places lookup failed", err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusOK, map[string]any{
		"places": results,
		"count":  len(results),
	})
}
