package service

import (
	"context"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// locationWriteInterval is the minimum spacing between persisted location
// rows per driver. Samples inside the window still go to the cache and the
// fanout exchange, they just skip the database.
const locationWriteInterval = 3 * time.Second

// ReportLocation ingests one driver position sample: persist (throttled),
// cache, broadcast. The first sample after accepting an order also flips the
// order to on_the_way.
func (service *dispatchService) ReportLocation(ctx context.Context, in ports.ReportLocationInput) (ports.ReportLocationResult, error) {
	correlationID := generateCorrelationID()
	observedAt := time.Now().UTC()

	position, err := geo.NewCoordinate(in.Latitude, in.Longitude)
	if err != nil {
		return ports.ReportLocationResult{}, err
	}

	var speed, heading float64
	if in.SpeedKMH != nil {
		speed = *in.SpeedKMH
	}
	if in.HeadingDegrees != nil {
		heading = *in.HeadingDegrees
	}
	loc, err := provider.NewLocation(position, heading, speed, observedAt)
	if err != nil {
		return ports.ReportLocationResult{}, err
	}

	var (
		out           ports.ReportLocationResult
		activeOrderID string
		departed      bool
	)
	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := service.providers.GetByID(txCtx, in.DriverID); err != nil {
			return err
		}

		active, err := service.orders.GetActiveForDriver(txCtx, in.DriverID)
		if err != nil {
			return err
		}
		if active != nil {
			activeOrderID = active.ID

			// first movement after acceptance is the departure
			if active.Status == order.StatusPreparing && active.DriverID != nil {
				if err := service.orders.UpdateStatus(txCtx, active.ID, order.StatusOnTheWay, observedAt); err != nil {
					return err
				}
				departedEvent, err := order.NewEvent(active.ID, order.EventDriverDeparted, map[string]any{
					"driver_id": in.DriverID,
					"latitude":  in.Latitude,
					"longitude": in.Longitude,
				})
				if err != nil {
					return err
				}
				if err := service.events.Append(txCtx, departedEvent); err != nil {
					return err
				}
				departed = true
			}
		}

		// write throttle: skip the row if the last persisted sample is fresh
		if cur, err := service.coords.GetCurrentForProvider(txCtx, in.DriverID); err == nil && cur != nil {
			if observedAt.Sub(cur.ObservedAt) < locationWriteInterval {
				out.UpdatedAt = cur.ObservedAt
				out.Throttled = true
				return nil
			}
		}

		coordID, updatedAt, err := service.coords.SaveProviderLocation(txCtx, in.DriverID, loc, "N/A")
		if err != nil {
			return err
		}
		out.CoordinateID = coordID
		out.UpdatedAt = updatedAt

		// persisted samples with an active order leave an audit trail
		if activeOrderID != "" {
			locEvent, err := order.NewEvent(activeOrderID, order.EventLocationUpdated, map[string]any{
				"driver_id": in.DriverID,
				"latitude":  in.Latitude,
				"longitude": in.Longitude,
				"speed_kmh": speed,
			})
			if err != nil {
				return err
			}
			if err := service.events.Append(txCtx, locEvent); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, service.logger, "driver_location_update_failed", "Failed to record driver location", err)
		return ports.ReportLocationResult{}, err
	}

	// the cache and the fanout see every sample, throttled or not
	if err := service.cache.SetCurrent(ctx, in.DriverID, loc); err != nil {
		log.Error(ctx, service.logger, "location_cache_set_failed", "Failed to cache driver location", err)
	}

	locMsg := contracts.LocationUpdateMessage{
		DriverID:       in.DriverID,
		OrderID:        activeOrderID,
		Location:       contracts.GeoPoint{Lat: in.Latitude, Lng: in.Longitude},
		SpeedKMH:       speed,
		HeadingDegrees: heading,
		Timestamp:      observedAt,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
		},
	}
	if err := service.broadcastLocationUpdate(ctx, locMsg); err != nil {
		log.Error(ctx, service.logger, "location_update_publish_failed", "Failed to broadcast location update", err)
	}

	if departed {
		if err := service.publishOrderStatus(ctx, contracts.OrderStatusMessage{
			OrderID:   activeOrderID,
			Status:    order.StatusOnTheWay.String(),
			DriverID:  in.DriverID,
			Timestamp: observedAt,
			Envelope: contracts.Envelope{
				CorrelationID: correlationID,
				Producer:      producerName,
			},
		}); err != nil {
			log.Error(ctx, service.logger, "order_status_publish_failed", "Failed to publish on_the_way status", err)
		}
	}

	return out, nil
}
