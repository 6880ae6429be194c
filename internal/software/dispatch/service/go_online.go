package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// GoOnline sets the driver available and records the current location.
func (service *dispatchService) GoOnline(ctx context.Context, in ports.GoOnlineInput) (ports.GoOnlineResult, error) {
	correlationID := generateCorrelationID()

	position, err := geo.NewCoordinate(in.Latitude, in.Longitude)
	if err != nil {
		return ports.GoOnlineResult{}, err
	}
	loc, err := provider.NewLocation(position, 0, 0, time.Now().UTC())
	if err != nil {
		return ports.GoOnlineResult{}, err
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := service.providers.GetByID(txCtx, in.DriverID); err != nil {
			return err
		}
		if err := service.providers.UpdateStatus(txCtx, in.DriverID, provider.StatusAvailable); err != nil {
			return err
		}
		_, _, err := service.coords.SaveProviderLocation(txCtx, in.DriverID, loc, "N/A")
		return err
	})
	if err != nil {
		log.Error(ctx, service.logger, "driver_go_online_failed", "Failed to bring driver online", err)
		return ports.GoOnlineResult{}, err
	}

	// seed the location cache so tracking sessions see a fresh position
	if err := service.cache.SetCurrent(ctx, in.DriverID, loc); err != nil {
		log.Error(ctx, service.logger, "location_cache_set_failed", "Failed to cache driver location", err)
	}

	if err := service.publishDriverStatus(ctx, contracts.DriverStatusMessage{
		DriverID:  in.DriverID,
		Status:    provider.StatusAvailable.String(),
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
		},
	}); err != nil {
		log.Error(ctx, service.logger, "driver_status_publish_failed", "Failed to publish driver status", err)
	}

	log.Info(ctx, service.logger, "driver_online", fmt.Sprintf("Driver %s went online", in.DriverID))

	return ports.GoOnlineResult{
		Status:  provider.StatusAvailable.String(),
		Message: "You are now online and ready to accept orders",
	}, nil
}

// GoOffline marks the driver offline. It refuses while an active order is
// assigned to the driver.
func (service *dispatchService) GoOffline(ctx context.Context, in ports.GoOfflineInput) (ports.GoOfflineResult, error) {
	correlationID := generateCorrelationID()

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if active, err := service.orders.GetActiveForDriver(txCtx, in.DriverID); err != nil {
			return err
		} else if active != nil {
			return fmt.Errorf("dispatch: driver %s has an active order %s", in.DriverID, active.ID)
		}
		return service.providers.UpdateStatus(txCtx, in.DriverID, provider.StatusOffline)
	})
	if err != nil {
		log.Error(ctx, service.logger, "driver_go_offline_failed", "Failed to take driver offline", err)
		return ports.GoOfflineResult{}, err
	}

	if err := service.publishDriverStatus(ctx, contracts.DriverStatusMessage{
		DriverID:  in.DriverID,
		Status:    provider.StatusOffline.String(),
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
		},
	}); err != nil {
		log.Error(ctx, service.logger, "driver_status_publish_failed", "Failed to publish driver status", err)
	}

	log.Info(ctx, service.logger, "driver_offline", fmt.Sprintf("Driver %s went offline", in.DriverID))

	return ports.GoOfflineResult{
		Status:  provider.StatusOffline.String(),
		Message: "You are now offline",
	}, nil
}
