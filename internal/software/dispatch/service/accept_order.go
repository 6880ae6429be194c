package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// AcceptOrder assigns the order to the driver and marks the driver busy.
// First driver wins; losers get order.ErrAlreadyAssigned.
func (service *dispatchService) AcceptOrder(ctx context.Context, in ports.AcceptOrderInput) (ports.AcceptOrderResult, error) {
	ctx = contextx.WithOrderID(ctx, in.OrderID)
	correlationID := generateCorrelationID()
	acceptedAt := time.Now().UTC()

	var customerID string
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		prov, err := service.providers.GetByID(txCtx, in.DriverID)
		if err != nil {
			return err
		}
		if prov.Status != provider.StatusAvailable {
			return fmt.Errorf("dispatch: driver %s is not available", in.DriverID)
		}

		ord, err := service.orders.GetByID(txCtx, in.OrderID)
		if err != nil {
			return err
		}
		customerID = ord.CustomerID

		if err := service.orders.AssignDriver(txCtx, in.OrderID, in.DriverID, acceptedAt); err != nil {
			return err
		}
		return service.providers.UpdateStatus(txCtx, in.DriverID, provider.StatusBusy)
	})
	if err != nil {
		log.Error(ctx, service.logger, "order_accept_failed", "Failed to accept order", err)
		return ports.AcceptOrderResult{}, err
	}

	// fan-out: driver busy, plus a status echo carrying the driver id so the
	// customer app learns who is coming
	if err := service.publishDriverStatus(ctx, contracts.DriverStatusMessage{
		DriverID:  in.DriverID,
		Status:    provider.StatusBusy.String(),
		OrderID:   in.OrderID,
		Timestamp: acceptedAt,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
		},
	}); err != nil {
		log.Error(ctx, service.logger, "driver_status_publish_failed", "Failed to publish driver status", err)
	}

	if err := service.publishOrderStatus(ctx, contracts.OrderStatusMessage{
		OrderID:   in.OrderID,
		Status:    "preparing",
		DriverID:  in.DriverID,
		Timestamp: acceptedAt,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
		},
	}); err != nil {
		log.Error(ctx, service.logger, "order_status_publish_failed", "Failed to publish order status", err)
	}

	_ = service.notifier.SendPush(ctx, customerID, "Driver assigned",
		"A driver has accepted your order and is preparing for delivery.")

	log.Info(ctx, service.logger, "order_accepted",
		fmt.Sprintf("Driver %s accepted order %s", in.DriverID, in.OrderID))

	return ports.AcceptOrderResult{
		OrderID:    in.OrderID,
		Status:     "accepted",
		AcceptedAt: acceptedAt,
		Message:    "Order assigned. Head to the customer location.",
	}, nil
}
