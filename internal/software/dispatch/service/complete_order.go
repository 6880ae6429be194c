package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// CompleteOrder finalizes a delivery: the order is completed with its final
// amount, the driver returns to available and is credited their share.
func (service *dispatchService) CompleteOrder(ctx context.Context, in ports.CompleteOrderInput) (ports.CompleteOrderResult, error) {
	ctx = contextx.WithOrderID(ctx, in.OrderID)
	correlationID := generateCorrelationID()
	completedAt := time.Now().UTC()

	var (
		customerID  string
		finalAmount float64
		earnings    float64
	)
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		ord, err := service.orders.GetByID(txCtx, in.OrderID)
		if err != nil {
			return err
		}
		if ord.DriverID == nil || *ord.DriverID != in.DriverID {
			return fmt.Errorf("dispatch: order %s is not assigned to driver %s", in.OrderID, in.DriverID)
		}
		customerID = ord.CustomerID

		finalAmount = in.FinalAmount
		if finalAmount <= 0 {
			finalAmount = ord.Amount
		}
		earnings = finalAmount * driverShare

		if err := service.orders.Complete(txCtx, in.OrderID, finalAmount, completedAt); err != nil {
			return err
		}
		if err := service.providers.IncrementCountersOnComplete(txCtx, in.DriverID, earnings); err != nil {
			return err
		}
		return service.providers.UpdateStatus(txCtx, in.DriverID, provider.StatusAvailable)
	})
	if err != nil {
		log.Error(ctx, service.logger, "order_complete_failed", "Failed to complete order", err)
		return ports.CompleteOrderResult{}, err
	}

	// fan-out: completed order status plus driver back to available
	if err := service.publishOrderStatus(ctx, contracts.OrderStatusMessage{
		OrderID:     in.OrderID,
		Status:      order.StatusCompleted.String(),
		DriverID:    in.DriverID,
		FinalAmount: &finalAmount,
		Timestamp:   completedAt,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
		},
	}); err != nil {
		log.Error(ctx, service.logger, "order_status_publish_failed", "Failed to publish completed status", err)
	}

	if err := service.publishDriverStatus(ctx, contracts.DriverStatusMessage{
		DriverID:  in.DriverID,
		Status:    provider.StatusAvailable.String(),
		Timestamp: completedAt,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
		},
	}); err != nil {
		log.Error(ctx, service.logger, "driver_status_publish_failed", "Failed to publish driver status", err)
	}

	_ = service.notifier.SendPush(ctx, customerID, "Order completed",
		fmt.Sprintf("Your order is complete. Final amount: ₹%.2f", finalAmount))

	log.Info(ctx, service.logger, "order_completed",
		fmt.Sprintf("Driver %s completed order %s (earnings %.2f)", in.DriverID, in.OrderID, earnings))

	return ports.CompleteOrderResult{
		OrderID:        in.OrderID,
		Status:         order.StatusCompleted.String(),
		CompletedAt:    completedAt,
		DriverEarnings: earnings,
		Message:        "Order completed successfully",
	}, nil
}
