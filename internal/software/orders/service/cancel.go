package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// CancelOrder cancels an order on the customer's behalf and publishes a
// cancelled status event. Only the owning customer may cancel.
func (service *orderService) CancelOrder(ctx context.Context, orderID, customerID, reason string) (ports.CancelOrderResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ports.CancelOrderResult{}, fmt.Errorf("orderservice: orderID is required to cancel")
	}
	ctx = contextx.WithOrderID(ctx, orderID)
	correlationID := generateCorrelationID()

	var (
		driverID   string
		cancelTime = time.Now().UTC()
	)

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		ord, err := service.orders.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if ord.CustomerID != customerID {
			return fmt.Errorf("orderservice: order %s does not belong to customer", orderID)
		}
		if ord.DriverID != nil {
			driverID = *ord.DriverID
		}

		return service.orders.Cancel(txCtx, orderID, reason, cancelTime)
	})
	if err != nil {
		log.Error(ctx, service.logger, "order_cancel_failed", "Failed to cancel order", err)
		return ports.CancelOrderResult{}, err
	}

	// fan-out: publish cancelled status (best-effort, outside tx)
	if err := service.publishOrderStatus(ctx, contracts.OrderStatusMessage{
		OrderID:   orderID,
		Status:    order.StatusCancelled.String(),
		Timestamp: cancelTime,
		DriverID:  driverID,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
		},
	}); err != nil {
		log.Error(ctx, service.logger, "order_status_publish_failed", "Failed to publish cancelled status", err)
	}

	_ = service.notifier.SendPush(ctx, customerID, "Order cancelled", "Your order has been cancelled.")

	log.Info(ctx, service.logger, "order_cancelled", fmt.Sprintf("Order %s cancelled", orderID))

	return ports.CancelOrderResult{
		OrderID:     orderID,
		Status:      order.StatusCancelled.String(),
		CancelledAt: cancelTime.Format(time.RFC3339),
		Message:     "Order cancelled successfully",
	}, nil
}
