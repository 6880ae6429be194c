package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
)

// RunBackgroundConsumers starts the consumers that keep connected customers
// informed about their orders.
func (service *orderService) RunBackgroundConsumers(ctx context.Context) {
	service.startOrderStatusConsumer(ctx)
}

// startOrderStatusConsumer relays order status messages to the owning
// customer's websocket connection.
func (service *orderService) startOrderStatusConsumer(ctx context.Context) {
	go func() {
		consumeCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		err := service.rabbitmq.Consume(
			consumeCtx,
			contracts.QueueOrderStatus,
			"order-status-relay",
			20,
			func(hCtx context.Context, d amqp.Delivery) error {
				var msg contracts.OrderStatusMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					log.Error(hCtx, service.logger, "order_status_decode_failed",
						fmt.Sprintf("Failed to decode order status message (%d bytes)", len(d.Body)), err)
					return fmt.Errorf("decode: %w", err)
				}
				if msg.OrderID == "" {
					return nil
				}
				hCtx = contextx.WithOrderID(hCtx, msg.OrderID)

				var customerID string
				err := service.uow.WithinTx(hCtx, func(txCtx context.Context) error {
					ord, err := service.orders.GetByID(txCtx, msg.OrderID)
					if err != nil {
						return err
					}
					customerID = ord.CustomerID
					return nil
				})
				if err != nil {
					// order may be a demo order or already purged; ack & ignore
					return nil
				}

				wsMsg := contracts.WSOrderStatus{
					Type:    "order_status_update",
					OrderID: msg.OrderID,
					Status:  msg.Status,
					Envelope: contracts.Envelope{
						CorrelationID: msg.CorrelationID,
						Producer:      producerName,
					},
				}
				if msg.DriverID != "" {
					wsMsg.Driver = &contracts.DriverBrief{DriverID: msg.DriverID}
				}

				if err := service.hub.Send(customerID, wsMsg); err != nil {
					log.Error(hCtx, service.logger, "order_status_ws_send_failed",
						fmt.Sprintf("Failed to push status to customer %s", customerID), err)
				}
				return nil
			},
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, service.logger, "order_status_consume_failed",
				fmt.Sprintf("Consumer for %s stopped", contracts.QueueOrderStatus), err)
		}
	}()
}
