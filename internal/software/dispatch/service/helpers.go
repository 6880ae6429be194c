package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
)

const producerName = "dispatch-service"

// driverShare is the fraction of the final order amount credited to the
// driver on completion.
const driverShare = 0.8

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405")
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// publishDriverStatus sends a driver status update to the driver topic
// exchange using routing key driver.status.{driver_id}.
func (service *dispatchService) publishDriverStatus(ctx context.Context, msg contracts.DriverStatusMessage) error {
	routingKey := contracts.RouteDriverStatusPrefix + msg.DriverID

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := service.pub.Publish(contracts.ExchangeDriverTopic, routingKey, body); err != nil {
		return err
	}

	log.Info(ctx, service.logger, "driver_status_published",
		fmt.Sprintf("Published driver status %s with routing key %s", msg.Status, routingKey))
	return nil
}

// broadcastLocationUpdate publishes a position sample on the location fanout
// exchange (no routing key); tracking sessions pick their driver out of the
// stream.
func (service *dispatchService) broadcastLocationUpdate(ctx context.Context, msg contracts.LocationUpdateMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return service.pub.Publish(contracts.ExchangeLocationFanout, "", body)
}

// publishOrderStatus sends an order status update to the order topic exchange.
func (service *dispatchService) publishOrderStatus(ctx context.Context, msg contracts.OrderStatusMessage) error {
	routingKey := contracts.RouteOrderStatusPrefix + msg.Status

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := service.pub.Publish(contracts.ExchangeOrderTopic, routingKey, body); err != nil {
		return err
	}

	log.Info(ctx, service.logger, "order_status_published",
		fmt.Sprintf("Published order status with routing key %s", routingKey))
	return nil
}
