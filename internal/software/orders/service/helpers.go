package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
)

const producerName = "order-service"

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405")
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// estimateMinutes is the customer-facing arrival estimate shown at creation
// time. 10 minutes of preparation plus roughly 4 minutes per kilometre of
// city driving.
func estimateMinutes(distanceKM float64) int {
	return 10 + int(math.Ceil(distanceKM*4))
}

// publishOrderRequest sends a matching request to the order topic exchange
// using routing key order.request.{kind}, e.g. order.request.fuel.
func (service *orderService) publishOrderRequest(ctx context.Context, kind order.Kind, msg contracts.OrderMatchRequest) error {
	routingKey := contracts.RouteOrderRequestPrefix + strings.ToLower(kind.String())

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := service.pub.Publish(contracts.ExchangeOrderTopic, routingKey, body); err != nil {
		return err
	}

	log.Info(ctx, service.logger, "order_request_published",
		fmt.Sprintf("Published order request with routing key %s", routingKey))
	return nil
}

// publishOrderStatus sends a status update to the order topic exchange using
// routing key order.status.{status}, e.g. order.status.preparing.
func (service *orderService) publishOrderStatus(ctx context.Context, msg contracts.OrderStatusMessage) error {
	routingKey := contracts.RouteOrderStatusPrefix + strings.ToLower(msg.Status)

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
