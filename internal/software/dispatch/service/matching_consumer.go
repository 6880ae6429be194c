package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
)

// wsOrderOffer is the offer frame pushed to connected drivers when a new
// order needs a match.
type wsOrderOffer struct {
	Type           string             `json:"type"` // "order_offer"
	OrderID        string             `json:"order_id"`
	Kind           string             `json:"kind"`
	Amount         float64            `json:"amount"`
	DeliveryTarget contracts.GeoPoint `json:"delivery_target"`
	ExpiresAt      string             `json:"expires_at"`
	Envelope       contracts.Envelope `json:"envelope"`
}

// StartBackgroundConsumer consumes order match requests and fans offers out
// to nearby available drivers over their websocket connections.
func (service *dispatchService) StartBackgroundConsumer(ctx context.Context) {
	go func() {
		err := service.rabbitmq.Consume(ctx, contracts.QueueDriverMatching, "dispatch-order-requests", 10,
			func(hCtx context.Context, d amqp.Delivery) error {
				var request contracts.OrderMatchRequest
				if err := json.Unmarshal(d.Body, &request); err != nil {
					log.Error(hCtx, service.logger, "order_request_decode_failed", "Failed to parse order request", err)
					return err
				}
				return service.offerToNearbyDrivers(contextx.WithOrderID(hCtx, request.OrderID), request)
			},
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, service.logger, "order_request_consume_failed",
				fmt.Sprintf("Consumer for %s stopped", contracts.QueueDriverMatching), err)
		}
	}()
}

func (service *dispatchService) offerToNearbyDrivers(ctx context.Context, request contracts.OrderMatchRequest) error {
	kind, err := order.ParseKind(request.Kind)
	if err != nil {
		// unparseable kind: ack & drop rather than poison-loop
		return nil
	}

	radiusKM := request.MaxDistanceKM
	if radiusKM <= 0 {
		radiusKM = 10
	}
	timeout := request.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		candidates, err := service.providers.FindNearbyAvailable(
			txCtx,
			request.DeliveryTarget.Lat,
			request.DeliveryTarget.Lng,
			kind,
			radiusKM,
			10,
		)
		if err != nil {
			return err
		}

		log.Info(txCtx, service.logger, "drivers_found",
			fmt.Sprintf("Found %d candidate drivers for order %s", len(candidates), request.OrderID))

		expiresAt := time.Now().Add(time.Duration(timeout) * time.Second).UTC().Format(time.RFC3339)
		for _, candidate := range candidates {
			offer := wsOrderOffer{
				Type:           "order_offer",
				OrderID:        request.OrderID,
				Kind:           request.Kind,
				Amount:         request.Amount,
				DeliveryTarget: request.DeliveryTarget,
				ExpiresAt:      expiresAt,
				Envelope: contracts.Envelope{
					CorrelationID: request.CorrelationID,
					Producer:      producerName,
					SentAt:        time.Now().UTC(),
				},
			}
			if err := service.hub.Send(candidate.ID, offer); err != nil {
				log.Error(txCtx, service.logger, "order_offer_send_failed",
					fmt.Sprintf("Failed to push offer to driver %s", candidate.ID), err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, service.logger, "order_matching_failed",
			fmt.Sprintf("Matching failed for order %s", request.OrderID), err)
	}
	return err
}
