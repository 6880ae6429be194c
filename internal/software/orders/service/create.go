package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/billing"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/contextx"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/contracts"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/places"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// CreateOrder prices and persists a new order in preparing state, then
// publishes a matching request for a nearby driver.
func (service *orderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (ports.CreateOrderResult, error) {
	correlationID := generateCorrelationID()

	target, err := geo.NewCoordinate(in.Latitude, in.Longitude)
	if err != nil {
		return ports.CreateOrderResult{}, err
	}

	// price the order
	var (
		serviceAmount  float64
		deliveryCharge float64
	)
	switch in.Kind {
	case order.KindFuel:
		serviceAmount, err = billing.FuelTotal(in.FuelType, in.QuantityLiters)
	case order.KindMechanic:
		serviceAmount, err = billing.MechanicCharge(in.MechanicService)
	default:
		err = order.ErrInvalidKind
	}
	if err != nil {
		return ports.CreateOrderResult{}, err
	}

	// the delivery charge is banded on the distance from the closest depot
	// of the right kind; the same distance feeds the arrival estimate
	sourceDistanceKM := service.nearestSourceDistance(ctx, in.Kind, target)
	if in.Kind == order.KindFuel {
		deliveryCharge = billing.DeliveryCharge(sourceDistanceKM)
	}
	amount := serviceAmount + deliveryCharge

	// demo mode skips persistence and matching entirely
	if service.demoMode {
		log.Info(ctx, service.logger, "order_created_demo", "Demo order created, nothing persisted")
		return ports.CreateOrderResult{
			OrderID:          "demo_" + uuid.NewString(),
			Status:           order.StatusPreparing.String(),
			Amount:           amount,
			DeliveryCharge:   deliveryCharge,
			EstimatedMinutes: estimateMinutes(sourceDistanceKM),
		}, nil
	}

	details := order.Details{
		FuelType:        in.FuelType,
		QuantityLiters:  in.QuantityLiters,
		MechanicService: in.MechanicService,
		VehicleType:     in.VehicleType,
		Notes:           in.Notes,
	}

	var orderID string
	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if _, _, err := service.coords.UpsertForCustomer(txCtx, in.CustomerID, target, true); err != nil {
			return err
		}

		ord, err := order.NewOrder(in.CustomerID, in.Kind, target, in.Address, amount, details)
		if err != nil {
			return err
		}
		if err := service.orders.CreateOrder(txCtx, ord); err != nil {
			return err
		}
		orderID = ord.ID
		return nil
	})
	if err != nil {
		log.Error(ctx, service.logger, "order_create_failed", "Failed to create order", err)
		return ports.CreateOrderResult{}, err
	}
	ctx = contextx.WithOrderID(ctx, orderID)

	// publish the matching request (best-effort, outside tx)
	reqMsg := contracts.OrderMatchRequest{
		OrderID: orderID,
		Kind:    in.Kind.String(),
		DeliveryTarget: contracts.GeoPoint{
			Lat:     in.Latitude,
			Lng:     in.Longitude,
			Address: in.Address,
		},
		FuelType:        in.FuelType,
		QuantityLiters:  in.QuantityLiters,
		MechanicService: in.MechanicService,
		Amount:          amount,
		MaxDistanceKM:   10,
		TimeoutSeconds:  30,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
			SentAt:        time.Now().UTC(),
		},
	}
	if err := service.publishOrderRequest(ctx, in.Kind, reqMsg); err != nil {
		log.Error(ctx, service.logger, "order_request_publish_failed", "Failed to publish order request", err)
	}

	// publish the initial status (preparing)
	statusMsg := contracts.OrderStatusMessage{
		OrderID:   orderID,
		Status:    order.StatusPreparing.String(),
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
		},
	}
	if err := service.publishOrderStatus(ctx, statusMsg); err != nil {
		log.Error(ctx, service.logger, "order_status_publish_failed", "Failed to publish order status", err)
	}

	_ = service.notifier.SendPush(ctx, in.CustomerID, "Order placed",
		fmt.Sprintf("Your %s order is being prepared. Total: ₹%.2f", in.Kind, amount))

	log.Info(ctx, service.logger, "order_created", fmt.Sprintf("Order %s created", orderID))

	return ports.CreateOrderResult{
		OrderID:          orderID,
		Status:           order.StatusPreparing.String(),
		Amount:           amount,
		DeliveryCharge:   deliveryCharge,
		EstimatedMinutes: estimateMinutes(sourceDistanceKM),
	}, nil
}

// nearestSourceDistance finds how far the closest fuel station or workshop
// is from the delivery target. Lookup failures fall back to the middle
// delivery band rather than failing the order.
func (service *orderService) nearestSourceDistance(ctx context.Context, kind order.Kind, target geo.Coordinate) float64 {
	placeKind := places.KindFuel
	if kind == order.KindMechanic {
		placeKind = places.KindMechanic
	}

	results, err := service.finder.FindNearby(ctx, placeKind, target, 0)
	if err != nil || len(results) == 0 {
		return 7.5
	}
	return results[0].DistanceKM
}
