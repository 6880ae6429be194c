package service

import (
	"context"
	"strings"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// GetOrder returns the customer-facing projection of one order.
func (service *orderService) GetOrder(ctx context.Context, orderID string) (ports.OrderView, error) {
	var view ports.OrderView
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		ord, err := service.orders.GetByID(txCtx, strings.TrimSpace(orderID))
		if err != nil {
			return err
		}
		view = toOrderView(ord)
		return nil
	})
	if err != nil {
		return ports.OrderView{}, err
	}
	return view, nil
}

// ListOrders returns the customer's most recent orders, newest first.
func (service *orderService) ListOrders(ctx context.Context, customerID string, limit int) ([]ports.OrderView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var views []ports.OrderView
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		list, err := service.orders.ListByCustomer(txCtx, strings.TrimSpace(customerID), limit)
		if err != nil {
			return err
		}
		views = make([]ports.OrderView, 0, len(list))
		for _, ord := range list {
			views = append(views, toOrderView(ord))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func toOrderView(ord *order.Order) ports.OrderView {
	return ports.OrderView{
		CustomerID: ord.CustomerID,
		OrderID:    ord.ID,
		Kind:       ord.Kind.String(),
		Status:     ord.Status.String(),
		Amount:     ord.Amount,
		Details:    ord.Details,
		Address:    ord.Address,
		Location: ports.GeoPoint{
			Latitude:  ord.Location.Latitude,
			Longitude: ord.Location.Longitude,
		},
		DriverID:    ord.DriverID,
		RequestedAt: ord.RequestedAt,
		CompletedAt: ord.CompletedAt,
		CancelledAt: ord.CancelledAt,
	}
}
