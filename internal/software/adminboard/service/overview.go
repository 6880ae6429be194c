package service

import (
	"context"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// GetSystemOverview collects a set of aggregate metrics about the current state of the system.
func (service *adminService) GetSystemOverview(ctx context.Context) (ports.SystemOverviewResult, error) {
	var res ports.SystemOverviewResult
	now := time.Now().UTC()
	res.Timestamp = now

	// define the start and end of the day
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.Add(24 * time.Hour)

	// collect the metrics within a transaction
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		// ----- Order metrics -----

		nActive, err := service.orders.CountActive(txCtx)
		if err != nil {
			return err
		}
		res.Metrics.ActiveOrders = nActive

		totalToday, err := service.orders.CountCreatedBetween(txCtx, startOfDay, endOfDay)
		if err != nil {
			return err
		}
		res.Metrics.TotalOrdersToday = totalToday

		revenueToday, err := service.orders.SumAmountCompletedBetween(txCtx, startOfDay, endOfDay)
		if err != nil {
			return err
		}
		res.Metrics.TotalRevenueToday = revenueToday

		avgDelivery, err := service.orders.AvgDeliveryMinutesBetween(txCtx, startOfDay, endOfDay)
		if err != nil {
			return err
		}
		res.Metrics.AverageDeliveryMinutes = avgDelivery

		cancelRate, err := service.orders.CancellationRateBetween(txCtx, startOfDay, endOfDay)
		if err != nil {
			return err
		}
		res.Metrics.CancellationRate = cancelRate

		// ----- Provider metrics -----

		nAvailable, err := service.providers.CountByStatus(txCtx, provider.StatusAvailable)
		if err != nil {
			return err
		}
		res.Metrics.AvailableDrivers = nAvailable

		nBusy, err := service.providers.CountByStatus(txCtx, provider.StatusBusy)
		if err != nil {
			return err
		}
		res.Metrics.BusyDrivers = nBusy

		fuelCnt, err := service.providers.CountByKind(txCtx, order.KindFuel)
		if err != nil {
			return err
		}
		res.ProviderDistribution.Fuel = fuelCnt

		mechanicCnt, err := service.providers.CountByKind(txCtx, order.KindMechanic)
		if err != nil {
			return err
		}
		res.ProviderDistribution.Mechanic = mechanicCnt

		return nil
	})
	if err != nil {
		return ports.SystemOverviewResult{}, err
	}

	return res, nil
}
