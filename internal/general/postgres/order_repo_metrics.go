package postgres

import (
	"context"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// CountActive returns the number of orders in non-terminal states (preparing, on_the_way, arriving).
func (repo *OrderRepo) CountActive(ctx context.Context) (int, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM orders
		WHERE status IN ('preparing', 'on_the_way', 'arriving')
	`).Scan(&n)
	if err != nil {
		return 0, err
	}

	return n, nil
}

// CountCreatedBetween returns the number of orders requested within the time range [start, end).
func (repo *OrderRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM orders
		WHERE requested_at >= $1 AND requested_at < $2
	`, start, end).Scan(&n)
	if err != nil {
		return 0, err
	}

	return n, nil
}

// CancellationRateBetween returns the cancellation rate for orders whose request time falls within [start, end).
func (repo *OrderRepo) CancellationRateBetween(ctx context.Context, start, end time.Time) (float64, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var total, cancelled int64
	err = tx.QueryRow(ctx, `
    SELECT
        COUNT(*) FILTER (WHERE requested_at >= $1 AND requested_at < $2) AS total_cnt,
        COUNT(*) FILTER (WHERE requested_at >= $1 AND requested_at < $2 AND status = 'cancelled') AS cancelled_cnt
    FROM orders
`, start, end).Scan(&total, &cancelled)
	if err != nil {
		return 0, err
	}

	if total == 0 {
		return 0, nil
	}
	return float64(cancelled) / float64(total), nil
}

// SumAmountCompletedBetween returns the total revenue from orders completed within the time range [start, end).
func (repo *OrderRepo) SumAmountCompletedBetween(ctx context.Context, start, end time.Time) (float64, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var total float64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM orders
		WHERE status = 'completed'
		  AND completed_at >= $1 AND completed_at < $2
	`, start, end).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// AvgDeliveryMinutesBetween returns the average request-to-completion time for orders completed within [start, end).
func (repo *OrderRepo) AvgDeliveryMinutesBetween(ctx context.Context, start, end time.Time) (float64, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var avg float64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (completed_at - requested_at)) / 60.0), 0)
		FROM orders
		WHERE status = 'completed'
		  AND requested_at IS NOT NULL
		  AND completed_at IS NOT NULL
		  AND completed_at >= $1 AND completed_at < $2
	`, start, end).Scan(&avg)
	if err != nil {
		return 0, err
	}

	return avg, nil
}

// HydrateActiveRows returns a page of active orders with each driver's last
// known position and the straight-line distance still to cover.
func (repo *OrderRepo) HydrateActiveRows(ctx context.Context, offset, limit int) ([]ports.ActiveOrderRow, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := tx.Query(ctx, `
		WITH base AS (
			SELECT
				o.id,
				o.kind,
				o.status,
				o.customer_id,
				COALESCE(o.driver_id, '') AS driver_id,
				o.address,
				o.requested_at,
				o.latitude  AS target_lat,
				o.longitude AS target_lng
			FROM orders o
			WHERE o.status IN ('preparing', 'on_the_way', 'arriving')
			ORDER BY o.requested_at DESC
			OFFSET $1
			LIMIT  $2
		),
		cur AS (
			SELECT
				c.entity_id AS driver_id,
				c.latitude  AS cur_lat,
				c.longitude AS cur_lng
			FROM coordinates c
			WHERE c.entity_type = 'provider' AND c.is_current = true
		)
		SELECT
			b.id,
			b.kind,
			b.status,
			b.customer_id,
			b.driver_id,
			COALESCE(b.address, '') AS address,
			b.requested_at,
			COALESCE(cur.cur_lat, 0.0) AS cur_lat,
			COALESCE(cur.cur_lng, 0.0) AS cur_lng,
			-- haversine in km; 0.0 when the driver has no current position
			COALESCE(
				2 * 6371 * asin(sqrt(
					pow(sin(radians(b.target_lat - cur.cur_lat) / 2), 2) +
					cos(radians(cur.cur_lat)) * cos(radians(b.target_lat)) *
					pow(sin(radians(b.target_lng - cur.cur_lng) / 2), 2)
				)), 0.0
			) AS dist_remaining_km
		FROM base b
		LEFT JOIN cur ON cur.driver_id = b.driver_id
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.ActiveOrderRow
	for rows.Next() {
		var r ports.ActiveOrderRow
		if err := rows.Scan(
			&r.OrderID,
			&r.Kind,
			&r.Status,
			&r.CustomerID,
			&r.DriverID,
			&r.Address,
			&r.RequestedAt,
			&r.CurrentDriverLocation.Latitude,
			&r.CurrentDriverLocation.Longitude,
			&r.DistanceRemainingKM,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
