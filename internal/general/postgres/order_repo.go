package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// OrderRepo persists orders using pgx and plain SQL.
type OrderRepo struct{}

// NewOrderRepo constructs a new OrderRepo.
func NewOrderRepo() ports.OrderRepository {
	return &OrderRepo{}
}

const orderColumns = `
	id, created_at, updated_at, customer_id, driver_id,
	kind, status, amount, details, latitude, longitude, address,
	requested_at, accepted_at, arrived_at, completed_at, cancelled_at,
	cancellation_reason`

// CreateOrder inserts a new order row and writes an initial ORDER_REQUESTED event.
func (repo *OrderRepo) CreateOrder(ctx context.Context, ord *order.Order) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	detailsDoc, err := marshalDetails(ord.Details)
	if err != nil {
		return err
	}

	// insert only the columns we actually have values for at creation time
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			customer_id, kind, status, amount, details,
			latitude, longitude, address, requested_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`,
		ord.CustomerID,
		ord.Kind.String(),
		ord.Status.String(), // typically "preparing"
		ord.Amount,
		detailsDoc,
		ord.Location.Latitude,
		ord.Location.Longitude,
		ord.Address,
		ord.RequestedAt,
	).Scan(&ord.ID, &ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return err
	}

	eventData := map[string]any{
		"new_status": ord.Status.String(),
		"kind":       ord.Kind.String(),
		"amount":     ord.Amount,
	}
	if err := insertOrderEvent(ctx, tx, ord.ID, order.EventOrderRequested, eventData); err != nil {
		return err
	}

	return nil
}

// GetByID fetches an order by primary key (uuid).
func (repo *OrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	out, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// GetActiveForCustomer fetches the most recent non-terminal order for a customer.
func (repo *OrderRepo) GetActiveForCustomer(ctx context.Context, customerID string) (*order.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		  AND status IN ('preparing', 'on_the_way', 'arriving')
		ORDER BY created_at DESC
		LIMIT 1
	`, customerID)

	out, err := scanOrder(row)
	if err != nil {
		// no active order found
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// GetActiveForDriver fetches the most recent non-terminal order assigned to a driver.
func (repo *OrderRepo) GetActiveForDriver(ctx context.Context, driverID string) (*order.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE driver_id = $1
		  AND status IN ('preparing', 'on_the_way', 'arriving')
		ORDER BY created_at DESC
		LIMIT 1
	`, driverID)

	out, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// ListByCustomer returns the customer's recent orders, newest first.
func (repo *OrderRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]*order.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders by customer: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListPendingByKind returns unassigned preparing orders of a kind, oldest first.
func (repo *OrderRepo) ListPendingByKind(ctx context.Context, kind order.Kind, limit int) ([]*order.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE kind = $1
		  AND status = 'preparing'
		  AND driver_id IS NULL
		ORDER BY created_at ASC
		LIMIT $2
	`, kind.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query pending orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// UpdateStatus sets the order status and stamps the corresponding timeline
// column. The current status must legally transition to the new one; a stale
// precondition surfaces as ports.ErrWriteConflict.
func (repo *OrderRepo) UpdateStatus(ctx context.Context, id string, status order.Status, ts time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// lock the row and check the transition before writing
	var currentText string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&currentText)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ports.ErrNotFound
		}
		return err
	}
	current := order.Status(currentText)
	if current == status {
		return nil // idempotent
	}
	if !current.CanTransitionTo(status) {
		return ports.ErrWriteConflict
	}

	// map the status onto its timeline column; on_the_way has no dedicated
	// column beyond updated_at
	column := ""
	switch status {
	case order.StatusArriving:
		column = ", arrived_at = $3"
	case order.StatusCompleted:
		column = ", completed_at = $3"
	case order.StatusCancelled:
		column = ", cancelled_at = $3"
	}

	query := `UPDATE orders SET status = $2, updated_at = $3` + column + ` WHERE id = $1`
	if _, err := tx.Exec(ctx, query, id, status.String(), ts); err != nil {
		return err
	}

	return insertOrderEvent(ctx, tx, id, order.EventStatusChanged, map[string]any{
		"old_status": current.String(),
		"new_status": status.String(),
	})
}

// AssignDriver records the accepting driver on a preparing, unassigned order.
func (repo *OrderRepo) AssignDriver(ctx context.Context, orderID, driverID string, acceptedAt time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET driver_id = $2, accepted_at = $3, updated_at = $3
		WHERE id = $1
		  AND status = 'preparing'
		  AND driver_id IS NULL
	`, orderID, driverID, acceptedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// either the order is gone or another driver got there first
		return order.ErrAlreadyAssigned
	}

	return insertOrderEvent(ctx, tx, orderID, order.EventDriverAssigned, map[string]any{
		"driver_id": driverID,
	})
}

// Complete finalizes the order with its final amount.
func (repo *OrderRepo) Complete(ctx context.Context, orderID string, finalAmount float64, completedAt time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = 'completed', amount = $2,
		    arrived_at = COALESCE(arrived_at, $3), completed_at = $3, updated_at = $3
		WHERE id = $1
		  AND status IN ('preparing', 'on_the_way', 'arriving')
	`, orderID, finalAmount, completedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrWriteConflict
	}

	return insertOrderEvent(ctx, tx, orderID, order.EventOrderCompleted, map[string]any{
		"final_amount": finalAmount,
	})
}

// Cancel marks the order cancelled with an optional reason.
func (repo *OrderRepo) Cancel(ctx context.Context, orderID, reason string, cancelledAt time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = 'cancelled', cancellation_reason = NULLIF($2, ''),
		    cancelled_at = $3, updated_at = $3
		WHERE id = $1
		  AND status IN ('preparing', 'on_the_way', 'arriving')
	`, orderID, reason, cancelledAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrWriteConflict
	}

	return insertOrderEvent(ctx, tx, orderID, order.EventOrderCancelled, map[string]any{
		"reason": reason,
	})
}

// ----- row mapping -----

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		out        order.Order
		kindText   string
		statusText string
		detailsRaw []byte
	)

	err := row.Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.CustomerID, &out.DriverID,
		&kindText, &statusText, &out.Amount, &detailsRaw,
		&out.Location.Latitude, &out.Location.Longitude, &out.Address,
		&out.RequestedAt, &out.AcceptedAt, &out.ArrivedAt, &out.CompletedAt, &out.CancelledAt,
		&out.CancellationReason,
	)
	if err != nil {
		return nil, err
	}

	out.Kind = order.Kind(kindText)
	out.Status = order.Status(statusText)

	// legacy rows may use historical field spellings inside details
	out.Details, err = normalizeDetails(detailsRaw)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", out.ID, err)
	}

	return &out, nil
}

func collectOrders(rows pgx.Rows) ([]*order.Order, error) {
	var orders []*order.Order
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return orders, nil
}

func insertOrderEvent(ctx context.Context, tx pgx.Tx, orderID string, eventType order.EventType, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO order_events (order_id, event_type, event_data)
		VALUES ($1, $2, $3)
	`, orderID, eventType.String(), payload)
	return err
}
