package postgres

import (
	"context"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// OrderEventRepo persists order events using pgx and plain SQL.
type OrderEventRepo struct{}

// NewOrderEventRepo constructs a new OrderEventRepo.
func NewOrderEventRepo() ports.OrderEventRepository {
	return &OrderEventRepo{}
}

// Append inserts a new order_events row.
func (repo *OrderEventRepo) Append(ctx context.Context, event *order.Event) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// validate event before inserting
	if err := event.Validate(); err != nil {
		return err
	}

	// serialize event data to JSON
	data, err := event.DataJSON()
	if err != nil {
		return err
	}

	// insert order event record
	err = tx.QueryRow(ctx, `
		INSERT INTO order_events (order_id, event_type, event_data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING id, created_at
	`,
		event.OrderID,
		event.Type.String(),
		string(data),
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}
