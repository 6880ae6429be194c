package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// entity types stored in the coordinates table
const (
	entityTypeProvider = "provider"
	entityTypeCustomer = "customer"
)

// CoordinatesRepo persists coordinate data using pgx and plain SQL.
type CoordinatesRepo struct{}

// NewCoordinatesRepo constructs a new CoordinatesRepo.
func NewCoordinatesRepo() ports.CoordinatesRepository {
	return &CoordinatesRepo{}
}

// SaveProviderLocation inserts a new current coordinate for a provider,
// flipping any previous current row.
func (repo *CoordinatesRepo) SaveProviderLocation(
	ctx context.Context,
	providerID string,
	loc provider.Location,
	address string,
) (string, time.Time, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return "", time.Time{}, err
	}

	if providerID == "" {
		return "", time.Time{}, errors.New("providerID cannot be empty")
	}
	if err := loc.Validate(); err != nil {
		return "", time.Time{}, err
	}
	if address == "" {
		address = "Current Location"
	}

	// 1. Mark previous current coordinates as not current
	_, err = tx.Exec(ctx, `
		UPDATE coordinates
		SET is_current = false, updated_at = now()
		WHERE entity_id = $1
		  AND entity_type = $2
		  AND is_current = true
	`, providerID, entityTypeProvider)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to update previous coordinates: %w", err)
	}

	// 2. Insert new current coordinate
	var (
		coordinateID string
		updatedAt    time.Time
	)
	err = tx.QueryRow(ctx, `
		INSERT INTO coordinates (
			entity_id, entity_type, address,
			latitude, longitude,
			speed_kmh, heading_degrees, observed_at, is_current
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		RETURNING id, updated_at
	`,
		providerID,
		entityTypeProvider,
		address,
		loc.Position.Latitude,
		loc.Position.Longitude,
		loc.SpeedKMH,
		loc.HeadingDegrees,
		loc.ObservedAt,
	).Scan(&coordinateID, &updatedAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to insert coordinate: %w", err)
	}

	return coordinateID, updatedAt, nil
}

// GetCurrentForProvider retrieves the current position sample for a provider.
func (repo *CoordinatesRepo) GetCurrentForProvider(ctx context.Context, providerID string) (*provider.Location, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out provider.Location
	err = tx.QueryRow(ctx, `
		SELECT latitude, longitude, speed_kmh, heading_degrees, observed_at
		FROM coordinates
		WHERE entity_id = $1
		  AND entity_type = $2
		  AND is_current = true
		LIMIT 1
	`, providerID, entityTypeProvider).Scan(
		&out.Position.Latitude, &out.Position.Longitude,
		&out.SpeedKMH, &out.HeadingDegrees, &out.ObservedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &out, nil
}

// UpsertForCustomer inserts a coordinate for a customer's delivery target.
func (repo *CoordinatesRepo) UpsertForCustomer(
	ctx context.Context,
	customerID string,
	coord geo.Coordinate,
	makeCurrent bool,
) (string, time.Time, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return "", time.Time{}, err
	}

	if err := coord.Validate(); err != nil {
		return "", time.Time{}, err
	}

	// when making this the current point, flip any previous current for the same entity
	if makeCurrent {
		if _, err := tx.Exec(ctx, `
			UPDATE coordinates
			SET is_current = false, updated_at = now()
			WHERE entity_id = $1
			  AND entity_type = $2
			  AND is_current = true
		`, customerID, entityTypeCustomer); err != nil {
			return "", time.Time{}, err
		}
	}

	var (
		coordinateID string
		updatedAt    time.Time
	)
	err = tx.QueryRow(ctx, `
		INSERT INTO coordinates (
			entity_id, entity_type, address,
			latitude, longitude,
			speed_kmh, heading_degrees, observed_at, is_current
		)
		VALUES ($1, $2, '', $3, $4, 0, 0, now(), $5)
		RETURNING id, updated_at
	`,
		customerID,
		entityTypeCustomer,
		coord.Latitude,
		coord.Longitude,
		makeCurrent,
	).Scan(&coordinateID, &updatedAt)
	if err != nil {
		return "", time.Time{}, err
	}

	return coordinateID, updatedAt, nil
}
