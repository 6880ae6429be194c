package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// ProviderRepo persists providers using pgx and plain SQL.
type ProviderRepo struct{}

// NewProviderRepo constructs a new ProviderRepo.
func NewProviderRepo() ports.ProviderRepository {
	return &ProviderRepo{}
}

// CreateProvider inserts a new provider row. The referenced user must already exist in users(id).
func (repo *ProviderRepo) CreateProvider(ctx context.Context, prov *provider.Provider) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// insert provider record
	err = tx.QueryRow(ctx, `
		INSERT INTO providers (id, display_name, contact_phone, license_number, kind, vehicle_attrs, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at, rating, total_jobs, total_earnings, is_verified
	`,
		prov.ID,
		prov.DisplayName,
		prov.ContactPhone,
		prov.LicenseNumber,
		prov.Kind.String(),
		prov.VehicleAttrs,    // automatically marshaled by pgx to jsonb
		prov.Status.String(), // typically start as 'offline'
	).Scan(&prov.ID, &prov.CreatedAt, &prov.UpdatedAt, &prov.Rating, &prov.TotalJobs, &prov.TotalEarnings, &prov.IsVerified)
	if err != nil {
		return err
	}

	return nil
}

// GetByID returns one provider by id.
func (repo *ProviderRepo) GetByID(ctx context.Context, providerID string) (*provider.Provider, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out provider.Provider
	var kindText string
	var statusText string
	var vehicleAttrs []byte

	// query provider row
	err = tx.QueryRow(ctx, `
		SELECT
			id, created_at, updated_at,
			display_name, contact_phone, license_number, kind, vehicle_attrs,
			rating, total_jobs, total_earnings,
			status, is_verified
		FROM providers
		WHERE id = $1
	`, providerID).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt,
		&out.DisplayName, &out.ContactPhone, &out.LicenseNumber, &kindText, &vehicleAttrs,
		&out.Rating, &out.TotalJobs, &out.TotalEarnings,
		&statusText, &out.IsVerified,
	)
	if err != nil {
		return nil, err
	}

	out.Kind = order.Kind(kindText)
	out.Status = provider.Status(statusText)

	if len(vehicleAttrs) > 0 {
		if err := json.Unmarshal(vehicleAttrs, &out.VehicleAttrs); err != nil {
			return nil, err
		}
	}

	return &out, nil
}

// UpdateStatus sets the provider status (idempotent if unchanged).
func (repo *ProviderRepo) UpdateStatus(ctx context.Context, providerID string, status provider.Status) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// lock the row and read current status to keep transitions explicit when needed
	var current string
	err = tx.QueryRow(ctx, `
		SELECT status
		FROM providers
		WHERE id = $1
		FOR UPDATE
	`, providerID).Scan(&current)
	if err != nil {
		return err
	}

	// idempotent success
	if current == status.String() {
		return nil
	}

	// validate new status
	if !status.Valid() {
		return errors.New("invalid provider status")
	}

	// update state
	_, err = tx.Exec(ctx, `
		UPDATE providers
		SET status = $1,
		    updated_at = now()
		WHERE id = $2
	`, status.String(), providerID)
	return err
}

// FindNearbyAvailable returns available providers of the given kind within radius, ordered by distance then rating.
func (repo *ProviderRepo) FindNearbyAvailable(
	ctx context.Context,
	lat, lng float64,
	kind order.Kind,
	radiusKM float64,
	limit int,
) ([]provider.Provider, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// query available providers within radius (haversine over the current coordinate)
	rows, err := tx.Query(ctx, `
		SELECT
			p.id, p.created_at, p.updated_at,
			p.display_name, p.contact_phone, p.license_number, p.kind, p.vehicle_attrs,
			p.rating, p.total_jobs, p.total_earnings,
			p.status, p.is_verified
		FROM providers p
		JOIN coordinates c
		  ON c.entity_id = p.id
		 AND c.entity_type = 'provider'
		 AND c.is_current = true
		WHERE p.status = 'available'
		  AND p.kind = $3
		  AND 2 * 6371 * asin(sqrt(
				pow(sin(radians(c.latitude - $1) / 2), 2) +
				cos(radians($1)) * cos(radians(c.latitude)) *
				pow(sin(radians(c.longitude - $2) / 2), 2)
			)) <= $4
		ORDER BY 2 * 6371 * asin(sqrt(
				pow(sin(radians(c.latitude - $1) / 2), 2) +
				cos(radians($1)) * cos(radians(c.latitude)) *
				pow(sin(radians(c.longitude - $2) / 2), 2)
			)) ASC,
			p.rating DESC
		LIMIT $5
	`, lat, lng, kind.String(), radiusKM, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []provider.Provider
	for rows.Next() {
		var (
			prov         provider.Provider
			kindText     string
			statusText   string
			vehicleAttrs []byte
		)
		if err := rows.Scan(
			&prov.ID, &prov.CreatedAt, &prov.UpdatedAt,
			&prov.DisplayName, &prov.ContactPhone, &prov.LicenseNumber, &kindText, &vehicleAttrs,
			&prov.Rating, &prov.TotalJobs, &prov.TotalEarnings,
			&statusText, &prov.IsVerified,
		); err != nil {
			return nil, err
		}
		prov.Kind = order.Kind(kindText)
		prov.Status = provider.Status(statusText)
		if len(vehicleAttrs) > 0 {
			if err := json.Unmarshal(vehicleAttrs, &prov.VehicleAttrs); err != nil {
				return nil, err
			}
		}
		out = append(out, prov)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// IncrementCountersOnComplete bumps job and earnings totals after a completed order.
func (repo *ProviderRepo) IncrementCountersOnComplete(ctx context.Context, providerID string, earnings float64) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE providers
		SET total_jobs = total_jobs + 1,
		    total_earnings = total_earnings + $2,
		    updated_at = now()
		WHERE id = $1
	`, providerID, earnings)
	return err
}

// CountByStatus returns the number of providers in the given status.
func (repo *ProviderRepo) CountByStatus(ctx context.Context, status provider.Status) (int, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM providers WHERE status = $1`, status.String()).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// CountByKind returns the number of providers serving the given order kind.
func (repo *ProviderRepo) CountByKind(ctx context.Context, kind order.Kind) (int, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM providers WHERE kind = $1`, kind.String()).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
