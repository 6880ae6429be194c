package provider

import (
	"errors"
	"maps"
	"strings"
	"time"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
)

// Attrs is a JSON-friendly bag for vehicle attributes (plate, make, model, color, etc.).
type Attrs map[string]any

// Provider is the domain entity corresponding to the `providers` table: the
// fuel driver or mechanic fulfilling orders.
type Provider struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Required business fields
	DisplayName   string
	ContactPhone  string
	LicenseNumber string
	Kind          order.Kind // fuel driver or mechanic

	// Vehicle details (JSON)
	VehicleAttrs Attrs

	// KPIs
	Rating        float64
	TotalJobs     int
	TotalEarnings float64

	// Operational state
	Status     Status
	IsVerified bool
}

var (
	ErrUserIDRequired  = errors.New("user id is required")
	ErrNameRequired    = errors.New("display name is required")
	ErrLicenseRequired = errors.New("license number is required")
	ErrNegativeTotals  = errors.New("totals cannot be negative")
)

// NewProvider creates a new Provider entity with sane defaults.
func NewProvider(userID, displayName, licenseNumber string, kind order.Kind, attrs Attrs) (*Provider, error) {
	if userID = strings.TrimSpace(userID); userID == "" {
		return nil, ErrUserIDRequired
	}
	if displayName = strings.TrimSpace(displayName); displayName == "" {
		return nil, ErrNameRequired
	}
	if licenseNumber = strings.TrimSpace(licenseNumber); licenseNumber == "" {
		return nil, ErrLicenseRequired
	}
	if !kind.Valid() {
		return nil, order.ErrInvalidKind
	}

	now := time.Now().UTC()
	return &Provider{
		ID:            userID,
		CreatedAt:     now,
		UpdatedAt:     now,
		DisplayName:   displayName,
		LicenseNumber: licenseNumber,
		Kind:          kind,
		VehicleAttrs:  cloneAttrs(attrs),
		Rating:        5.0,
		Status:        StatusOffline,
	}, nil
}

// ApplyEarnings increments counters after a completed job.
func (provider *Provider) ApplyEarnings(jobsDelta int, earningsDelta float64) error {
	if jobsDelta < 0 || earningsDelta < 0 {
		return ErrNegativeTotals
	}
	provider.TotalJobs += jobsDelta
	provider.TotalEarnings += earningsDelta
	provider.touch()
	return nil
}

// ---- State transitions (minimal, explicit) ----

// MarkAvailable transitions offline/busy -> available.
func (provider *Provider) MarkAvailable() error {
	switch provider.Status {
	case StatusOffline, StatusBusy:
		provider.Status = StatusAvailable
		provider.touch()
		return nil
	default:
		return ErrInvalidStatusSwitch
	}
}

// MarkBusy transitions available -> busy (accepted a job).
func (provider *Provider) MarkBusy() error {
	if provider.Status != StatusAvailable {
		return ErrInvalidStatusSwitch
	}
	provider.Status = StatusBusy
	provider.touch()
	return nil
}

// MarkOffline transitions any state -> offline.
func (provider *Provider) MarkOffline() {
	provider.Status = StatusOffline
	provider.touch()
}

// ----- internal helpers -----

func (provider *Provider) touch() {
	provider.UpdatedAt = time.Now().UTC()
}

func cloneAttrs(attrs Attrs) Attrs {
	if attrs == nil {
		return nil
	}
	out := make(Attrs, len(attrs))
	maps.Copy(out, attrs)
	return out
}
