package places

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/geo"
)

// Kind selects which side of the catalog a lookup searches.
type Kind string

const (
	KindFuel     Kind = "fuel"
	KindMechanic Kind = "mechanic"
)

var ErrUnknownKind = errors.New("unknown place kind")

// ParseKind maps external labels onto a Kind. "gas_station" is the legacy
// label the old clients send for fuel lookups.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fuel", "gas_station":
		return KindFuel, nil
	case "mechanic", "car_repair":
		return KindMechanic, nil
	default:
		return "", ErrUnknownKind
	}
}

// Place is one catalog entry, with the distance from the query point filled
// in per lookup.
type Place struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Kind       Kind           `json:"kind"`
	Address    string         `json:"address"`
	Position   geo.Coordinate `json:"position"`
	Rating     float64        `json:"rating"`
	Phone      string         `json:"phone,omitempty"`
	OpenHours  string         `json:"open_hours,omitempty"`
	DistanceKM float64        `json:"distance_km"`
}

// Finder answers nearby-place lookups. The default implementation serves a
// fixed catalog; it exists as an interface so handlers can be tested against
// a stub and a real places backend can be slotted in later.
type Finder interface {
	FindNearby(ctx context.Context, kind Kind, from geo.Coordinate, radiusKM float64) ([]Place, error)
}

// CatalogFinder serves lookups from an in-memory catalog.
type CatalogFinder struct {
	catalog map[Kind][]Place
	limit   int
}

// NewCatalogFinder builds a Finder over the default catalog.
func NewCatalogFinder() *CatalogFinder {
	return &CatalogFinder{catalog: defaultCatalog(), limit: 8}
}

// FindNearby returns catalog entries of the given kind within radiusKM of
// the query point, closest first, capped at the result limit. A zero or
// negative radius means no radius filter.
func (finder *CatalogFinder) FindNearby(ctx context.Context, kind Kind, from geo.Coordinate, radiusKM float64) ([]Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := from.Validate(); err != nil {
		return nil, err
	}
	entries, ok := finder.catalog[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	results := make([]Place, 0, len(entries))
	for _, entry := range entries {
		entry.DistanceKM = geo.DistanceKM(from, entry.Position)
		if radiusKM > 0 && entry.DistanceKM > radiusKM {
			continue
		}
		results = append(results, entry)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKM < results[j].DistanceKM
	})
	if len(results) > finder.limit {
		results = results[:finder.limit]
	}
	return results, nil
}
