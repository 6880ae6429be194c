package postgres

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/order"
)

// Older app releases wrote order details under several field spellings
// (camelCase from the mobile client, snake_case from the backfill scripts)
// and sometimes encoded quantities as strings. normalizeDetails folds any of
// those document shapes into the canonical order.Details before the row
// reaches the domain layer.

// aliases per canonical field, first match wins
var (
	fuelTypeAliases        = []string{"fuel_type", "fuelType", "fuel"}
	quantityAliases        = []string{"quantity_liters", "quantityLiters", "quantity", "litres", "liters"}
	mechanicServiceAliases = []string{"mechanic_service", "serviceType", "service_type", "service"}
	vehicleTypeAliases     = []string{"vehicle_type", "vehicleType", "vehicle"}
	notesAliases           = []string{"notes", "note", "comment"}
)

// normalizeDetails decodes a raw JSONB details document and maps legacy field
// names onto the canonical Details form. A nil or empty document yields zero
// Details; an undecodable document is an error, not a silent zero.
func normalizeDetails(raw []byte) (order.Details, error) {
	if len(raw) == 0 {
		return order.Details{}, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return order.Details{}, fmt.Errorf("decode details document: %w", err)
	}

	details := order.Details{
		FuelType:        strings.ToLower(pickString(doc, fuelTypeAliases)),
		MechanicService: normalizeServiceName(pickString(doc, mechanicServiceAliases)),
		VehicleType:     strings.ToLower(pickString(doc, vehicleTypeAliases)),
		Notes:           pickString(doc, notesAliases),
	}

	quantity, err := pickFloat(doc, quantityAliases)
	if err != nil {
		return order.Details{}, err
	}
	details.QuantityLiters = quantity

	return details, nil
}

// marshalDetails renders canonical Details for storage. New rows always use
// the canonical snake_case spellings.
func marshalDetails(details order.Details) ([]byte, error) {
	return json.Marshal(details)
}

// pickString returns the first alias present in doc holding a string.
func pickString(doc map[string]any, aliases []string) string {
	for _, key := range aliases {
		if v, ok := doc[key]; ok {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// pickFloat returns the first alias present in doc, accepting both JSON
// numbers and legacy string-encoded numbers.
func pickFloat(doc map[string]any, aliases []string) (float64, error) {
	for _, key := range aliases {
		v, ok := doc[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, nil
		case string:
			trimmed := strings.TrimSpace(n)
			if trimmed == "" {
				return 0, nil
			}
			f, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return 0, fmt.Errorf("details field %q: %w", key, err)
			}
			return f, nil
		}
	}
	return 0, nil
}

// normalizeServiceName folds legacy service labels onto the canonical
// snake_case identifiers used for mechanic pricing.
func normalizeServiceName(service string) string {
	s := strings.ToLower(strings.TrimSpace(service))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "tyre_change", "tire", "tyre":
		return "tire_change"
	case "battery", "jumpstart", "jump_start":
		return "battery_jump"
	case "engine", "repair":
		return "engine_repair"
	case "tow":
		return "towing"
	}
	return s
}
