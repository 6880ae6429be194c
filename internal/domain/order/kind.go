package order

import (
	"errors"
	"strings"
)

// Kind distinguishes fuel deliveries from roadside mechanic dispatches.
type Kind string

const (
	KindFuel     Kind = "fuel"
	KindMechanic Kind = "mechanic"
)

var ErrInvalidKind = errors.New("invalid order kind")

// ParseKind normalizes (lowercases+trims) and validates a kind string.
func ParseKind(input string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(input)))
	if kind.Valid() {
		return kind, nil
	}
	return "", ErrInvalidKind
}

// Valid reports whether kind is one of the allowed kind constants.
func (kind Kind) Valid() bool {
	switch kind {
	case KindFuel, KindMechanic:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Kind.
func (kind Kind) String() string {
	return string(kind)
}

func (kind Kind) IsFuel() bool     { return kind == KindFuel }
func (kind Kind) IsMechanic() bool { return kind == KindMechanic }
