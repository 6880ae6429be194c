package provider

import (
	"errors"
	"strings"
)

// Status is a provider availability status as stored in the `providers` table.
type Status string

const (
	StatusOffline   Status = "offline"
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
)

var (
	ErrInvalidStatusValue  = errors.New("invalid provider status")
	ErrInvalidStatusSwitch = errors.New("invalid provider status transition")
)

// ParseStatus normalizes (lowercases+trims) and validates a provider status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatusValue
}

// Valid reports whether the status is one of the allowed provider status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusOffline, StatusAvailable, StatusBusy:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}
