package user

import (
	"errors"
	"strings"
)

// Role determines which surface of the app a user may access.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

var ErrInvalidRole = errors.New("invalid user role")

// ParseRole normalizes (lowercases+trims) and validates a role string.
func ParseRole(input string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(input)))
	if role.Valid() {
		return role, nil
	}
	return "", ErrInvalidRole
}

// Valid reports whether role is one of the allowed role constants.
func (role Role) Valid() bool {
	switch role {
	case RoleCustomer, RoleDriver, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Role.
func (role Role) String() string {
	return string(role)
}

func (role Role) IsAdmin() bool  { return role == RoleAdmin }
func (role Role) IsDriver() bool { return role == RoleDriver }
