package model

import "time"

// Role describes what a marketplace account is allowed to do.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleVendor || r == RoleAdmin
}

// User represents a registered marketplace account.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
