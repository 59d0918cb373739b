// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// User represents a store user with authentication and 2FA fields.
// Customers authenticate with password only; back-office users (admin,
// staff) must additionally enroll in TOTP 2FA.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsBackOffice returns true for users allowed into the admin area.
func (u *User) IsBackOffice() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}

// Needs2FASetup returns true if a back-office user has not completed 2FA
// enrollment. Back-office users must set up 2FA on their first login.
func (u *User) Needs2FASetup() bool {
	return u.IsBackOffice() && !u.TOTPEnabled
}
