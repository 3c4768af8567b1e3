// Package identity manages user accounts, roles, and login.
package identity

import (
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

// User is a login account. Staff and patient records link to one through
// their user_id column.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RoleNurse   = "nurse"
	RolePatient = "patient"
)

var validRoles = map[string]bool{
	RoleAdmin: true, RoleDoctor: true, RoleNurse: true, RolePatient: true,
}

// ParseRole validates a role string against the closed set. No case folding;
// roles are stored and compared exactly.
func ParseRole(s string) (string, error) {
	if !validRoles[s] {
		return "", apperr.Invalidf("invalid role: %q", s)
	}
	return s, nil
}
