package domain

import (
	"strings"
	"time"
)

// Role is the job role recorded on an employee. It is plain data and never
// used for access decisions.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole converts a raw role string. An empty value defaults to RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", NewValidationError("role must be one of: admin user")
	}
}

// Employee is a managed personnel record.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks the fields every stored employee must carry.
func (e *Employee) Validate() error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return NewValidationError("name is required")
	case strings.TrimSpace(e.Email) == "":
		return NewValidationError("email is required")
	case strings.TrimSpace(e.Department) == "":
		return NewValidationError("department is required")
	case e.Role != RoleAdmin && e.Role != RoleUser:
		return NewValidationError("role must be one of: admin user")
	}
	return nil
}

// NormalizeEmail is the canonical form used for storage and uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
