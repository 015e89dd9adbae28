package ports

import (
	"context"

	"github.com/staffdesk/employee-directory/internal/core/domain"
)

// CreateEmployeeInput carries all data needed to create a new employee.
type CreateEmployeeInput struct {
	Name       string
	Email      string
	Role       string // empty = domain.RoleUser
	Department string
}

// EmployeePatch carries a partial update. Nil fields are left untouched.
type EmployeePatch struct {
	Name       *string
	Email      *string
	Role       *string
	Department *string
}

// EmployeeService defines use-case operations for employees.
type EmployeeService interface {
	ListEmployees(ctx context.Context) ([]*domain.Employee, error)
	CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id string, patch EmployeePatch) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) (*domain.Employee, error)
}
