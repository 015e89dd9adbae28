package ports

import (
	"context"
	"time"

	"github.com/staffdesk/employee-directory/internal/core/domain"
)

// EmployeeChanges carries the already-normalized fields of a partial update.
// Nil fields are left untouched in storage.
type EmployeeChanges struct {
	Name       *string
	Email      *string
	Role       *domain.Role
	Department *string
	UpdatedAt  time.Time
}

// EmployeeRepository defines persistence operations for employees.
// Implementations translate unique-index violations on email into
// domain.ErrEmployeeEmailTaken and missing documents into
// domain.ErrEmployeeNotFound.
type EmployeeRepository interface {
	// Create inserts the employee and returns it with its assigned ID.
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	// List returns every employee in storage order.
	List(ctx context.Context) ([]*domain.Employee, error)
	// Update writes only the non-nil fields of changes plus updated_at, and
	// only while the stored updated_at still equals expectedUpdatedAt.
	// A record that moved on in the meantime yields domain.ErrConcurrentUpdate.
	Update(ctx context.Context, id string, changes EmployeeChanges, expectedUpdatedAt time.Time) (*domain.Employee, error)
	// Delete removes the employee and returns the removed record.
	Delete(ctx context.Context, id string) (*domain.Employee, error)
}
