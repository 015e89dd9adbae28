package ports

import (
	"context"

	"github.com/staffdesk/employee-directory/internal/core/domain"
)

// AccountRepository defines the interface for admin account persistence.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
