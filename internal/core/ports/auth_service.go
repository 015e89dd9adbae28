package ports

import (
	"context"
	"time"

	"github.com/staffdesk/employee-directory/internal/core/domain"
)

// Session is what a successful authentication hands back to the caller.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.Account, error)
	Authenticate(ctx context.Context, email, password string) (*Session, error)
}
