package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffdesk/employee-directory/internal/core/domain"
	"github.com/staffdesk/employee-directory/internal/core/ports"
)

// timestampPrecision matches BSON datetime resolution so values survive a
// round trip through MongoDB unchanged.
const timestampPrecision = time.Millisecond

// maxUpdateAttempts bounds the read-modify-write loop in UpdateEmployee.
const maxUpdateAttempts = 5

type EmployeeService struct {
	repo   ports.EmployeeRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewEmployeeService(repo ports.EmployeeRepository, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, logger: logger, now: time.Now}
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	return s.repo.List(ctx)
}

// CreateEmployee validates the input, stamps server-side timestamps and
// persists the record.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input ports.CreateEmployeeInput) (*domain.Employee, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	employee := &domain.Employee{
		Name:       strings.TrimSpace(input.Name),
		Email:      domain.NormalizeEmail(input.Email),
		Role:       role,
		Department: strings.TrimSpace(input.Department),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := employee.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, employee)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("employee_id", created.ID).Str("department", created.Department).Msg("employee created")
	return created, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateEmployee applies the non-nil patch fields on top of the stored record.
// updated_at always moves forward, even when the patch is empty. Only the
// patched fields are written, and the write is retried from a fresh read when
// another update lands in between.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, patch ports.EmployeePatch) (*domain.Employee, error) {
	changes, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		merged := *current
		applyChanges(&merged, changes)
		if err := merged.Validate(); err != nil {
			return nil, err
		}
		changes.UpdatedAt = s.nextUpdatedAt(current.UpdatedAt)

		updated, err := s.repo.Update(ctx, id, changes, current.UpdatedAt)
		if errors.Is(err, domain.ErrConcurrentUpdate) && attempt < maxUpdateAttempts {
			s.logger.Debug().Str("employee_id", id).Int("attempt", attempt).Msg("employee changed during update, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info().Str("employee_id", updated.ID).Msg("employee updated")
		return updated, nil
	}
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("employee_id", deleted.ID).Msg("employee deleted")
	return deleted, nil
}

func (s *EmployeeService) timestamp() time.Time {
	return s.now().UTC().Truncate(timestampPrecision)
}

// nextUpdatedAt returns the current time, bumped past prev when the clock has
// not advanced by at least one storage tick.
func (s *EmployeeService) nextUpdatedAt(prev time.Time) time.Time {
	now := s.timestamp()
	if !now.After(prev) {
		now = prev.UTC().Truncate(timestampPrecision).Add(timestampPrecision)
	}
	return now
}

// normalizePatch trims and parses the patch fields once, before any read.
func normalizePatch(patch ports.EmployeePatch) (ports.EmployeeChanges, error) {
	var c ports.EmployeeChanges
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		c.Name = &name
	}
	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		c.Email = &email
	}
	if patch.Department != nil {
		dept := strings.TrimSpace(*patch.Department)
		c.Department = &dept
	}
	if patch.Role != nil {
		if strings.TrimSpace(*patch.Role) == "" {
			return c, domain.NewValidationError("role must be one of: admin user")
		}
		role, err := domain.ParseRole(*patch.Role)
		if err != nil {
			return c, err
		}
		c.Role = &role
	}
	return c, nil
}

func applyChanges(e *domain.Employee, c ports.EmployeeChanges) {
	if c.Name != nil {
		e.Name = *c.Name
	}
	if c.Email != nil {
		e.Email = *c.Email
	}
	if c.Role != nil {
		e.Role = *c.Role
	}
	if c.Department != nil {
		e.Department = *c.Department
	}
}
