package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffdesk/employee-directory/internal/core/domain"
	"github.com/staffdesk/employee-directory/internal/core/ports"
)

// TokenIssuer is the iss claim stamped on every session token.
const TokenIssuer = "employee-directory"

const defaultTokenTTL = time.Hour

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// LoginThrottle abstracts the failed-login counter store (Redis).
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

type noopThrottle struct{}

func (noopThrottle) Allow(context.Context, string) (bool, error)  { return true, nil }
func (noopThrottle) RecordFailure(context.Context, string) error { return nil }
func (noopThrottle) Reset(context.Context, string) error         { return nil }

// AuthService implements admin registration and login.
type AuthService struct {
	repo      ports.AccountRepository
	throttle  LoginThrottle
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewAuthService wires the credential store. A nil throttle disables login
// throttling.
func NewAuthService(repo ports.AccountRepository, throttle LoginThrottle, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	if throttle == nil {
		throttle = noopThrottle{}
	}
	return &AuthService{
		repo:      repo,
		throttle:  throttle,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	switch {
	case name == "":
		return nil, domain.NewValidationError("name is required")
	case email == "":
		return nil, domain.NewValidationError("email is required")
	case password == "":
		return nil, domain.NewValidationError("password is required")
	case len(password) > maxPasswordBytes:
		return nil, domain.NewValidationError("password must be at most 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", created.ID).Msg("account registered")
	return created, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("email and password are required")
	}

	allowed, err := s.throttle.Allow(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
	} else if !allowed {
		return nil, domain.ErrTooManyAttempts
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// CompareHashAndPassword compares digests in constant time.
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.log.Error().Err(err).Str("account_id", account.ID).Msg("stored password hash unusable")
		}
		if ferr := s.throttle.RecordFailure(ctx, email); ferr != nil {
			s.log.Warn().Err(ferr).Msg("failed to record login failure")
		}
		s.log.Info().Str("account_id", account.ID).Msg("login failed")
		return nil, domain.ErrInvalidCredentials
	}

	if rerr := s.throttle.Reset(ctx, email); rerr != nil {
		s.log.Warn().Err(rerr).Msg("failed to reset login throttle")
	}

	token, expiresAt, err := s.generateToken(account)
	if err != nil {
		return nil, err
	}

	return &ports.Session{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

func (s *AuthService) generateToken(account *domain.Account) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL).Truncate(jwt.TimePrecision)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    TokenIssuer,
		Subject:   account.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt.UTC(), nil
}
