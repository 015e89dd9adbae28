package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffdesk/employee-directory/internal/core/domain"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account // keyed by email
	seq      int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.accounts[account.Email]; exists {
		return nil, domain.ErrAccountExists
	}
	r.seq++
	copy := cloneAccount(account)
	copy.ID = "acc-" + strconv.Itoa(r.seq)
	r.accounts[copy.Email] = copy
	return cloneAccount(copy), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

type stubThrottle struct {
	blocked  bool
	allowErr error
	failures map[string]int
	resets   int
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{failures: make(map[string]int)}
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) {
	return !t.blocked, t.allowErr
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	t.resets++
	return nil
}

func newAuthSvc(repo *stubAccountRepo, throttle LoginThrottle) *AuthService {
	return NewAuthService(repo, throttle, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo, nil)

	account, err := svc.Register(context.Background(), "Alice", "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account == nil || account.ID == "" {
		t.Fatalf("expected account with ID, got %+v", account)
	}
	if account.PasswordHash == "pw1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("pw1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if account.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo, nil)

	account, err := svc.Register(context.Background(), "Alice", "  A@X.com ", "pw1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account.Email != "a@x.com" {
		t.Fatalf("expected normalized email, got %q", account.Email)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo, nil)

	cases := []struct{ name, email, password string }{
		{"", "a@x.com", "pw"},
		{"Alice", "", "pw"},
		{"Alice", "a@x.com", ""},
		{"   ", "a@x.com", "pw"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.name, tc.email, tc.password); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Register(%q,%q,%q): expected ErrValidation, got %v", tc.name, tc.email, tc.password, err)
		}
	}
	if len(repo.accounts) != 0 {
		t.Fatalf("expected nothing stored, got %d accounts", len(repo.accounts))
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo, nil)

	// 40 two-byte runes: short in characters, over bcrypt's byte limit.
	_, err := svc.Register(context.Background(), "Alice", "a@x.com", strings.Repeat("é", 40))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.accounts) != 0 {
		t.Fatalf("expected nothing stored, got %d accounts", len(repo.accounts))
	}

	if _, err := svc.Register(context.Background(), "Alice", "a@x.com", strings.Repeat("a", 72)); err != nil {
		t.Fatalf("72-byte password should be accepted, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo, nil)

	if _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Bobby", "bob@example.com", "different"); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo, nil)

	registered, err := svc.Register(context.Background(), "Carol", "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	session, err := svc.Authenticate(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if session.Account.Name != "Carol" {
		t.Fatalf("unexpected account: %+v", session.Account)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != registered.ID {
		t.Fatalf("expected subject %q, got %q", registered.ID, claims.Subject)
	}
	if claims.Issuer != TokenIssuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti claim")
	}
	if !claims.ExpiresAt.Time.Equal(session.ExpiresAt) {
		t.Fatalf("session expiry %v does not match token exp %v", session.ExpiresAt, claims.ExpiresAt.Time)
	}
}

func TestAuthService_Authenticate_TokenExpiresAfterTTL(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo, nil)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, _ = svc.Register(context.Background(), "Dan", "dan@example.com", "pw")
	session, err := svc.Authenticate(context.Background(), "dan@example.com", "pw")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if want := fixed.Add(time.Hour); !session.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, session.ExpiresAt)
	}
}

func TestAuthService_Authenticate_PasswordMutations(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo, nil)

	const password = "goodpass"
	_, _ = svc.Register(context.Background(), "Dave", "dave@example.com", password)

	for i := range password {
		b := []byte(password)
		b[i] ^= 0x01
		if _, err := svc.Authenticate(context.Background(), "dave@example.com", string(b)); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("mutation %q: expected ErrInvalidCredentials, got %v", b, err)
		}
	}
}

func TestAuthService_Authenticate_AccountNotFound(t *testing.T) {
	svc := newAuthSvc(newStubAccountRepo(), nil)

	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAuthService_Authenticate_MissingFields(t *testing.T) {
	svc := newAuthSvc(newStubAccountRepo(), nil)

	if _, err := svc.Authenticate(context.Background(), "", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Authenticate_RecordsFailuresAndResets(t *testing.T) {
	repo := newStubAccountRepo()
	throttle := newStubThrottle()
	svc := newAuthSvc(repo, throttle)

	_, _ = svc.Register(context.Background(), "Eve", "eve@example.com", "right")
	_, _ = svc.Authenticate(context.Background(), "eve@example.com", "wrong")
	_, _ = svc.Authenticate(context.Background(), "eve@example.com", "wrong")

	if throttle.failures["eve@example.com"] != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", throttle.failures["eve@example.com"])
	}

	if _, err := svc.Authenticate(context.Background(), "eve@example.com", "right"); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if throttle.resets != 1 || throttle.failures["eve@example.com"] != 0 {
		t.Fatalf("expected throttle reset after success")
	}
}

func TestAuthService_Authenticate_Throttled(t *testing.T) {
	repo := newStubAccountRepo()
	throttle := newStubThrottle()
	throttle.blocked = true
	svc := newAuthSvc(repo, throttle)

	_, _ = svc.Register(context.Background(), "Eve", "eve@example.com", "right")
	if _, err := svc.Authenticate(context.Background(), "eve@example.com", "right"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Authenticate_ThrottleErrorFailsOpen(t *testing.T) {
	repo := newStubAccountRepo()
	throttle := newStubThrottle()
	throttle.allowErr = errors.New("redis timeout")
	svc := newAuthSvc(repo, throttle)

	_, _ = svc.Register(context.Background(), "Eve", "eve@example.com", "right")
	if _, err := svc.Authenticate(context.Background(), "eve@example.com", "right"); err != nil {
		t.Fatalf("expected login to proceed when throttle store errors, got %v", err)
	}
}
