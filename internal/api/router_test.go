package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/employee-directory/internal/api/handler"
	"github.com/staffdesk/employee-directory/internal/core/domain"
	"github.com/staffdesk/employee-directory/internal/core/ports"
	"github.com/staffdesk/employee-directory/internal/core/service"
)

const testSecret = "router-test-secret"

type memAccounts struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Account
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[a.Email]; ok {
		return nil, domain.ErrAccountExists
	}
	cp := *a
	cp.ID = "acc-" + strconv.Itoa(len(m.byEmail)+1)
	m.byEmail[a.Email] = &cp
	out := cp
	return &out, nil
}

type memEmployees struct {
	mu    sync.Mutex
	seq   int
	order []string
	byID  map[string]domain.Employee
}

func (m *memEmployees) emailTaken(email, except string) bool {
	for id, e := range m.byID {
		if e.Email == email && id != except {
			return true
		}
	}
	return false
}

func (m *memEmployees) Create(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(e.Email, "") {
		return nil, domain.ErrEmployeeEmailTaken
	}
	m.seq++
	cp := *e
	cp.ID = "emp-" + strconv.Itoa(m.seq)
	m.byID[cp.ID] = cp
	m.order = append(m.order, cp.ID)
	return &cp, nil
}

func (m *memEmployees) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return &e, nil
}

func (m *memEmployees) List(_ context.Context) ([]*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Employee, 0, len(m.order))
	for _, id := range m.order {
		if e, ok := m.byID[id]; ok {
			cp := e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memEmployees) Update(_ context.Context, id string, c ports.EmployeeChanges, expectedUpdatedAt time.Time) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	if !cp.UpdatedAt.Equal(expectedUpdatedAt) {
		return nil, domain.ErrConcurrentUpdate
	}
	if c.Email != nil && m.emailTaken(*c.Email, id) {
		return nil, domain.ErrEmployeeEmailTaken
	}
	if c.Name != nil {
		cp.Name = *c.Name
	}
	if c.Email != nil {
		cp.Email = *c.Email
	}
	if c.Role != nil {
		cp.Role = *c.Role
	}
	if c.Department != nil {
		cp.Department = *c.Department
	}
	cp.UpdatedAt = c.UpdatedAt
	m.byID[id] = cp
	return &cp, nil
}

func (m *memEmployees) Delete(_ context.Context, id string) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	delete(m.byID, id)
	return &e, nil
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()
	accounts := &memAccounts{byEmail: map[string]*domain.Account{}}
	employees := &memEmployees{byID: map[string]domain.Employee{}}

	e, err := NewRouter(Dependencies{
		AuthService:     service.NewAuthService(accounts, nil, testSecret, time.Hour, log),
		EmployeeService: service.NewEmployeeService(employees, log),
		JWTSecret:       testSecret,
		Logger:          log,
		Registry:        prometheus.NewRegistry(),
		HealthChecks: []handler.DependencyCheck{
			{Name: "mongodb", Check: func(context.Context) error { return nil }},
			{Name: "redis"},
		},
	})
	require.NoError(t, err)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func signupAndLogin(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec, _ := doJSON(t, e, http.MethodPost, "/api/auth/signup", `{"name":"Alice","email":"alice@example.com","password":"pw1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, e, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRouter_AuthScenario(t *testing.T) {
	e := newTestRouter(t)

	rec, body := doJSON(t, e, http.MethodPost, "/api/auth/signup", `{"name":"Alice","email":"Alice@Example.com","password":"pw1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "admin created successfully", body["message"])
	assert.NotEmpty(t, body["id"])

	rec, _ = doJSON(t, e, http.MethodPost, "/api/auth/signup", `{"name":"Alice2","email":"alice@example.com","password":"other"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body = doJSON(t, e, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", body["name"])
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["expires_at"])

	rec, body = doJSON(t, e, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid credentials", body["error"])

	rec, _ = doJSON(t, e, http.MethodPost, "/api/auth/login", `{"email":"ghost@example.com","password":"pw1"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, e, http.MethodPost, "/api/auth/signup", `{"email":"bob@example.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_EmployeeScenario(t *testing.T) {
	e := newTestRouter(t)
	token := signupAndLogin(t, e)

	rec, created := doJSON(t, e, http.MethodPost, "/api/employees",
		`{"name":"Bob","email":"b@x.com","role":"user","department":"Sales"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Bob", created["name"])
	assert.NotEmpty(t, created["created_at"])

	rec, _ = doJSON(t, e, http.MethodPost, "/api/employees",
		`{"name":"Bobby","email":"B@X.com","department":"Ops"}`, token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, updated := doJSON(t, e, http.MethodPut, "/api/employees/"+id, `{"department":"Marketing"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Marketing", updated["department"])
	assert.Equal(t, "Bob", updated["name"])
	assert.Equal(t, created["created_at"], updated["created_at"])
	assert.NotEqual(t, created["updated_at"], updated["updated_at"])

	req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	listRec := httptest.NewRecorder()
	e.ServeHTTP(listRec, req)
	require.Equal(t, http.StatusOK, listRec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "b@x.com", list[0]["email"])

	rec, deleted := doJSON(t, e, http.MethodDelete, "/api/employees/"+id, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, deleted["message"])

	rec, _ = doJSON(t, e, http.MethodGet, "/api/employees/"+id, "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, e, http.MethodDelete, "/api/employees/"+id, "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_EmployeeRoutesRequireToken(t *testing.T) {
	e := newTestRouter(t)

	now := time.Now()
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "acc-1",
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", expired} {
		for _, route := range []struct{ method, path string }{
			{http.MethodGet, "/api/employees"},
			{http.MethodPost, "/api/employees"},
			{http.MethodGet, "/api/employees/emp-1"},
			{http.MethodPut, "/api/employees/emp-1"},
			{http.MethodDelete, "/api/employees/emp-1"},
		} {
			rec, body := doJSON(t, e, route.method, route.path, "", token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
			assert.NotEmpty(t, body["error"])
		}
	}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	e := newTestRouter(t)

	rec, body := doJSON(t, e, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Employee Directory API is running", body["message"])

	rec, body = doJSON(t, e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, body = doJSON(t, e, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, _ = doJSON(t, e, http.MethodPost, "/api/auth/login", `{"email":"not-an-email","password":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "directory_auth_attempts_total")
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec, body = doJSON(t, e, http.MethodGet, "/does-not-exist", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, body["error"])
}

func TestRouter_RequestIDHeader(t *testing.T) {
	e := newTestRouter(t)

	rec, _ := doJSON(t, e, http.MethodGet, "/health", "", "")
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}
