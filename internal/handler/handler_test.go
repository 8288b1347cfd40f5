package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faceattend/internal/account"
	"faceattend/internal/auth"
	"faceattend/internal/directory"
	"faceattend/internal/ledger"
	"faceattend/internal/notify"
)

// In-memory stores so the whole HTTP surface can be exercised without
// Postgres.

type memAccounts struct {
	accounts map[string]account.Account
}

func (m *memAccounts) Insert(_ context.Context, a account.Account) (account.Account, error) {
	for _, other := range m.accounts {
		if strings.EqualFold(other.Email, a.Email) {
			return account.Account{}, account.ErrEmailTaken
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.accounts[a.ID] = a
	return a, nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (m *memAccounts) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

type memEmployees struct {
	employees map[string]directory.Employee
}

func (m *memEmployees) Insert(_ context.Context, e directory.Employee) (directory.Employee, error) {
	e.ID = uuid.NewString()
	e.IsActive = true
	e.CreatedAt = time.Now()
	m.employees[e.ID] = e
	return e, nil
}

func (m *memEmployees) ExistsByEmail(_ context.Context, companyID, email string) (bool, error) {
	for _, e := range m.employees {
		if e.CompanyID == companyID && strings.EqualFold(e.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memEmployees) List(_ context.Context, companyID string, withEncodings bool) ([]directory.Employee, error) {
	var out []directory.Employee
	for _, e := range m.employees {
		if e.CompanyID != companyID {
			continue
		}
		if !withEncodings {
			e.Encoding = nil
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memEmployees) Get(_ context.Context, companyID, id string) (directory.Employee, error) {
	e, ok := m.employees[id]
	if !ok || e.CompanyID != companyID {
		return directory.Employee{}, directory.ErrNotFound
	}
	return e, nil
}

func (m *memEmployees) Update(_ context.Context, companyID, id string, name, email, department, position *string) (directory.Employee, error) {
	e, ok := m.employees[id]
	if !ok || e.CompanyID != companyID {
		return directory.Employee{}, directory.ErrNotFound
	}
	if name != nil {
		e.Name = *name
	}
	if email != nil {
		e.Email = *email
	}
	if department != nil {
		e.Department = *department
	}
	if position != nil {
		e.Position = *position
	}
	m.employees[id] = e
	return e, nil
}

func (m *memEmployees) Delete(_ context.Context, companyID, id string) error {
	e, ok := m.employees[id]
	if !ok || e.CompanyID != companyID {
		return directory.ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *memEmployees) SetLastAttendance(_ context.Context, companyID, id string, t time.Time) error {
	e, ok := m.employees[id]
	if !ok || e.CompanyID != companyID {
		return directory.ErrNotFound
	}
	e.LastAttendance = &t
	m.employees[id] = e
	return nil
}

type memLedger struct {
	records []ledger.Record
}

func (m *memLedger) FindInWindow(_ context.Context, companyID, employeeID string, start, end time.Time) (*ledger.Record, error) {
	for i := range m.records {
		r := m.records[i]
		if r.CompanyID == companyID && r.EmployeeID == employeeID &&
			!r.Date.Before(start) && r.Date.Before(end) {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memLedger) Insert(_ context.Context, rec ledger.Record) (ledger.Record, error) {
	rec.ID = uuid.NewString()
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memLedger) ListSince(_ context.Context, companyID string, since time.Time) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, r := range m.records {
		if r.CompanyID == companyID && !r.Date.Before(since) {
			out = append(out, ledger.Entry{Record: r})
		}
	}
	return out, nil
}

func (m *memLedger) ListAll(_ context.Context, companyID string) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, r := range m.records {
		if r.CompanyID == companyID {
			out = append(out, ledger.Entry{Record: r})
		}
	}
	return out, nil
}

type testAPI struct {
	router *gin.Engine
	ledger *memLedger
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accounts := account.NewService(&memAccounts{accounts: map[string]account.Account{}}, []string{"admin", "teacher", "student"})
	employees := directory.NewService(&memEmployees{employees: map[string]directory.Employee{}})
	records := &memLedger{}
	attendance := ledger.NewService(records, employees)
	tokens := auth.NewTokenService("test-secret", time.Hour)

	h := New(accounts, employees, attendance, tokens, notify.NewInMemory(8), zap.NewNop(), false)

	r := gin.New()
	h.Routes(r, auth.RequireAccount(tokens, accounts))
	return &testAPI{router: r, ledger: records}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func encoding128() []float64 {
	enc := make([]float64, 128)
	for i := range enc {
		enc[i] = float64(i) * 0.01
	}
	return enc
}

func registerAdmin(t *testing.T, api *testAPI, email string) string {
	t.Helper()
	w := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Admin", "email": email, "password": "secret1", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAttendanceScenario(t *testing.T) {
	api := newTestAPI(t)

	// Register the Acme admin and get a token.
	token := registerAdmin(t, api, "a@acme.com")

	// Register Jane with a 128-length descriptor.
	w := api.do(t, http.MethodPost, "/api/employees/register", token, gin.H{
		"name": "Jane", "email": "jane@acme.com", "encoding": encoding128(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	emp := decode(t, w)["employee"].(map[string]any)
	janeID := emp["_id"].(string)
	assert.Equal(t, "Unassigned", emp["department"])
	assert.True(t, strings.HasPrefix(emp["employeeId"].(string), "ACM"))

	// First mark creates a record.
	w = api.do(t, http.MethodPost, "/api/attendance", token, gin.H{"employeeId": janeID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Second mark the same day is a success flagged as already marked.
	w = api.do(t, http.MethodPost, "/api/attendance", token, gin.H{"employeeId": janeID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "already marked")

	assert.Len(t, api.ledger.records, 1, "exactly one persisted record for Jane today")

	// Today's list shows the single record.
	w = api.do(t, http.MethodGet, "/api/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)
}

func TestEmployeeEndpointsAreTenantScoped(t *testing.T) {
	api := newTestAPI(t)

	acmeToken := registerAdmin(t, api, "a@acme.com")
	globexToken := registerAdmin(t, api, "b@globex.com")

	w := api.do(t, http.MethodPost, "/api/employees/register", acmeToken, gin.H{
		"name": "Jane", "email": "jane@acme.com", "encoding": encoding128(),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	janeID := decode(t, w)["employee"].(map[string]any)["_id"].(string)

	// Another tenant's id reads as absent, never as the record.
	for _, probe := range []struct{ method, path string }{
		{http.MethodGet, "/api/employees/" + janeID},
		{http.MethodPut, "/api/employees/" + janeID},
		{http.MethodDelete, "/api/employees/" + janeID},
	} {
		var body any
		if probe.method == http.MethodPut {
			body = gin.H{"name": "Hijack"}
		}
		w := api.do(t, probe.method, probe.path, globexToken, body)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", probe.method, probe.path)
	}

	w = api.do(t, http.MethodPost, "/api/attendance", globexToken, gin.H{"employeeId": janeID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Globex sees an empty directory.
	w = api.do(t, http.MethodGet, "/api/employees", globexToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestRegisterEmployeeValidation(t *testing.T) {
	api := newTestAPI(t)
	token := registerAdmin(t, api, "a@acme.com")

	// Wrong descriptor length is rejected.
	w := api.do(t, http.MethodPost, "/api/employees/register", token, gin.H{
		"name": "Jane", "email": "jane@acme.com", "encoding": make([]float64, 64),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate (tenant, email) is a conflict.
	w = api.do(t, http.MethodPost, "/api/employees/register", token, gin.H{
		"name": "Jane", "email": "jane@acme.com", "encoding": encoding128(),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = api.do(t, http.MethodPost, "/api/employees/register", token, gin.H{
		"name": "Jane 2", "email": "jane@acme.com", "encoding": encoding128(),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	// Duplicate account email.
	registerAdmin(t, api, "a@acme.com")
	w := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Admin Again", "email": "a@acme.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong password.
	w = api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "a@acme.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Good login returns a usable token with tenant fields on the profile.
	w = api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "a@acme.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	w = api.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.Equal(t, "acme", profile["companyId"])
	assert.NotContains(t, w.Body.String(), "password")

	// Protected routes without a token.
	w = api.do(t, http.MethodGet, "/api/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotifyEnqueues(t *testing.T) {
	api := newTestAPI(t)
	token := registerAdmin(t, api, "a@acme.com")

	w := api.do(t, http.MethodPost, "/api/notify", token, gin.H{
		"email": "jane@acme.com", "message": "you were marked present",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, "/api/notify", token, gin.H{"email": "jane@acme.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
