package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	"github.com/BruksfildServices01/slot-scheduler/internal/handlers"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/identity"
	"github.com/BruksfildServices01/slot-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuditLogs struct {
	filter audit.Filter
}

func (s *stubAuditLogs) List(_ context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	s.filter = f
	return []models.AuditLog{{ID: 1, Action: audit.ActionAppointmentBooked}}, 1, nil
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	tokens *identity.Tokens
	logs   *stubAuditLogs
}

func newServer(t *testing.T, checks map[string]handlers.Pinger) *server {
	t.Helper()

	store := memory.NewProviderStore()
	dispatcher := audit.NewDispatcher()
	t.Cleanup(func() { _ = dispatcher.Close(context.Background()) })

	s := &server{
		t:      t,
		engine: gin.New(),
		tokens: identity.NewTokens("test-secret", time.Hour),
		logs:   &stubAuditLogs{},
	}

	require.NoError(t, RegisterRoutes(s.engine, Dependencies{
		Providers:    store,
		Calendar:     store,
		Ledger:       memory.NewLedger(),
		Audit:        dispatcher,
		Tokens:       s.tokens,
		Clock:        timezone.Fixed(time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)),
		AuditLogs:    s.logs,
		HealthChecks: checks,
	}))
	return s
}

func (s *server) token(subject, role string) string {
	tok, err := s.tokens.Issue(subject, role)
	require.NoError(s.t, err)
	return tok
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[httperr.HTTPError](t, w).Code
}

func (s *server) createProvider(admin string) {
	w := s.do(http.MethodPost, "/api/providers", admin, map[string]any{
		"id":         "P1",
		"name":       "Dr. Ana",
		"speciality": "Dermatology",
		"fee":        "150.00",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
}

func TestBookCancelOverHTTP(t *testing.T) {
	s := newServer(t, nil)
	admin := s.token("ops", identity.RoleAdmin)
	u1 := s.token("U1", "")
	u2 := s.token("U2", "")
	s.createProvider(admin)

	book := map[string]string{"provider_id": "P1", "date": "2024-06-01", "time": "10:00"}

	w := s.do(http.MethodPost, "/api/appointments", u1, book)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	a1 := decode[map[string]string](t, w)["appointment_id"]
	require.NotEmpty(t, a1)

	w = s.do(http.MethodGet, "/api/providers/P1/slots?date=2024-06-01", u1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"10:00"}, decode[map[string]any](t, w)["booked"])

	w = s.do(http.MethodPost, "/api/appointments", u2, book)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, httperr.CodeAlreadyBooked, errorCode(t, w))

	w = s.do(http.MethodPost, "/api/appointments/"+a1+"/cancel", u2, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, httperr.CodeUnauthorized, errorCode(t, w))

	w = s.do(http.MethodGet, "/api/appointments/"+a1, u2, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/appointments/"+a1+"/cancel", u1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/appointments/"+a1+"/cancel", u1, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, httperr.CodeAlreadyCancelled, errorCode(t, w))

	w = s.do(http.MethodGet, "/api/providers/P1/slots?date=2024-06-01", u1, nil)
	assert.Equal(t, []any{}, decode[map[string]any](t, w)["booked"])

	w = s.do(http.MethodPost, "/api/appointments", u1, book)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/appointments", u1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Data []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Fee    string `json:"fee"`
		} `json:"data"`
		Total int `json:"total"`
	}](t, w)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, a1, list.Data[1].ID)
	assert.Equal(t, "cancelled", list.Data[1].Status)
	assert.Equal(t, "active", list.Data[0].Status)
	assert.Equal(t, "150.00", list.Data[0].Fee)
}

func TestBookValidationAndErrors(t *testing.T) {
	s := newServer(t, nil)
	admin := s.token("ops", identity.RoleAdmin)
	u1 := s.token("U1", "")
	s.createProvider(admin)

	tests := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{"missing provider id", map[string]string{"date": "2024-06-01", "time": "10:00"}, http.StatusBadRequest, httperr.CodeInvalidRequest},
		{"bad date", map[string]string{"provider_id": "P1", "date": "2024-02-30", "time": "10:00"}, http.StatusBadRequest, httperr.CodeInvalidRequest},
		{"bad time", map[string]string{"provider_id": "P1", "date": "2024-06-01", "time": "25:00"}, http.StatusBadRequest, httperr.CodeInvalidRequest},
		{"unknown provider", map[string]string{"provider_id": "P9", "date": "2024-06-01", "time": "10:00"}, http.StatusNotFound, httperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/appointments", u1, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	w := s.do(http.MethodPost, "/api/appointments", "", map[string]string{"provider_id": "P1", "date": "2024-06-01", "time": "10:00"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPatch, "/api/providers/P1/availability", admin, map[string]bool{"available": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/appointments", u1, map[string]string{"provider_id": "P1", "date": "2024-06-01", "time": "10:00"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, httperr.CodeProviderUnavailable, errorCode(t, w))
}

func TestProviderAdmin(t *testing.T) {
	s := newServer(t, nil)
	admin := s.token("ops", identity.RoleAdmin)
	u1 := s.token("U1", "")

	w := s.do(http.MethodPost, "/api/providers", u1, map[string]any{"id": "P1", "name": "x", "fee": "1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, httperr.CodeForbidden, errorCode(t, w))

	w = s.do(http.MethodPost, "/api/providers", admin, map[string]any{"id": "P1", "name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.createProvider(admin)

	w = s.do(http.MethodPost, "/api/appointments", u1, map[string]string{"provider_id": "P1", "date": "2024-06-01", "time": "10:00"})
	require.Equal(t, http.StatusCreated, w.Code)
	a1 := decode[map[string]string](t, w)["appointment_id"]

	w = s.do(http.MethodPatch, "/api/providers/P1/fee", admin, map[string]any{"fee": "200.50"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, "/api/providers/P1/fee", admin, map[string]any{"fee": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/providers/P1", u1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "200.50", decode[map[string]any](t, w)["fee"])

	// existing appointments keep the fee they were booked with
	w = s.do(http.MethodGet, "/api/appointments/"+a1, u1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "150.00", decode[map[string]any](t, w)["fee"])

	w = s.do(http.MethodPatch, "/api/providers/P9/availability", admin, map[string]bool{"available": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/providers/P1/slots?date=june", u1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLogs(t *testing.T) {
	s := newServer(t, nil)
	admin := s.token("ops", identity.RoleAdmin)

	w := s.do(http.MethodGet, "/api/audit-logs?provider_id=P1&from=2024-06-01&to=2024-06-02&limit=500", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "P1", s.logs.filter.ProviderID)
	assert.Equal(t, 50, s.logs.filter.Limit)
	assert.Equal(t, 1, s.logs.filter.Page)
	require.NotNil(t, s.logs.filter.To)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), *s.logs.filter.To)

	w = s.do(http.MethodGet, "/api/audit-logs?from=yesterday", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/audit-logs", s.token("U1", ""), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealth(t *testing.T) {
	s := newServer(t, map[string]handlers.Pinger{
		"db": handlers.PingFunc(func(context.Context) error { return nil }),
	})
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s = newServer(t, map[string]handlers.Pinger{
		"redis": handlers.PingFunc(func(context.Context) error { return errors.New("down") }),
	})
	w = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "down", decode[map[string]any](t, w)["checks"].(map[string]any)["redis"])
}
