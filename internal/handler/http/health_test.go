package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"favorite-feed/internal/usecase/notify"
)

type stubChannelHealth []notify.ChannelHealthStatus

func (s stubChannelHealth) GetChannelHealth() []notify.ChannelHealthStatus { return s }

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthHandler_Database(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(sqlmock.Sqlmock)
		wantCode   int
		wantStatus string
	}{
		{
			name:       "healthy database",
			setupMock:  func(m sqlmock.Sqlmock) { m.ExpectPing() },
			wantCode:   http.StatusOK,
			wantStatus: statusHealthy,
		},
		{
			name:       "ping fails",
			setupMock:  func(m sqlmock.Sqlmock) { m.ExpectPing().WillReturnError(sql.ErrConnDone) },
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: statusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			fixed := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
			h := &HealthHandler{DB: db, Version: "test-version", Now: func() time.Time { return fixed }}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

			resp := decodeHealth(t, rec)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "test-version", resp.Version)
			assert.Equal(t, "2026-10-01T09:00:00Z", resp.Timestamp)
			assert.Equal(t, tt.wantStatus, resp.Checks["database"].Status)
			assert.NotContains(t, resp.Checks["database"].Message, "connection is already closed")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_NoDatabaseConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	(&HealthHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "not configured", resp.Checks["database"].Message)
}

func TestHealthHandler_PoolDetails(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(10)
	mock.ExpectPing()

	rec := httptest.NewRecorder()
	(&HealthHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	resp := decodeHealth(t, rec)
	details := resp.Checks["database"].Details
	require.NotNil(t, details)
	assert.Equal(t, float64(10), details["max_open_connections"])
	assert.Contains(t, details, "utilization_percent")
}

func TestHealthHandler_Notifications(t *testing.T) {
	tests := []struct {
		name       string
		channels   stubChannelHealth
		wantStatus string
	}{
		{
			name: "all closed",
			channels: stubChannelHealth{
				{Name: "webhook", Enabled: true, State: "closed"},
				{Name: "nats", Enabled: true, State: "closed"},
			},
			wantStatus: statusHealthy,
		},
		{
			name: "one open",
			channels: stubChannelHealth{
				{Name: "webhook", Enabled: true, CircuitBreakerOpen: true, State: "open"},
				{Name: "nats", Enabled: true, State: "closed"},
			},
			wantStatus: statusDegraded,
		},
		{
			name: "disabled channel ignored",
			channels: stubChannelHealth{
				{Name: "webhook", Enabled: false, CircuitBreakerOpen: true, State: "open"},
			},
			wantStatus: statusHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			mock.ExpectPing()

			rec := httptest.NewRecorder()
			(&HealthHandler{DB: db, Notify: tt.channels}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			// an open circuit never fails the probe
			assert.Equal(t, http.StatusOK, rec.Code)
			resp := decodeHealth(t, rec)
			assert.Equal(t, statusHealthy, resp.Status)
			assert.Equal(t, tt.wantStatus, resp.Checks["notifications"].Status)
		})
	}
}

func TestReadyHandler(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		wantCode  int
		wantBody  string
	}{
		{"ready", func(m sqlmock.Sqlmock) { m.ExpectPing() }, http.StatusOK, "ready"},
		{"not ready", func(m sqlmock.Sqlmock) { m.ExpectPing().WillReturnError(sql.ErrConnDone) }, http.StatusServiceUnavailable, "database not ready\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			rec := httptest.NewRecorder()
			(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReadyHandler_NoDatabaseConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	(&ReadyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database not configured")
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LiveHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}
