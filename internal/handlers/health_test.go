package handlers

import (
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
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubPinger is a database.Pinger with a fixed result.
type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}

// stubCounter is a RecordCounter with a fixed result.
type stubCounter struct {
	n   int64
	err error
}

func (c stubCounter) Count(ctx context.Context) (int64, error) {
	return c.n, c.err
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealthHandler_Health(t *testing.T) {
	handler := NewHealthHandler(stubPinger{err: errors.New("down")}, nil, "test")

	router := gin.New()
	router.GET("/health", handler.Health)

	w := serve(router, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code, "Expected liveness to ignore the database")
	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, HealthResponse{Status: "healthy"}, response)
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedBody   ReadyResponse
	}{
		{
			name:           "database connected",
			expectedStatus: http.StatusOK,
			expectedBody:   ReadyResponse{Status: "ready", Database: "connected"},
		},
		{
			name:           "database down",
			pingErr:        errors.New("connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   ReadyResponse{Status: "not_ready", Database: "disconnected"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(stubPinger{err: tt.pingErr}, nil, "test")

			router := gin.New()
			router.GET("/health/ready", handler.Ready)

			w := serve(router, http.MethodGet, "/health/ready")

			assert.Equal(t, tt.expectedStatus, w.Code)
			var response ReadyResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.expectedBody, response)
		})
	}
}

func TestHealthHandler_Info(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		counter     RecordCounter
		wantRecords *int64
	}{
		{name: "with record count", env: "development", counter: stubCounter{n: 2232}, wantRecords: ptr(int64(2232))},
		{name: "count fails", env: "production", counter: stubCounter{err: errors.New("timeout")}},
		{name: "no counter", env: "test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &HealthHandler{
				db:        stubPinger{},
				counter:   tt.counter,
				startTime: time.Now().Add(-2 * time.Hour),
				env:       tt.env,
			}

			router := gin.New()
			router.GET("/api/v1/info", handler.Info)

			w := serve(router, http.MethodGet, "/api/v1/info")

			assert.Equal(t, http.StatusOK, w.Code)
			var response InfoResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, APIVersion, response.Version)
			assert.Equal(t, tt.env, response.Environment)
			assert.Contains(t, response.Uptime, "2h")
			assert.Equal(t, tt.wantRecords, response.Records)
		})
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"formats seconds only", 45 * time.Second, "0h 0m 45s"},
		{"formats minutes and seconds", 5*time.Minute + 30*time.Second, "0h 5m 30s"},
		{"formats hours, minutes and seconds", 2*time.Hour + 15*time.Minute + 45*time.Second, "2h 15m 45s"},
		{"formats days", 3*24*time.Hour + 5*time.Hour + 30*time.Minute + 15*time.Second, "3d 5h 30m 15s"},
		{"formats exactly one day", 24 * time.Hour, "1d 0h 0m 0s"},
		{"formats zero duration", 0, "0h 0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatUptime(tt.duration))
		})
	}
}

func TestInfoResponse_JSON(t *testing.T) {
	data, err := json.Marshal(InfoResponse{Version: "0.1.0", Environment: "test", Uptime: "1h 30m 45s"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"0.1.0","environment":"test","uptime":"1h 30m 45s"}`, string(data))
}

func ptr[T any](v T) *T {
	return &v
}
