package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esc-directory/consultants/internal/api/types"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthEndpoints(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	tests := []struct {
		name          string
		db            Pinger
		wantDB        string
		wantReadyCode int
	}{
		{name: "database up", db: pingerFunc(func(context.Context) error { return nil }), wantDB: "connected", wantReadyCode: http.StatusOK},
		{name: "database down", db: pingerFunc(func(context.Context) error { return errors.New("refused") }), wantDB: "disconnected", wantReadyCode: http.StatusServiceUnavailable},
		{name: "no database", db: nil, wantDB: "disconnected", wantReadyCode: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db)
			h.now = func() time.Time { return now }

			rr := httptest.NewRecorder()
			h.Liveness(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			require.Equal(t, http.StatusOK, rr.Code)

			var body types.HealthResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, types.HealthResponse{Status: "ok", Timestamp: "2024-05-06T07:08:09Z", Database: tt.wantDB}, body)

			rr = httptest.NewRecorder()
			h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.wantReadyCode, rr.Code)
		})
	}
}
