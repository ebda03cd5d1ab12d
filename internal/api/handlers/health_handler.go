package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/esc-directory/consultants/internal/api/types"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

func (h *HealthHandler) dbStatus(ctx context.Context) string {
	if h.db == nil {
		return "disconnected"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}

// Liveness always answers 200; the database field reports store reachability.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Database:  h.dbStatus(r.Context()),
	})
}

// Readiness answers 503 until the database is reachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	db := h.dbStatus(r.Context())
	status, code := "ready", http.StatusOK
	if db != "connected" {
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	writeJSON(w, code, types.HealthResponse{
		Status:    status,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Database:  db,
	})
}
