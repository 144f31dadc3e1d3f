package rest

import (
	"context"
	"net/http"
	"time"
)

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// Check is an extra component reported by /health. Failing checks mark
// the service degraded but do not fail readiness.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db      dbPinger
	version string
	checks  []Check
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, version string, checks ...Check) *HealthHandler {
	return &HealthHandler{db: db, version: version, checks: checks}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings DB: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health reports every component with its latency. A down database is a
// 503; a failing extra check only degrades the status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus, len(h.checks)+1)
	overall := "ok"

	db := probe(ctx, h.db.Ping)
	components["database"] = db
	if db.Status != "ok" {
		overall = "down"
	}

	for _, c := range h.checks {
		st := probe(ctx, c.Ping)
		components[c.Name] = st
		if st.Status != "ok" && overall == "ok" {
			overall = "degraded"
		}
	}

	status := http.StatusOK
	if overall == "down" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func probe(ctx context.Context, ping func(context.Context) error) CompStatus {
	start := time.Now()
	if err := ping(ctx); err != nil {
		return CompStatus{Status: "down", Error: err.Error()}
	}
	return CompStatus{Status: "ok", Latency: time.Since(start).String()}
}
