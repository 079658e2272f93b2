package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthStatus represents the overall health of the system.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents the health of a single collaborator.
type ComponentHealth struct {
	Status    string  `json:"status"`
	Message   string  `json:"message,omitempty"`
	LatencyMs float64 `json:"latency_ms,omitempty"`
}

// Health is the complete health check response.
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// healthHandler reports the state of both external stores. Either store
// being down makes the whole service unhealthy: every operation touches
// at least one of them.
func healthHandler(conn *sql.DB, store *ObjectStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := Health{
			Status:     HealthStatusHealthy,
			Timestamp:  time.Now().UTC(),
			Components: make(map[string]ComponentHealth),
		}

		health.Components["database"] = checkComponent(func() error {
			return conn.PingContext(ctx)
		})
		health.Components["object_store"] = checkComponent(func() error {
			return store.Ping(ctx)
		})

		status := http.StatusOK
		for _, c := range health.Components {
			if c.Status != "up" {
				health.Status = HealthStatusUnhealthy
				status = http.StatusServiceUnavailable
				break
			}
		}

		writeJSON(w, status, health)
	})
}

func checkComponent(ping func() error) ComponentHealth {
	start := time.Now()
	if err := ping(); err != nil {
		return ComponentHealth{Status: "down", Message: err.Error()}
	}
	return ComponentHealth{
		Status:    "up",
		LatencyMs: float64(time.Since(start).Milliseconds()),
	}
}

// readyHandler is a readiness probe: can we query the database?
func readyHandler(conn *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		var result int
		if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// liveHandler is a liveness probe: the process is running.
func liveHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})
}
