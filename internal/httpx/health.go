package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Check is a named readiness probe. A nil Probe always reports up.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type checkResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string        `json:"status"`
	Checks []checkResult `json:"checks"`
}

func HealthHandler(logger *slog.Logger, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: StatusUp, Checks: make([]checkResult, 0, len(checks))}
		for _, c := range checks {
			res := checkResult{Name: c.Name, Status: StatusUp}
			if c.Probe != nil {
				if err := c.Probe(ctx); err != nil {
					logger.WarnContext(ctx, "health check failed", "check", c.Name, "error", err)
					res.Status = StatusDown
					res.Error = err.Error()
					resp.Status = StatusDown
				}
			}
			resp.Checks = append(resp.Checks, res)
		}

		status := http.StatusOK
		if resp.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}
