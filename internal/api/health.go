package api

import (
	"context"
	"net/http"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/models/dtos"
)

// CachePinger is implemented by caches backed by a remote server.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Verifies the database (and redis when configured) are reachable.
// @Tags Misc
// @Success 200 {object} dtos.HealthCheckResponse
// @Failure 503 {object} dtos.HealthCheckResponse
// @Router /healthCheck [get]
func HealthCheckHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		services := make(map[string]dtos.ServiceStatus)

		dbStatus := dtos.ServiceStatus{Status: "ok", Details: "Database connected"}
		if err := deps.Services.Reporting.Ping(ctx); err != nil {
			dbStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["database"] = dbStatus

		if deps.Pinger != nil {
			redisStatus := dtos.ServiceStatus{Status: "ok", Details: "Redis connected"}
			if err := deps.Pinger.Ping(ctx); err != nil {
				redisStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
			}
			services["redis"] = redisStatus
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := dtos.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  deps.UpSince.UTC(),
			Uptime:   time.Since(deps.UpSince).Round(time.Second).String(),
		}

		if overallStatus != "ok" {
			common.RespondSuccess(w, initTime, "Service degraded", resp, http.StatusServiceUnavailable)
			return
		}
		common.RespondSuccess(w, initTime, "Service healthy", resp)
	}
}
