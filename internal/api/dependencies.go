package api

import (
	"errors"
	"time"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/config"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/metrics"
	"astra/telemetry-backend/internal/services"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Repositories struct {
	UserGorm  *repositories.UserRepositoryGORM
	Missions  *repositories.MissionRepository
	Flights   *repositories.FlightRepository
	Events    *repositories.FlightEventRepository
	Sessions  *repositories.SessionRepository
	Sensors   *repositories.SensorRepository
	Telemetry *repositories.TelemetryRepository
	Alerts    *repositories.AlertRepository
	Reporting *repositories.ReportingRepo
}

type Services struct {
	Cache     common.CacheInterface
	Tokens    *auth.TokenService
	Auth      *services.AuthService
	User      *services.UserService
	Missions  *services.MissionService
	Flights   *services.FlightService
	Sessions  *services.SessionService
	Sensors   *services.SensorService
	Telemetry *services.TelemetryService
	Alerts    *services.AlertService
	Reporting *services.ReportingService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	UpSince  time.Time

	// Pinger reports redis health; nil when the in-memory cache is used.
	Pinger CachePinger
}

// InitDependencies wires repositories and services over the given connections.
// cache backs both the statistics cache and the refresh-token blacklist.
func InitDependencies(
	cfg config.Config,
	gdb *gorm.DB,
	reporting *sqlx.DB,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	if cache == nil {
		return nil, errors.New("cache is required")
	}

	repos := &Repositories{
		UserGorm:  repositories.NewUserRepositoryGORM(gdb),
		Missions:  repositories.NewMissionRepository(gdb),
		Flights:   repositories.NewFlightRepository(gdb),
		Events:    repositories.NewFlightEventRepository(gdb),
		Sessions:  repositories.NewSessionRepository(gdb),
		Sensors:   repositories.NewSensorRepository(gdb),
		Telemetry: repositories.NewTelemetryRepository(gdb),
		Alerts:    repositories.NewAlertRepository(gdb),
		Reporting: repositories.NewReportingRepo(reporting, metricsReg),
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, cache)
	reportingSvc := services.NewReportingService(repos.Reporting, repos.Flights, cache, cfg.StatsCacheTTL, metricsReg)

	svcs := &Services{
		Cache:     cache,
		Tokens:    tokens,
		Auth:      services.NewAuthService(repos.UserGorm, tokens, metricsReg),
		User:      services.NewUserService(repos.UserGorm),
		Missions:  services.NewMissionService(repos.Missions, repos.UserGorm, reportingSvc),
		Flights:   services.NewFlightService(repos.Flights, repos.Events, repos.Missions, repos.UserGorm, metricsReg, reportingSvc),
		Sessions:  services.NewSessionService(repos.Sessions, repos.Flights, repos.Telemetry),
		Sensors:   services.NewSensorService(repos.Sensors, reportingSvc),
		Telemetry: services.NewTelemetryService(repos.Telemetry, repos.Sensors, metricsReg, reportingSvc),
		Alerts:    services.NewAlertService(repos.Alerts, repos.Sensors, repos.Telemetry, metricsReg, reportingSvc),
		Reporting: reportingSvc,
	}

	deps := &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
		UpSince:  time.Now(),
	}
	if p, ok := cache.(CachePinger); ok {
		deps.Pinger = p
	}
	return deps, nil
}
