package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/metrics"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db *gorm.DB

	users     *repositories.UserRepositoryGORM
	missions  *repositories.MissionRepository
	flights   *repositories.FlightRepository
	events    *repositories.FlightEventRepository
	sessions  *repositories.SessionRepository
	sensors   *repositories.SensorRepository
	telemetry *repositories.TelemetryRepository
	alerts    *repositories.AlertRepository

	userSvc      *UserService
	missionSvc   *MissionService
	flightSvc    *FlightService
	sessionSvc   *SessionService
	sensorSvc    *SensorService
	telemetrySvc *TelemetryService
	alertSvc     *AlertService
	reportingSvc *ReportingService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	sqlxDB, err := db.WrapSQLite(gdb)
	require.NoError(t, err)

	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	e := &testEnv{
		db:        gdb,
		users:     repositories.NewUserRepositoryGORM(gdb),
		missions:  repositories.NewMissionRepository(gdb),
		flights:   repositories.NewFlightRepository(gdb),
		events:    repositories.NewFlightEventRepository(gdb),
		sessions:  repositories.NewSessionRepository(gdb),
		sensors:   repositories.NewSensorRepository(gdb),
		telemetry: repositories.NewTelemetryRepository(gdb),
		alerts:    repositories.NewAlertRepository(gdb),
	}

	e.reportingSvc = NewReportingService(
		repositories.NewReportingRepo(sqlxDB, m),
		e.flights,
		common.NewCacheService(time.Minute, time.Minute),
		time.Minute,
		m,
	)
	e.userSvc = NewUserService(e.users)
	e.missionSvc = NewMissionService(e.missions, e.users, e.reportingSvc)
	e.flightSvc = NewFlightService(e.flights, e.events, e.missions, e.users, m, e.reportingSvc)
	e.sessionSvc = NewSessionService(e.sessions, e.flights, e.telemetry)
	e.sensorSvc = NewSensorService(e.sensors, e.reportingSvc)
	e.telemetrySvc = NewTelemetryService(e.telemetry, e.sensors, m, e.reportingSvc)
	e.alertSvc = NewAlertService(e.alerts, e.sensors, e.telemetry, m, e.reportingSvc)
	return e
}

func (e *testEnv) createUser(t *testing.T, username string, role constants.Role) gormModels.User {
	t.Helper()

	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	u := &gormModels.User{
		Username:     username,
		Email:        username + "@astra.test",
		FirstName:    username,
		LastName:     "Tester",
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return *u
}

func (e *testEnv) createMission(t *testing.T, owner gormModels.User) uint {
	t.Helper()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	m := &gormModels.Mission{
		Name:         "Survey " + owner.Username,
		Status:       constants.MissionActive,
		Priority:     constants.PriorityMedium,
		PlannedStart: start,
		PlannedEnd:   start.Add(48 * time.Hour),
		CreatedByID:  owner.ID,
	}
	require.NoError(t, e.missions.Create(context.Background(), m, nil))
	return m.ID
}

func (e *testEnv) createFlight(t *testing.T, missionID, pilotID uint, number string, departure time.Time) uint {
	t.Helper()

	f := &gormModels.Flight{
		MissionID:           missionID,
		FlightNumber:        number,
		AircraftID:          "UAV-01",
		PilotID:             pilotID,
		Status:              constants.FlightPreFlight,
		DepartureLocation:   "Base A",
		DestinationLocation: "Base B",
		PlannedDeparture:    departure.UTC(),
		PlannedArrival:      departure.UTC().Add(2 * time.Hour),
	}
	require.NoError(t, e.flights.Create(context.Background(), f))
	return f.ID
}

func (e *testEnv) createSensor(t *testing.T, name string, lo, hi *float64) gormModels.Sensor {
	t.Helper()

	s := &gormModels.Sensor{
		Name:       name,
		SensorType: constants.SensorTemperature,
		Unit:       "C",
		MinValue:   lo,
		MaxValue:   hi,
		IsActive:   true,
	}
	require.NoError(t, e.sensors.Create(context.Background(), s))
	return *s
}

func claimsFor(u gormModels.User) auth.UserClaims {
	return auth.NewJWTClaims(u, fmt.Sprintf("test-%d", u.ID))
}

func ptr[T any](v T) *T { return &v }
