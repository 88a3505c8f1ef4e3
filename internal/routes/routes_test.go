package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"astra/telemetry-backend/internal/api"
	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/config"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db"
	"astra/telemetry-backend/internal/metrics"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "s3cret-pass"

type apiEnv struct {
	t       *testing.T
	db      *gorm.DB
	deps    *api.Dependencies
	handler http.Handler
}

// envelope mirrors dtos.APIResponse with a raw payload so each test can
// decode the data it expects.
type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	reporting, err := db.WrapSQLite(gdb)
	require.NoError(t, err)

	cfg := config.Config{
		AppEnv:             "test",
		DBDriver:           config.DriverSQLite,
		JWTSecret:          "test-secret",
		AccessTTL:          15 * time.Minute,
		RefreshTTL:         time.Hour,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		LoginRateLimit:     100,
		LoginRateBurst:     100,
		StatsCacheTTL:      time.Minute,
	}

	cache := common.NewCacheService(time.Minute, time.Minute)
	deps, err := api.InitDependencies(cfg, gdb, reporting, cache, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)

	return &apiEnv{t: t, db: gdb, deps: deps, handler: RegisterRoutes(cfg, deps)}
}

func (e *apiEnv) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		require.NoError(e.t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	}
	return rr, env
}

func (e *apiEnv) createUser(username string, role constants.Role) uint {
	e.t.Helper()

	u, err := e.deps.Services.User.Create(context.Background(), dtos.CreateUserReq{
		Username:        username,
		Email:           username + "@astra.test",
		FirstName:       username,
		LastName:        "Tester",
		Role:            role,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.NoError(e.t, err)
	return u.ID
}

func (e *apiEnv) login(username string) dtos.LoginResponse {
	e.t.Helper()

	rr, env := e.do(http.MethodPost, "/api/v1/auth/login", "", dtos.LoginReq{
		Email:    username + "@astra.test",
		Password: testPassword,
	})
	require.Equal(e.t, http.StatusOK, rr.Code, rr.Body.String())

	var resp dtos.LoginResponse
	require.NoError(e.t, json.Unmarshal(env.Data, &resp))
	return resp
}

func missionBody(name string) dtos.MissionReq {
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	return dtos.MissionReq{Name: name, PlannedStart: &start, PlannedEnd: &end}
}

func flightBody(missionID, pilotID uint, number string) dtos.FlightReq {
	dep := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	arr := dep.Add(90 * time.Minute)
	aircraft, from, to := "UAV-07", "North field", "South field"
	return dtos.FlightReq{
		Mission:             &missionID,
		FlightNumber:        &number,
		AircraftID:          &aircraft,
		Pilot:               &pilotID,
		DepartureLocation:   &from,
		DestinationLocation: &to,
		PlannedDeparture:    &dep,
		PlannedArrival:      &arr,
	}
}

func TestHealthCheck(t *testing.T) {
	e := newAPIEnv(t)

	rr, env := e.do(http.MethodGet, "/healthCheck", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var health dtos.HealthCheckResponse
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Services["database"].Status)
	assert.NotContains(t, health.Services, "redis")
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	e := newAPIEnv(t)

	rr, env := e.do(http.MethodGet, "/api/v1/flights/flights", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "error", env.Status)

	rr, _ = e.do(http.MethodGet, "/api/v1/flights/flights", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginAndCurrentUser(t *testing.T) {
	e := newAPIEnv(t)
	e.createUser("nadia", constants.RoleOperator)

	tokens := e.login("nadia")
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)
	assert.Equal(t, "nadia", tokens.User.Username)
	assert.NotNil(t, tokens.User.LastLogin)

	rr, env := e.do(http.MethodGet, "/api/v1/auth/profile", tokens.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var me dtos.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, constants.RoleOperator, me.Role)

	rr, _ = e.do(http.MethodPost, "/api/v1/auth/login", "", dtos.LoginReq{Email: "nadia@astra.test", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, env = e.do(http.MethodPost, "/api/v1/auth/login", "", dtos.LoginReq{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, env.Errors, "non_field_errors")
}

func TestInactiveUserCannotLogin(t *testing.T) {
	e := newAPIEnv(t)
	id := e.createUser("idle", constants.RoleViewer)
	require.NoError(t, e.db.Model(&gormModels.User{}).Where("id = ?", id).Update("is_active", false).Error)

	rr, _ := e.do(http.MethodPost, "/api/v1/auth/login", "", dtos.LoginReq{Email: "idle@astra.test", Password: testPassword})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	e := newAPIEnv(t)
	e.createUser("ops", constants.RoleOperator)
	tokens := e.login("ops")

	// an access token is not a refresh token
	rr, _ := e.do(http.MethodPost, "/api/v1/auth/refresh", "", dtos.RefreshReq{Refresh: tokens.Access})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, env := e.do(http.MethodPost, "/api/v1/auth/refresh", "", dtos.RefreshReq{Refresh: tokens.Refresh})
	require.Equal(t, http.StatusOK, rr.Code)
	var refreshed dtos.RefreshResponse
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))
	assert.NotEmpty(t, refreshed.Access)

	rr, _ = e.do(http.MethodPost, "/api/v1/auth/logout", tokens.Access, dtos.RefreshReq{Refresh: tokens.Refresh})
	require.Equal(t, http.StatusOK, rr.Code)

	rr, _ = e.do(http.MethodPost, "/api/v1/auth/refresh", "", dtos.RefreshReq{Refresh: tokens.Refresh})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogoutRejectsAnotherUsersToken(t *testing.T) {
	e := newAPIEnv(t)
	e.createUser("alice", constants.RoleViewer)
	e.createUser("bob", constants.RoleViewer)
	alice := e.login("alice")
	bob := e.login("bob")

	rr, _ := e.do(http.MethodPost, "/api/v1/auth/logout", alice.Access, dtos.RefreshReq{Refresh: bob.Refresh})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = e.do(http.MethodPost, "/api/v1/auth/refresh", "", dtos.RefreshReq{Refresh: bob.Refresh})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestViewerCannotWrite(t *testing.T) {
	e := newAPIEnv(t)
	viewerID := e.createUser("watcher", constants.RoleViewer)
	viewer := e.login("watcher")

	rr, _ := e.do(http.MethodPost, "/api/v1/flights/missions", viewer.Access, missionBody("Denied"))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	var count int64
	require.NoError(t, e.db.Model(&gormModels.Mission{}).Count(&count).Error)
	assert.Zero(t, count)

	rr, _ = e.do(http.MethodPost, "/api/v1/telemetry/sensors", viewer.Access, dtos.SensorReq{Name: "x", SensorType: constants.SensorGPS})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	require.NoError(t, e.db.Model(&gormModels.Sensor{}).Count(&count).Error)
	assert.Zero(t, count)

	// a valid flight body against a real mission is still refused
	e.createUser("ops", constants.RoleOperator)
	ops := e.login("ops")
	rr, env := e.do(http.MethodPost, "/api/v1/flights/missions", ops.Access, missionBody("Allowed"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var mission dtos.MissionResponse
	require.NoError(t, json.Unmarshal(env.Data, &mission))

	rr, _ = e.do(http.MethodPost, "/api/v1/flights/flights", viewer.Access, flightBody(mission.ID, viewerID, "V-001"))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	require.NoError(t, e.db.Model(&gormModels.Flight{}).Count(&count).Error)
	assert.Zero(t, count)

	// reads stay open to every authenticated role
	rr, _ = e.do(http.MethodGet, "/api/v1/flights/missions", viewer.Access, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestOperatorCannotDelete(t *testing.T) {
	e := newAPIEnv(t)
	e.createUser("ops", constants.RoleOperator)
	ops := e.login("ops")

	rr, env := e.do(http.MethodPost, "/api/v1/flights/missions", ops.Access, missionBody("Coastal survey"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var mission dtos.MissionResponse
	require.NoError(t, json.Unmarshal(env.Data, &mission))
	assert.Equal(t, constants.MissionPlanned, mission.Status)

	rr, _ = e.do(http.MethodDelete, fmt.Sprintf("/api/v1/flights/missions/%d", mission.ID), ops.Access, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = e.do(http.MethodGet, fmt.Sprintf("/api/v1/flights/missions/%d", mission.ID), ops.Access, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminUserManagement(t *testing.T) {
	e := newAPIEnv(t)
	e.createUser("root", constants.RoleAdmin)
	admin := e.login("root")

	rr, env := e.do(http.MethodPost, "/api/v1/auth/users", admin.Access, dtos.CreateUserReq{
		Username:        "pilot1",
		Email:           "pilot1@astra.test",
		FirstName:       "Pia",
		LastName:        "Lot",
		Role:            constants.RoleOperator,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, string(env.Data), "password")

	var created dtos.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rr, env = e.do(http.MethodGet, fmt.Sprintf("/api/v1/auth/users/%d", created.ID), admin.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, string(env.Data), "password")
	var fetched dtos.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, "pilot1@astra.test", fetched.Email)

	rr, env = e.do(http.MethodPost, "/api/v1/auth/users", admin.Access, dtos.CreateUserReq{
		Username: "pilot2", Email: "bad", Password: "short", PasswordConfirm: "other",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, env.Errors, "email")

	rr, _ = e.do(http.MethodGet, "/api/v1/auth/users/9999", admin.Access, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr, _ = e.do(http.MethodGet, "/api/v1/auth/users/abc", admin.Access, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	e := newAPIEnv(t)
	e.createUser("root", constants.RoleAdmin)
	victimID := e.createUser("leaver", constants.RoleViewer)
	admin := e.login("root")
	victim := e.login("leaver")

	rr, _ := e.do(http.MethodDelete, fmt.Sprintf("/api/v1/auth/users/%d", victimID), admin.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, _ = e.do(http.MethodGet, "/api/v1/auth/profile", victim.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUserCanUpdateSelfButNotOthers(t *testing.T) {
	e := newAPIEnv(t)
	selfID := e.createUser("self", constants.RoleViewer)
	otherID := e.createUser("other", constants.RoleViewer)
	tokens := e.login("self")

	dept := "Ground ops"
	rr, _ := e.do(http.MethodPut, fmt.Sprintf("/api/v1/auth/users/%d", selfID), tokens.Access, dtos.UpdateUserReq{Department: &dept})
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, _ = e.do(http.MethodPut, fmt.Sprintf("/api/v1/auth/users/%d", otherID), tokens.Access, dtos.UpdateUserReq{Department: &dept})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestFlightStatusEndpoint(t *testing.T) {
	e := newAPIEnv(t)
	pilotID := e.createUser("ops", constants.RoleOperator)
	ops := e.login("ops")

	rr, env := e.do(http.MethodPost, "/api/v1/flights/missions", ops.Access, missionBody("Ridge patrol"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var mission dtos.MissionResponse
	require.NoError(t, json.Unmarshal(env.Data, &mission))

	rr, env = e.do(http.MethodPost, "/api/v1/flights/flights", ops.Access, flightBody(mission.ID, pilotID, "RP-001"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var flight dtos.FlightResponse
	require.NoError(t, json.Unmarshal(env.Data, &flight))
	assert.Equal(t, constants.FlightPreFlight, flight.Status)

	statusURL := fmt.Sprintf("/api/v1/flights/flights/%d/status", flight.ID)

	// pre_flight cannot jump to landed
	rr, _ = e.do(http.MethodPatch, statusURL, ops.Access, dtos.FlightStatusReq{Status: constants.FlightLanded})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = e.do(http.MethodPatch, statusURL, ops.Access, dtos.FlightStatusReq{Status: constants.FlightActive, Notes: "wheels up"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, env = e.do(http.MethodGet, fmt.Sprintf("/api/v1/flights/flights/%d", flight.ID), ops.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &flight))
	assert.Equal(t, constants.FlightActive, flight.Status)
	assert.NotNil(t, flight.ActualDeparture)
	assert.Contains(t, flight.Notes, "wheels up")

	// duplicate flight numbers are a validation error
	rr, env = e.do(http.MethodPost, "/api/v1/flights/flights", ops.Access, flightBody(mission.ID, pilotID, "RP-001"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, env.Errors, "flight_number")
}

func TestHistoryRejectsBadPage(t *testing.T) {
	e := newAPIEnv(t)
	e.createUser("watcher", constants.RoleViewer)
	viewer := e.login("watcher")

	for _, page := range []string{"0", "-1", "abc"} {
		rr, env := e.do(http.MethodGet, "/api/v1/flights/history?page="+page, viewer.Access, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, page)
		assert.Contains(t, env.Errors, "page")
	}

	rr, env := e.do(http.MethodGet, "/api/v1/flights/history", viewer.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var history dtos.HistoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, 1, history.Page)
	assert.Zero(t, history.Count)

	rr, _ = e.do(http.MethodGet, "/api/v1/flights/history?start_date=2026-13-01", viewer.Access, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTelemetryIngestAndAcknowledge(t *testing.T) {
	e := newAPIEnv(t)
	e.createUser("ops", constants.RoleOperator)
	ops := e.login("ops")

	minV, maxV := 0.0, 100.0
	rr, env := e.do(http.MethodPost, "/api/v1/telemetry/sensors", ops.Access, dtos.SensorReq{
		Name: "Cabin temp", SensorType: constants.SensorTemperature, Unit: "C", MinValue: &minV, MaxValue: &maxV,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var sensor dtos.SensorResponse
	require.NoError(t, json.Unmarshal(env.Data, &sensor))

	value := 120.0
	rr, env = e.do(http.MethodPost, "/api/v1/telemetry/data", ops.Access, dtos.TelemetryDataReq{Sensor: sensor.ID, Value: &value})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var ingest dtos.TelemetryIngestResponse
	require.NoError(t, json.Unmarshal(env.Data, &ingest))
	assert.Equal(t, constants.QualityCritical, ingest.Quality)
	require.NotNil(t, ingest.Alert)

	rr, env = e.do(http.MethodGet, "/api/v1/telemetry/alerts?is_acknowledged=false", ops.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var alerts []dtos.AlertResponse
	require.NoError(t, json.Unmarshal(env.Data, &alerts))
	require.Len(t, alerts, 1)

	ids := []uint{alerts[0].ID}
	rr, env = e.do(http.MethodPost, "/api/v1/telemetry/alerts/acknowledge", ops.Access, dtos.AcknowledgeReq{AlertIDs: &ids})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "1 alerts acknowledged", env.Message)

	rr, env = e.do(http.MethodPost, "/api/v1/telemetry/alerts/acknowledge", ops.Access, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, env.Errors, "alert_ids")

	rr, _ = e.do(http.MethodGet, "/api/v1/telemetry/data?limit=0", ops.Access, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, env = e.do(http.MethodGet, "/api/v1/telemetry/stats", ops.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats dtos.TelemetryStatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats.General.TotalDataPoints)
}

func TestMalformedBodyIsRejected(t *testing.T) {
	e := newAPIEnv(t)
	e.createUser("ops", constants.RoleOperator)
	ops := e.login("ops")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/flights/missions", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+ops.Access)
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestFlightEventsLatestAndCSV(t *testing.T) {
	e := newAPIEnv(t)
	pilotID := e.createUser("ops", constants.RoleOperator)
	ops := e.login("ops")
	e.createUser("watcher", constants.RoleViewer)
	viewer := e.login("watcher")

	rr, env := e.do(http.MethodPost, "/api/v1/flights/missions", ops.Access, missionBody("Event run"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var mission dtos.MissionResponse
	require.NoError(t, json.Unmarshal(env.Data, &mission))

	rr, env = e.do(http.MethodPost, "/api/v1/flights/flights", ops.Access, flightBody(mission.ID, pilotID, "EV-100"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var flight dtos.FlightResponse
	require.NoError(t, json.Unmarshal(env.Data, &flight))

	// nothing ingested yet
	rr, _ = e.do(http.MethodGet, "/api/v1/telemetry/latest", viewer.Access, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = e.do(http.MethodPatch, fmt.Sprintf("/api/v1/flights/flights/%d/status", flight.ID), ops.Access,
		dtos.FlightStatusReq{Status: constants.FlightActive})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	eventsURL := fmt.Sprintf("/api/v1/flights/flights/%d/events", flight.ID)
	rr, _ = e.do(http.MethodPost, eventsURL, viewer.Access, dtos.FlightEventReq{Message: "hello"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr, _ = e.do(http.MethodPost, eventsURL, ops.Access, dtos.FlightEventReq{EventType: constants.EventWarning, Message: "Gusts over 30 kt"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr, env = e.do(http.MethodGet, eventsURL, viewer.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var events []dtos.FlightEventResponse
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, constants.EventSourceSystem, events[0].Source)
	assert.Equal(t, constants.EventSourceOperator, events[1].Source)

	rr, _ = e.do(http.MethodGet, "/api/v1/flights/flights/9999/events", viewer.Access, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, env = e.do(http.MethodPost, "/api/v1/telemetry/sensors", ops.Access, dtos.SensorReq{Name: "Baro", SensorType: constants.SensorPressure, Unit: "hPa"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var sensor dtos.SensorResponse
	require.NoError(t, json.Unmarshal(env.Data, &sensor))
	for _, v := range []float64{1013, 1009} {
		rr, _ = e.do(http.MethodPost, "/api/v1/telemetry/data", ops.Access, dtos.TelemetryDataReq{Sensor: sensor.ID, Value: ptrTo(v)})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr, env = e.do(http.MethodGet, "/api/v1/telemetry/latest?limit=5", viewer.Access, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var latest []dtos.TelemetryDataResponse
	require.NoError(t, json.Unmarshal(env.Data, &latest))
	assert.Len(t, latest, 2)

	rr, _ = e.do(http.MethodGet, fmt.Sprintf("/api/v1/telemetry/latest?flight=%d", flight.ID), viewer.Access, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "readings not attached to a session of the flight")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flights/csv", nil)
	req.Header.Set("Authorization", "Bearer "+viewer.Access)
	csvRR := httptest.NewRecorder()
	e.handler.ServeHTTP(csvRR, req)
	require.Equal(t, http.StatusOK, csvRR.Code)
	assert.Equal(t, "text/csv; charset=utf-8", csvRR.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="flights.csv"`, csvRR.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(csvRR.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,flight_number,"))
	assert.Contains(t, lines[1], "EV-100")

	rr, _ = e.do(http.MethodGet, "/api/v1/flights/csv", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func ptrTo[T any](v T) *T { return &v }
