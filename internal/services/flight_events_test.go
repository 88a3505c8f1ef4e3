package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatus_WritesEventLog(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	op := e.createUser(t, "op", constants.RoleOperator)
	flightID := e.createFlight(t, e.createMission(t, op), op.ID, "EV-1", time.Now())

	_, err := e.flightSvc.UpdateStatus(ctx, claimsFor(op), flightID, dtos.FlightStatusReq{Status: constants.FlightActive, Notes: "wheels up"})
	require.NoError(t, err)
	_, err = e.flightSvc.UpdateStatus(ctx, claimsFor(op), flightID, dtos.FlightStatusReq{Status: constants.FlightEmergency})
	require.NoError(t, err)

	// rejected transitions leave no trace
	_, err = e.flightSvc.UpdateStatus(ctx, claimsFor(op), flightID, dtos.FlightStatusReq{Status: constants.FlightPreFlight})
	require.Error(t, err)

	events, err := e.flightSvc.ListEvents(ctx, flightID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, constants.EventInfo, events[0].EventType)
	assert.Equal(t, constants.EventSourceSystem, events[0].Source)
	assert.Equal(t, "Status changed from pre_flight to active: wheels up", events[0].Message)

	assert.Equal(t, constants.EventError, events[1].EventType)
	assert.Equal(t, "Status changed from active to emergency", events[1].Message)
	assert.False(t, events[1].Timestamp.Before(events[0].Timestamp))

	_, err = e.flightSvc.ListEvents(ctx, 9999)
	assert.Equal(t, constants.ErrCodeNotFound, CodeOf(err))
}

func TestAttachTelemetry_LogsDegradedReadings(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	op := e.createUser(t, "op", constants.RoleOperator)
	flightID := e.createFlight(t, e.createMission(t, op), op.ID, "EV-2", time.Now())
	sensor := e.createSensor(t, "Cabin", ptr(0.0), ptr(100.0))

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	var ids []uint
	for i, v := range []float64{50, 97, 150} {
		r, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{
			Sensor:    sensor.ID,
			Value:     ptr(v),
			Timestamp: ptr(base.Add(time.Duration(i) * time.Second)),
		})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	sess, err := e.sessionSvc.Create(ctx, flightID, dtos.SessionReq{StartTime: &base})
	require.NoError(t, err)

	_, err = e.sessionSvc.AttachTelemetry(ctx, sess.ID, dtos.AttachReq{IDs: ids[:2]})
	require.NoError(t, err)
	att, err := e.sessionSvc.AttachTelemetry(ctx, sess.ID, dtos.AttachReq{IDs: ids})
	require.NoError(t, err)
	assert.EqualValues(t, 1, att.Attached)

	events, err := e.flightSvc.ListEvents(ctx, flightID)
	require.NoError(t, err)
	require.Len(t, events, 2, "one event per degraded reading, never repeated on re-attach")

	assert.Equal(t, constants.EventWarning, events[0].EventType)
	assert.Equal(t, constants.EventSourceSensor, events[0].Source)
	assert.Equal(t, "Cabin reading 97 C is warning", events[0].Message)
	assert.True(t, events[0].Timestamp.Equal(base.Add(time.Second)))

	assert.Equal(t, constants.EventError, events[1].EventType)
	assert.Equal(t, "Cabin reading 150 C is critical", events[1].Message)
}

func TestAddEvent(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	op := e.createUser(t, "op", constants.RoleOperator)
	flightID := e.createFlight(t, e.createMission(t, op), op.ID, "EV-3", time.Now())

	_, err := e.flightSvc.AddEvent(ctx, claimsFor(op), flightID, dtos.FlightEventReq{Message: "  ", EventType: "fatal"})
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "message")
	assert.Contains(t, se.Fields, "event_type")

	_, err = e.flightSvc.AddEvent(ctx, claimsFor(op), 9999, dtos.FlightEventReq{Message: "x"})
	assert.Equal(t, constants.ErrCodeNotFound, CodeOf(err))

	ev, err := e.flightSvc.AddEvent(ctx, claimsFor(op), flightID, dtos.FlightEventReq{Message: " Bird strike reported "})
	require.NoError(t, err)
	assert.NotZero(t, ev.ID)
	assert.Equal(t, constants.EventInfo, ev.EventType)
	assert.Equal(t, constants.EventSourceOperator, ev.Source)
	assert.Equal(t, "Bird strike reported", ev.Message)

	require.NoError(t, e.flightSvc.Delete(ctx, flightID))
	var left int64
	require.NoError(t, e.db.Model(&gormModels.FlightEvent{}).Count(&left).Error)
	assert.Zero(t, left)
}

func TestLatestTelemetry(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	_, err := e.telemetrySvc.Latest(ctx, 0, 0)
	assert.Equal(t, constants.ErrCodeNotFound, CodeOf(err))

	op := e.createUser(t, "op", constants.RoleOperator)
	mission := e.createMission(t, op)
	flightA := e.createFlight(t, mission, op.ID, "LA-1", time.Now())
	flightB := e.createFlight(t, mission, op.ID, "LB-1", time.Now())
	sensor := e.createSensor(t, "Alt", nil, nil)

	base := time.Date(2026, 6, 2, 8, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 4; i++ {
		r, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{
			Sensor:    sensor.ID,
			Value:     ptr(float64(i)),
			Timestamp: ptr(base.Add(time.Duration(i) * time.Minute)),
		})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	sessA, err := e.sessionSvc.Create(ctx, flightA, dtos.SessionReq{})
	require.NoError(t, err)
	_, err = e.sessionSvc.AttachTelemetry(ctx, sessA.ID, dtos.AttachReq{IDs: ids[:2]})
	require.NoError(t, err)

	latest, err := e.telemetrySvc.Latest(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, ids[3], latest[0].ID)

	forA, err := e.telemetrySvc.Latest(ctx, flightA, 10)
	require.NoError(t, err)
	require.Len(t, forA, 2)
	assert.Equal(t, ids[1], forA[0].ID, "newest first")
	assert.Equal(t, ids[0], forA[1].ID)

	_, err = e.telemetrySvc.Latest(ctx, flightB, 10)
	assert.Equal(t, constants.ErrCodeNotFound, CodeOf(err))
}

func TestExportCSV(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	op := e.createUser(t, "op", constants.RoleOperator)
	mission := e.createMission(t, op)
	dep := time.Date(2026, 6, 3, 7, 30, 0, 0, time.UTC)
	e.createFlight(t, mission, op.ID, "CSV-1", dep)
	id := e.createFlight(t, mission, op.ID, "CSV-2", dep.Add(time.Hour))
	require.NoError(t, e.flights.Update(ctx, id, map[string]any{"departure_location": `Hangar "B", north`}))

	var buf bytes.Buffer
	require.NoError(t, e.flightSvc.ExportCSV(ctx, repositories.FlightFilter{}, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, flightCSVHeader, records[0])

	byNumber := map[string][]string{}
	for _, rec := range records[1:] {
		require.Len(t, rec, len(flightCSVHeader))
		byNumber[rec[1]] = rec
	}
	assert.Equal(t, `Hangar "B", north`, byNumber["CSV-2"][6])
	assert.Equal(t, "2026-06-03T07:30:00Z", byNumber["CSV-1"][8])
	assert.Equal(t, "pre_flight", byNumber["CSV-1"][5])
	assert.Equal(t, "op", byNumber["CSV-1"][3])
	assert.Empty(t, byNumber["CSV-1"][10])

	buf.Reset()
	err = e.flightSvc.ExportCSV(ctx, repositories.FlightFilter{Status: "flying"}, &buf)
	assert.Equal(t, constants.ErrCodeValidation, CodeOf(err))
	assert.Zero(t, buf.Len())
}
