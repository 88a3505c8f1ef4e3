package services

import (
	"context"
	"testing"
	"time"

	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	op := e.createUser(t, "op", constants.RoleOperator)
	flightID := e.createFlight(t, e.createMission(t, op), op.ID, "S-1", time.Now())
	sensor := e.createSensor(t, "Temp", nil, nil)

	sess, err := e.sessionSvc.Create(ctx, flightID, dtos.SessionReq{StartTime: ptr(time.Now().Add(-time.Minute))})
	require.NoError(t, err)
	assert.True(t, sess.IsOpen)
	assert.Equal(t, "S-1", sess.FlightNumber)

	var readingIDs []uint
	for _, v := range []float64{1, 2} {
		r, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{Sensor: sensor.ID, Value: ptr(v)})
		require.NoError(t, err)
		readingIDs = append(readingIDs, r.ID)
	}
	gyro, err := e.telemetrySvc.CreateGyroscope(ctx, dtos.GyroscopeDataReq{Roll: ptr(0.1), Pitch: ptr(0.2), Yaw: ptr(0.3)})
	require.NoError(t, err)

	att, err := e.sessionSvc.AttachTelemetry(ctx, sess.ID, dtos.AttachReq{IDs: readingIDs})
	require.NoError(t, err)
	assert.EqualValues(t, 2, att.Attached)

	att, err = e.sessionSvc.AttachTelemetry(ctx, sess.ID, dtos.AttachReq{IDs: readingIDs})
	require.NoError(t, err)
	assert.Zero(t, att.Attached, "re-attaching is a no-op")

	_, err = e.sessionSvc.AttachGyroscope(ctx, sess.ID, dtos.AttachReq{IDs: []uint{gyro.ID}})
	require.NoError(t, err)

	_, err = e.sessionSvc.AttachTelemetry(ctx, sess.ID, dtos.AttachReq{IDs: []uint{424242}})
	assert.Equal(t, constants.ErrCodeValidation, CodeOf(err))

	readings, err := e.sessionSvc.Readings(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, readings.Telemetry, 2)
	assert.Len(t, readings.Gyroscope, 1)
	assert.EqualValues(t, 2, readings.Session.TelemetryCount)
	assert.EqualValues(t, 1, readings.Session.GyroscopeCount)

	closed, err := e.sessionSvc.Close(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)
	require.NotNil(t, closed.EndTime)

	_, err = e.sessionSvc.Close(ctx, sess.ID)
	assert.Equal(t, constants.ErrCodeValidation, CodeOf(err))

	list, err := e.sessionSvc.ListByFlight(ctx, flightID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = e.sessionSvc.ListByFlight(ctx, 9999)
	assert.Equal(t, constants.ErrCodeNotFound, CodeOf(err))
}
