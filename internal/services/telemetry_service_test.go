package services

import (
	"context"
	"testing"
	"time"

	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyQuality(t *testing.T) {
	bounded := gormModels.Sensor{MinValue: ptr(0.0), MaxValue: ptr(100.0)}

	cases := []struct {
		value float64
		want  constants.Quality
	}{
		{50, constants.QualityGood},
		{94, constants.QualityGood},
		{96, constants.QualityWarning},
		{100, constants.QualityWarning},
		{0, constants.QualityGood},
		{-0.5, constants.QualityCritical},
		{100.1, constants.QualityCritical},
	}
	for _, tc := range cases {
		q, ok := ClassifyQuality(bounded, tc.value)
		require.True(t, ok)
		assert.Equalf(t, tc.want, q, "value %v", tc.value)
	}

	// 10*1.05 = 10.5 is the low edge of the good band
	low := gormModels.Sensor{MinValue: ptr(10.0), MaxValue: ptr(20.0)}
	q, _ := ClassifyQuality(low, 10.2)
	assert.Equal(t, constants.QualityWarning, q)

	_, ok := ClassifyQuality(gormModels.Sensor{MinValue: ptr(0.0)}, 5)
	assert.False(t, ok)
}

func TestCreateReading_ComputedQualityRaisesAlert(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	sensor := e.createSensor(t, "Cabin temp", ptr(0.0), ptr(100.0))

	good, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{
		Sensor: sensor.ID, Value: ptr(50.0), Quality: constants.QualityCritical,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.QualityGood, good.Quality, "client quality is ignored for bounded sensors")
	assert.Nil(t, good.Alert)

	warn, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{Sensor: sensor.ID, Value: ptr(96.0)})
	require.NoError(t, err)
	assert.Equal(t, constants.QualityWarning, warn.Quality)
	require.NotNil(t, warn.Alert)
	assert.Equal(t, constants.AlertWarning, warn.Alert.AlertType)

	crit, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{Sensor: sensor.ID, Value: ptr(140.0)})
	require.NoError(t, err)
	assert.Equal(t, constants.QualityCritical, crit.Quality)
	require.NotNil(t, crit.Alert)
	assert.Equal(t, constants.AlertCritical, crit.Alert.AlertType)

	alerts, err := e.alerts.List(ctx, repositories.AlertFilter{SensorID: sensor.ID})
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	for _, a := range alerts {
		require.NotNil(t, a.TelemetryDataID)
		assert.False(t, a.IsAcknowledged)
	}
}

func TestCreateReading_UnboundedSensorUsesSuppliedQuality(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	sensor := e.createSensor(t, "Free gauge", nil, ptr(10.0))

	res, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{Sensor: sensor.ID, Value: ptr(500.0)})
	require.NoError(t, err)
	assert.Equal(t, constants.QualityGood, res.Quality)
	assert.Nil(t, res.Alert)

	res, err = e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{
		Sensor: sensor.ID, Value: ptr(1.0), Quality: constants.QualityWarning,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.QualityWarning, res.Quality)
	assert.NotNil(t, res.Alert)
}

func TestCreateReading_Validation(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	sensor := e.createSensor(t, "Probe", nil, nil)

	var se *ServiceError
	_, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{Sensor: 4242, Value: ptr(1.0)})
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "sensor")

	_, err = e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{Sensor: sensor.ID})
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "value")

	_, err = e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{Sensor: sensor.ID, Value: ptr(1.0), Latitude: ptr(-120.0)})
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "latitude")

	var n int64
	require.NoError(t, e.db.Model(&gormModels.TelemetryData{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestListReadings_Filters(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	a := e.createSensor(t, "A", ptr(0.0), ptr(100.0))
	b := e.createSensor(t, "B", ptr(0.0), ptr(100.0))

	day := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	for i, v := range []float64{10, 97, 200} {
		_, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{
			Sensor: a.ID, Value: ptr(v), Timestamp: ptr(day.Add(time.Duration(i) * time.Hour)),
		})
		require.NoError(t, err)
	}
	_, err := e.telemetrySvc.CreateReading(ctx, dtos.TelemetryDataReq{
		Sensor: b.ID, Value: ptr(10.0), Timestamp: ptr(day.AddDate(0, 0, 1)),
	})
	require.NoError(t, err)

	rows, err := e.telemetrySvc.ListReadings(ctx, ReadingFilterParams{SensorID: a.ID})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Timestamp.After(rows[1].Timestamp), "newest first")

	rows, err = e.telemetrySvc.ListReadings(ctx, ReadingFilterParams{Quality: constants.QualityCritical})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 200.0, rows[0].Value)

	rows, err = e.telemetrySvc.ListReadings(ctx, ReadingFilterParams{StartDate: ptr(day.Truncate(24 * time.Hour)), EndDate: ptr(day.Truncate(24 * time.Hour))})
	require.NoError(t, err)
	assert.Len(t, rows, 3, "end_date includes the whole day")

	rows, err = e.telemetrySvc.ListReadings(ctx, ReadingFilterParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = e.telemetrySvc.ListReadings(ctx, ReadingFilterParams{Quality: "meh"})
	assert.Equal(t, constants.ErrCodeValidation, CodeOf(err))
}

func TestCreateGyroscope(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	_, err := e.telemetrySvc.CreateGyroscope(ctx, dtos.GyroscopeDataReq{Roll: ptr(1.0), Pitch: ptr(2.0)})
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "yaw")

	res, err := e.telemetrySvc.CreateGyroscope(ctx, dtos.GyroscopeDataReq{
		Roll: ptr(1.0), Pitch: ptr(2.0), Yaw: ptr(3.0), AngularVelocityZ: ptr(0.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Yaw)

	rows, err := e.telemetrySvc.ListGyroscope(ctx, ReadingFilterParams{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
