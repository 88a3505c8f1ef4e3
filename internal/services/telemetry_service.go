package services

import (
	"context"
	"fmt"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/metrics"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"
)

// ClassifyQuality bands a value against the sensor's valid range:
// good inside [min*1.05, max*0.95], warning elsewhere inside [min, max],
// critical outside. ok is false when the sensor lacks a bound.
func ClassifyQuality(sensor gormModels.Sensor, value float64) (q constants.Quality, ok bool) {
	if !sensor.HasBounds() {
		return "", false
	}
	lo, hi := *sensor.MinValue, *sensor.MaxValue

	switch {
	case value < lo || value > hi:
		return constants.QualityCritical, true
	case value >= lo*constants.QualityGoodLowFactor && value <= hi*constants.QualityGoodHighFactor:
		return constants.QualityGood, true
	default:
		return constants.QualityWarning, true
	}
}

// ReadingFilterParams are the raw list filters before date conversion.
type ReadingFilterParams struct {
	SensorID  uint
	Quality   constants.Quality
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

type TelemetryService struct {
	telemetry   *repositories.TelemetryRepository
	sensors     *repositories.SensorRepository
	metrics     *metrics.MetricsRegistry
	invalidator StatsInvalidator
	now         func() time.Time
}

func NewTelemetryService(
	telemetry *repositories.TelemetryRepository,
	sensors *repositories.SensorRepository,
	m *metrics.MetricsRegistry,
	inv StatsInvalidator,
) *TelemetryService {
	return &TelemetryService{
		telemetry:   telemetry,
		sensors:     sensors,
		metrics:     m,
		invalidator: invalidatorOrNoop(inv),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *TelemetryService) ListReadings(ctx context.Context, p ReadingFilterParams) ([]dtos.TelemetryDataResponse, error) {
	if p.Quality != "" && !p.Quality.Valid() {
		return nil, validationError("quality", "Invalid quality")
	}
	from, to := common.DayRange(p.StartDate, p.EndDate)
	rows, err := s.telemetry.ListReadings(ctx, repositories.ReadingFilter{
		SensorID: p.SensorID,
		Quality:  p.Quality,
		From:     from,
		To:       to,
		Limit:    clampLimit(p.Limit),
	})
	if err != nil {
		return nil, fromRepo("telemetry", err)
	}
	return dtos.NewTelemetryDataResponses(rows), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return constants.DefaultReadingsLimit
	}
	if limit > constants.MaxReadingsLimit {
		return constants.MaxReadingsLimit
	}
	return limit
}

// Latest returns up to limit newest readings, one when limit is not positive.
// flightID narrows the result to readings attached to that flight's sessions.
// An empty result is reported as not found.
func (s *TelemetryService) Latest(ctx context.Context, flightID uint, limit int) ([]dtos.TelemetryDataResponse, error) {
	if limit <= 0 {
		limit = 1
	}
	rows, err := s.telemetry.Latest(ctx, flightID, min(limit, constants.MaxReadingsLimit))
	if err != nil {
		return nil, fromRepo("telemetry", err)
	}
	if len(rows) == 0 {
		return nil, &ServiceError{Code: constants.ErrCodeNotFound, Message: "No telemetry found"}
	}
	return dtos.NewTelemetryDataResponses(rows), nil
}

// CreateReading stores a reading. When the sensor defines both bounds the
// quality is computed server-side; a warning or critical reading also raises an alert.
func (s *TelemetryService) CreateReading(ctx context.Context, req dtos.TelemetryDataReq) (*dtos.TelemetryIngestResponse, error) {
	fe := FieldErrors{}
	if req.Sensor == 0 {
		fe.Add("sensor", "This field is required")
	}
	if req.Value == nil {
		fe.Add("value", "This field is required")
	}
	checkLatitude(fe, "latitude", req.Latitude)
	checkLongitude(fe, "longitude", req.Longitude)
	if req.Quality != "" && !req.Quality.Valid() {
		fe.Add("quality", "Invalid quality")
	}

	var sensor *gormModels.Sensor
	if req.Sensor != 0 {
		var err error
		sensor, err = s.sensors.GetByID(ctx, req.Sensor)
		if errIsNotFound(err) {
			fe.Add("sensor", "Sensor does not exist")
		} else if err != nil {
			return nil, fromRepo("sensor", err)
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	quality, computed := ClassifyQuality(*sensor, *req.Value)
	if !computed {
		quality = req.Quality
		if quality == "" {
			quality = constants.QualityGood
		}
	}

	ts := s.now()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}
	reading := &gormModels.TelemetryData{
		SensorID:  sensor.ID,
		Value:     *req.Value,
		Timestamp: ts,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Altitude:  req.Altitude,
		Quality:   quality,
	}

	alert := qualityAlert(*sensor, *req.Value, quality)
	if err := s.telemetry.CreateReading(ctx, reading, alert); err != nil {
		return nil, fromRepo("telemetry", err)
	}
	s.invalidator.Invalidate()

	if s.metrics != nil {
		s.metrics.TelemetryReadingsTotal.WithLabelValues(string(quality)).Inc()
	}

	reading.Sensor = *sensor
	resp := &dtos.TelemetryIngestResponse{TelemetryDataResponse: dtos.NewTelemetryDataResponse(*reading)}
	if alert != nil {
		alert.Sensor = sensor
		a := dtos.NewAlertResponse(*alert)
		resp.Alert = &a
		logging.Info("quality alert raised",
			"alert_id", alert.ID,
			"sensor_id", sensor.ID,
			"quality", quality,
			"value", *req.Value,
		)
	}
	return resp, nil
}

// qualityAlert builds the alert raised for a degraded reading, or nil for good ones.
func qualityAlert(sensor gormModels.Sensor, value float64, q constants.Quality) *gormModels.Alert {
	var alertType constants.AlertType
	switch q {
	case constants.QualityWarning:
		alertType = constants.AlertWarning
	case constants.QualityCritical:
		alertType = constants.AlertCritical
	default:
		return nil
	}

	sensorID := sensor.ID
	message := fmt.Sprintf("Sensor %s reported %g %s", sensor.Name, value, sensor.Unit)
	if sensor.HasBounds() {
		message += fmt.Sprintf(" (valid range %g to %g)", *sensor.MinValue, *sensor.MaxValue)
	}
	return &gormModels.Alert{
		Title:     fmt.Sprintf("%s reading on %s", q, sensor.Name),
		Message:   message,
		AlertType: alertType,
		SensorID:  &sensorID,
	}
}

func (s *TelemetryService) ListGyroscope(ctx context.Context, p ReadingFilterParams) ([]dtos.GyroscopeDataResponse, error) {
	from, to := common.DayRange(p.StartDate, p.EndDate)
	rows, err := s.telemetry.ListGyroscope(ctx, repositories.ReadingFilter{
		From:  from,
		To:    to,
		Limit: clampLimit(p.Limit),
	})
	if err != nil {
		return nil, fromRepo("gyroscope", err)
	}
	return dtos.NewGyroscopeDataResponses(rows), nil
}

func (s *TelemetryService) CreateGyroscope(ctx context.Context, req dtos.GyroscopeDataReq) (*dtos.GyroscopeDataResponse, error) {
	fe := FieldErrors{}
	if req.Roll == nil {
		fe.Add("roll", "This field is required")
	}
	if req.Pitch == nil {
		fe.Add("pitch", "This field is required")
	}
	if req.Yaw == nil {
		fe.Add("yaw", "This field is required")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	ts := s.now()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}
	sample := &gormModels.GyroscopeData{
		Timestamp:        ts,
		Roll:             *req.Roll,
		Pitch:            *req.Pitch,
		Yaw:              *req.Yaw,
		AngularVelocityX: req.AngularVelocityX,
		AngularVelocityY: req.AngularVelocityY,
		AngularVelocityZ: req.AngularVelocityZ,
	}
	if err := s.telemetry.CreateGyroscope(ctx, sample); err != nil {
		return nil, fromRepo("gyroscope", err)
	}
	resp := dtos.NewGyroscopeDataResponse(*sample)
	return &resp, nil
}
