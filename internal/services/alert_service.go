package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/metrics"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"
)

type AlertService struct {
	alerts      *repositories.AlertRepository
	sensors     *repositories.SensorRepository
	telemetry   *repositories.TelemetryRepository
	metrics     *metrics.MetricsRegistry
	invalidator StatsInvalidator
	now         func() time.Time
}

func NewAlertService(
	alerts *repositories.AlertRepository,
	sensors *repositories.SensorRepository,
	telemetry *repositories.TelemetryRepository,
	m *metrics.MetricsRegistry,
	inv StatsInvalidator,
) *AlertService {
	return &AlertService{
		alerts:      alerts,
		sensors:     sensors,
		telemetry:   telemetry,
		metrics:     m,
		invalidator: invalidatorOrNoop(inv),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *AlertService) List(ctx context.Context, f repositories.AlertFilter) ([]dtos.AlertResponse, error) {
	if f.AlertType != "" && !f.AlertType.Valid() {
		return nil, validationError("alert_type", "Invalid alert type")
	}
	alerts, err := s.alerts.List(ctx, f)
	if err != nil {
		return nil, fromRepo("alert", err)
	}
	return dtos.NewAlertResponses(alerts), nil
}

// Create stores a manual alert.
func (s *AlertService) Create(ctx context.Context, req dtos.AlertReq) (*dtos.AlertResponse, error) {
	fe := FieldErrors{}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		fe.Add("title", "This field is required")
	} else if len(title) > 200 {
		fe.Add("title", "Ensure this field has no more than 200 characters")
	}
	if strings.TrimSpace(req.Message) == "" {
		fe.Add("message", "This field is required")
	}
	alertType := req.AlertType
	if alertType == "" {
		alertType = constants.AlertInfo
	}
	if !alertType.Valid() {
		fe.Add("alert_type", "Invalid alert type")
	}

	if req.Sensor != nil {
		if _, err := s.sensors.GetByID(ctx, *req.Sensor); errIsNotFound(err) {
			fe.Add("sensor", "Sensor does not exist")
		} else if err != nil {
			return nil, fromRepo("sensor", err)
		}
	}
	if req.TelemetryData != nil {
		if _, err := s.telemetry.GetReading(ctx, *req.TelemetryData); errIsNotFound(err) {
			fe.Add("telemetry_data", "Telemetry reading does not exist")
		} else if err != nil {
			return nil, fromRepo("telemetry", err)
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	alert := &gormModels.Alert{
		Title:           title,
		Message:         req.Message,
		AlertType:       alertType,
		SensorID:        req.Sensor,
		TelemetryDataID: req.TelemetryData,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, fromRepo("alert", err)
	}
	s.invalidator.Invalidate()

	created, err := s.alerts.GetByID(ctx, alert.ID)
	if err != nil {
		return nil, fromRepo("alert", err)
	}
	resp := dtos.NewAlertResponse(*created)
	return &resp, nil
}

// Acknowledge marks the given alerts acknowledged by the caller in one UPDATE.
// Alerts already acknowledged are left untouched and not counted.
func (s *AlertService) Acknowledge(ctx context.Context, caller auth.UserClaims, req dtos.AcknowledgeReq) (*dtos.AcknowledgeResponse, error) {
	if req.AlertIDs == nil {
		return nil, validationError("alert_ids", "alert_ids is required")
	}

	ids := dedupeIDs(*req.AlertIDs)
	n, err := s.alerts.Acknowledge(ctx, ids, caller.UserID(), s.now())
	if err != nil {
		return nil, fromRepo("alert", err)
	}
	if n > 0 {
		s.invalidator.Invalidate()
		if s.metrics != nil {
			s.metrics.AlertsAcknowledgedTotal.Add(float64(n))
		}
	}

	logging.Info("alerts acknowledged", "count", n, "requested", len(ids), "user_id", caller.UserID())
	return &dtos.AcknowledgeResponse{
		Acknowledged: n,
		Message:      fmt.Sprintf("%d alerts acknowledged", n),
	}, nil
}
