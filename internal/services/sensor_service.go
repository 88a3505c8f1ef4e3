package services

import (
	"context"
	"strings"

	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"
)

type SensorService struct {
	sensors     *repositories.SensorRepository
	invalidator StatsInvalidator
}

func NewSensorService(sensors *repositories.SensorRepository, inv StatsInvalidator) *SensorService {
	return &SensorService{sensors: sensors, invalidator: invalidatorOrNoop(inv)}
}

func validateSensor(req *dtos.SensorReq) error {
	fe := FieldErrors{}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		fe.Add("name", "This field is required")
	} else if len(req.Name) > 100 {
		fe.Add("name", "Ensure this field has no more than 100 characters")
	}
	if req.SensorType == "" {
		fe.Add("sensor_type", "This field is required")
	} else if !req.SensorType.Valid() {
		fe.Add("sensor_type", "Invalid sensor type")
	}
	req.Unit = strings.TrimSpace(req.Unit)
	if req.Unit == "" {
		fe.Add("unit", "This field is required")
	} else if len(req.Unit) > 20 {
		fe.Add("unit", "Ensure this field has no more than 20 characters")
	}
	if req.MinValue != nil && req.MaxValue != nil && *req.MinValue > *req.MaxValue {
		fe.Add("min_value", "min_value must not exceed max_value")
	}
	return fe.Err()
}

func (s *SensorService) List(ctx context.Context, f repositories.SensorFilter) ([]dtos.SensorResponse, error) {
	if f.SensorType != "" && !f.SensorType.Valid() {
		return nil, validationError("sensor_type", "Invalid sensor type")
	}
	sensors, err := s.sensors.List(ctx, f)
	if err != nil {
		return nil, fromRepo("sensor", err)
	}
	return dtos.NewSensorResponses(sensors), nil
}

func (s *SensorService) Get(ctx context.Context, id uint) (*dtos.SensorResponse, error) {
	sensor, err := s.sensors.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("sensor", err)
	}
	resp := dtos.NewSensorResponse(*sensor)
	return &resp, nil
}

func (s *SensorService) Create(ctx context.Context, req dtos.SensorReq) (*dtos.SensorResponse, error) {
	if err := validateSensor(&req); err != nil {
		return nil, err
	}

	sensor := &gormModels.Sensor{
		Name:        req.Name,
		SensorType:  req.SensorType,
		Description: req.Description,
		Unit:        req.Unit,
		MinValue:    req.MinValue,
		MaxValue:    req.MaxValue,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.sensors.Create(ctx, sensor); err != nil {
		return nil, fromRepo("sensor", err)
	}
	s.invalidator.Invalidate()

	logging.Info("sensor created", "sensor_id", sensor.ID, "sensor_type", sensor.SensorType)
	resp := dtos.NewSensorResponse(*sensor)
	return &resp, nil
}

// Update replaces the sensor definition. Omitting is_active keeps the current value.
func (s *SensorService) Update(ctx context.Context, id uint, req dtos.SensorReq) (*dtos.SensorResponse, error) {
	current, err := s.sensors.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("sensor", err)
	}
	if err := validateSensor(&req); err != nil {
		return nil, err
	}

	active := current.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	updates := map[string]any{
		"name":        req.Name,
		"sensor_type": req.SensorType,
		"description": req.Description,
		"unit":        req.Unit,
		"min_value":   req.MinValue,
		"max_value":   req.MaxValue,
		"is_active":   active,
	}
	if err := s.sensors.Update(ctx, id, updates); err != nil {
		return nil, fromRepo("sensor", err)
	}
	s.invalidator.Invalidate()
	return s.Get(ctx, id)
}

func (s *SensorService) Delete(ctx context.Context, id uint) error {
	if err := s.sensors.Delete(ctx, id); err != nil {
		return fromRepo("sensor", err)
	}
	s.invalidator.Invalidate()
	logging.Info("sensor deleted", "sensor_id", id)
	return nil
}
