package dtos

import (
	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"
	"time"
)

type SensorResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	SensorType  constants.SensorType `json:"sensor_type"`
	Description string               `json:"description"`
	Unit        string               `json:"unit"`
	MinValue    *float64             `json:"min_value"`
	MaxValue    *float64             `json:"max_value"`
	IsActive    bool                 `json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type TelemetryDataResponse struct {
	ID         uint                 `json:"id"`
	Sensor     uint                 `json:"sensor"`
	SensorName string               `json:"sensor_name"`
	SensorType constants.SensorType `json:"sensor_type"`
	SensorUnit string               `json:"sensor_unit"`
	Value      float64              `json:"value"`
	Timestamp  time.Time            `json:"timestamp"`
	Latitude   *float64             `json:"latitude"`
	Longitude  *float64             `json:"longitude"`
	Altitude   *float64             `json:"altitude"`
	Quality    constants.Quality    `json:"quality"`
	CreatedAt  time.Time            `json:"created_at"`
}

type GyroscopeDataResponse struct {
	ID               uint      `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Roll             float64   `json:"roll"`
	Pitch            float64   `json:"pitch"`
	Yaw              float64   `json:"yaw"`
	AngularVelocityX *float64  `json:"angular_velocity_x"`
	AngularVelocityY *float64  `json:"angular_velocity_y"`
	AngularVelocityZ *float64  `json:"angular_velocity_z"`
	CreatedAt        time.Time `json:"created_at"`
}

type AlertResponse struct {
	ID                 uint                `json:"id"`
	Title              string              `json:"title"`
	Message            string              `json:"message"`
	AlertType          constants.AlertType `json:"alert_type"`
	Sensor             *uint               `json:"sensor"`
	SensorName         *string             `json:"sensor_name"`
	TelemetryData      *uint               `json:"telemetry_data"`
	IsAcknowledged     bool                `json:"is_acknowledged"`
	AcknowledgedBy     *uint               `json:"acknowledged_by"`
	AcknowledgedByName *string             `json:"acknowledged_by_name"`
	AcknowledgedAt     *time.Time          `json:"acknowledged_at"`
	CreatedAt          time.Time           `json:"created_at"`
}

// TelemetryIngestResponse reports a stored reading and the alert raised for it, if any.
type TelemetryIngestResponse struct {
	TelemetryDataResponse
	Alert *AlertResponse `json:"alert,omitempty"`
}

type AcknowledgeResponse struct {
	Acknowledged int64  `json:"acknowledged"`
	Message      string `json:"message"`
}

func NewSensorResponse(s gormModels.Sensor) SensorResponse {
	return SensorResponse{
		ID:          s.ID,
		Name:        s.Name,
		SensorType:  s.SensorType,
		Description: s.Description,
		Unit:        s.Unit,
		MinValue:    s.MinValue,
		MaxValue:    s.MaxValue,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewSensorResponses(sensors []gormModels.Sensor) []SensorResponse {
	out := make([]SensorResponse, 0, len(sensors))
	for _, s := range sensors {
		out = append(out, NewSensorResponse(s))
	}
	return out
}

// NewTelemetryDataResponse expects Sensor to be preloaded.
func NewTelemetryDataResponse(t gormModels.TelemetryData) TelemetryDataResponse {
	return TelemetryDataResponse{
		ID:         t.ID,
		Sensor:     t.SensorID,
		SensorName: t.Sensor.Name,
		SensorType: t.Sensor.SensorType,
		SensorUnit: t.Sensor.Unit,
		Value:      t.Value,
		Timestamp:  t.Timestamp,
		Latitude:   t.Latitude,
		Longitude:  t.Longitude,
		Altitude:   t.Altitude,
		Quality:    t.Quality,
		CreatedAt:  t.CreatedAt,
	}
}

func NewTelemetryDataResponses(rows []gormModels.TelemetryData) []TelemetryDataResponse {
	out := make([]TelemetryDataResponse, 0, len(rows))
	for _, t := range rows {
		out = append(out, NewTelemetryDataResponse(t))
	}
	return out
}

func NewGyroscopeDataResponse(g gormModels.GyroscopeData) GyroscopeDataResponse {
	return GyroscopeDataResponse{
		ID:               g.ID,
		Timestamp:        g.Timestamp,
		Roll:             g.Roll,
		Pitch:            g.Pitch,
		Yaw:              g.Yaw,
		AngularVelocityX: g.AngularVelocityX,
		AngularVelocityY: g.AngularVelocityY,
		AngularVelocityZ: g.AngularVelocityZ,
		CreatedAt:        g.CreatedAt,
	}
}

func NewGyroscopeDataResponses(rows []gormModels.GyroscopeData) []GyroscopeDataResponse {
	out := make([]GyroscopeDataResponse, 0, len(rows))
	for _, g := range rows {
		out = append(out, NewGyroscopeDataResponse(g))
	}
	return out
}

func NewAlertResponse(a gormModels.Alert) AlertResponse {
	resp := AlertResponse{
		ID:             a.ID,
		Title:          a.Title,
		Message:        a.Message,
		AlertType:      a.AlertType,
		Sensor:         a.SensorID,
		TelemetryData:  a.TelemetryDataID,
		IsAcknowledged: a.IsAcknowledged,
		AcknowledgedBy: a.AcknowledgedByID,
		AcknowledgedAt: a.AcknowledgedAt,
		CreatedAt:      a.CreatedAt,
	}
	if a.Sensor != nil {
		name := a.Sensor.Name
		resp.SensorName = &name
	}
	if a.AcknowledgedBy != nil {
		name := a.AcknowledgedBy.FullName()
		resp.AcknowledgedByName = &name
	}
	return resp
}

func NewAlertResponses(alerts []gormModels.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, NewAlertResponse(a))
	}
	return out
}
