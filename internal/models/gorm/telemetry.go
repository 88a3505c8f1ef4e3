package gorm

import (
	"astra/telemetry-backend/internal/constants"
	"time"
)

type Sensor struct {
	ID          uint                 `gorm:"column:id;primaryKey"`
	Name        string               `gorm:"column:name;size:100;not null"`
	SensorType  constants.SensorType `gorm:"column:sensor_type;size:20;index;not null"`
	Description string               `gorm:"column:description;type:text"`
	Unit        string               `gorm:"column:unit;size:20;not null"`
	MinValue    *float64             `gorm:"column:min_value"`
	MaxValue    *float64             `gorm:"column:max_value"`
	IsActive    bool                 `gorm:"column:is_active;not null"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Sensor) TableName() string {
	return "sensors"
}

// HasBounds reports whether both valid-range bounds are defined.
func (s Sensor) HasBounds() bool {
	return s.MinValue != nil && s.MaxValue != nil
}

type TelemetryData struct {
	ID        uint              `gorm:"column:id;primaryKey"`
	SensorID  uint              `gorm:"column:sensor_id;index:idx_telemetry_sensor_ts,priority:1;not null"`
	Value     float64           `gorm:"column:value;not null"`
	Timestamp time.Time         `gorm:"column:timestamp;index;index:idx_telemetry_sensor_ts,priority:2;not null"`
	Latitude  *float64          `gorm:"column:latitude"`
	Longitude *float64          `gorm:"column:longitude"`
	Altitude  *float64          `gorm:"column:altitude"`
	Quality   constants.Quality `gorm:"column:quality;size:10;index;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`

	Sensor Sensor `gorm:"foreignKey:SensorID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (TelemetryData) TableName() string {
	return "telemetry_data"
}

type GyroscopeData struct {
	ID               uint      `gorm:"column:id;primaryKey"`
	Timestamp        time.Time `gorm:"column:timestamp;index;not null"`
	Roll             float64   `gorm:"column:roll;not null"`
	Pitch            float64   `gorm:"column:pitch;not null"`
	Yaw              float64   `gorm:"column:yaw;not null"`
	AngularVelocityX *float64  `gorm:"column:angular_velocity_x"`
	AngularVelocityY *float64  `gorm:"column:angular_velocity_y"`
	AngularVelocityZ *float64  `gorm:"column:angular_velocity_z"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (GyroscopeData) TableName() string {
	return "gyroscope_data"
}

type Alert struct {
	ID               uint                `gorm:"column:id;primaryKey"`
	Title            string              `gorm:"column:title;size:200;not null"`
	Message          string              `gorm:"column:message;type:text;not null"`
	AlertType        constants.AlertType `gorm:"column:alert_type;size:10;index:idx_alerts_type_ack,priority:1;not null"`
	SensorID         *uint               `gorm:"column:sensor_id;index"`
	TelemetryDataID  *uint               `gorm:"column:telemetry_data_id;index"`
	IsAcknowledged   bool                `gorm:"column:is_acknowledged;index:idx_alerts_type_ack,priority:2;not null"`
	AcknowledgedByID *uint               `gorm:"column:acknowledged_by_id"`
	AcknowledgedAt   *time.Time          `gorm:"column:acknowledged_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime;index"`

	// Relationships
	Sensor         *Sensor        `gorm:"foreignKey:SensorID;constraint:OnDelete:CASCADE"`
	TelemetryData  *TelemetryData `gorm:"foreignKey:TelemetryDataID;constraint:OnDelete:CASCADE"`
	AcknowledgedBy *User          `gorm:"foreignKey:AcknowledgedByID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for GORM
func (Alert) TableName() string {
	return "alerts"
}
