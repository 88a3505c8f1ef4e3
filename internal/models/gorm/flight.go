package gorm

import (
	"astra/telemetry-backend/internal/constants"
	"time"
)

type Mission struct {
	ID           uint                      `gorm:"column:id;primaryKey"`
	Name         string                    `gorm:"column:name;size:200;not null"`
	Description  string                    `gorm:"column:description;type:text"`
	Status       constants.MissionStatus   `gorm:"column:status;size:20;index;not null"`
	Priority     constants.MissionPriority `gorm:"column:priority;size:10;not null"`
	PlannedStart time.Time                 `gorm:"column:planned_start;not null"`
	PlannedEnd   time.Time                 `gorm:"column:planned_end;not null"`
	ActualStart  *time.Time                `gorm:"column:actual_start"`
	ActualEnd    *time.Time                `gorm:"column:actual_end"`
	CreatedByID  uint                      `gorm:"column:created_by_id;index;not null"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	CreatedBy  User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	AssignedTo []User   `gorm:"many2many:mission_assignees;constraint:OnDelete:CASCADE"`
	Flights    []Flight `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Mission) TableName() string {
	return "missions"
}

type Flight struct {
	ID                   uint                   `gorm:"column:id;primaryKey"`
	MissionID            uint                   `gorm:"column:mission_id;index;not null"`
	FlightNumber         string                 `gorm:"column:flight_number;size:50;uniqueIndex;not null"`
	AircraftID           string                 `gorm:"column:aircraft_id;size:100;not null"`
	PilotID              uint                   `gorm:"column:pilot_id;index;not null"`
	Status               constants.FlightStatus `gorm:"column:status;size:20;index:idx_flights_status_departure,priority:1;not null"`
	DepartureLocation    string                 `gorm:"column:departure_location;size:200;not null"`
	DestinationLocation  string                 `gorm:"column:destination_location;size:200;not null"`
	DepartureLatitude    *float64               `gorm:"column:departure_latitude"`
	DepartureLongitude   *float64               `gorm:"column:departure_longitude"`
	DestinationLatitude  *float64               `gorm:"column:destination_latitude"`
	DestinationLongitude *float64               `gorm:"column:destination_longitude"`
	PlannedDeparture     time.Time              `gorm:"column:planned_departure;index:idx_flights_status_departure,priority:2;not null"`
	PlannedArrival       time.Time              `gorm:"column:planned_arrival;not null"`
	ActualDeparture      *time.Time             `gorm:"column:actual_departure"`
	ActualArrival        *time.Time             `gorm:"column:actual_arrival"`
	MaxAltitude          *float64               `gorm:"column:max_altitude"`
	MaxSpeed             *float64               `gorm:"column:max_speed"`
	DistanceTraveled     *float64               `gorm:"column:distance_traveled"`
	FuelConsumed         *float64               `gorm:"column:fuel_consumed"`
	Notes                string                 `gorm:"column:notes;type:text"`
	CreatedAt            time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Mission    Mission      `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE"`
	Pilot      User         `gorm:"foreignKey:PilotID;constraint:OnDelete:CASCADE"`
	FlightPath []FlightPath `gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}

type FlightPath struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	FlightID  uint      `gorm:"column:flight_id;index:idx_flight_path_flight_ts,priority:1;not null"`
	Timestamp time.Time `gorm:"column:timestamp;index:idx_flight_path_flight_ts,priority:2;not null"`
	Latitude  float64   `gorm:"column:latitude;not null"`
	Longitude float64   `gorm:"column:longitude;not null"`
	Altitude  float64   `gorm:"column:altitude;not null"`
	Speed     *float64  `gorm:"column:speed"`
	Heading   *float64  `gorm:"column:heading"`
}

// TableName specifies the table name for GORM
func (FlightPath) TableName() string {
	return "flight_paths"
}

// TelemetrySession groups telemetry and gyroscope records captured during a flight window.
type TelemetrySession struct {
	ID        uint       `gorm:"column:id;primaryKey"`
	FlightID  uint       `gorm:"column:flight_id;index;not null"`
	StartTime time.Time  `gorm:"column:start_time;not null"`
	EndTime   *time.Time `gorm:"column:end_time"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`

	Flight Flight `gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (TelemetrySession) TableName() string {
	return "telemetry_sessions"
}

// SessionTelemetry links a telemetry reading to a session.
type SessionTelemetry struct {
	SessionID       uint      `gorm:"column:session_id;primaryKey"`
	TelemetryDataID uint      `gorm:"column:telemetry_data_id;primaryKey;index"`
	LinkedAt        time.Time `gorm:"column:linked_at;autoCreateTime"`

	Session       TelemetrySession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	TelemetryData TelemetryData    `gorm:"foreignKey:TelemetryDataID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (SessionTelemetry) TableName() string {
	return "session_telemetry"
}

// SessionGyroscope links a gyroscope sample to a session.
type SessionGyroscope struct {
	SessionID       uint      `gorm:"column:session_id;primaryKey"`
	GyroscopeDataID uint      `gorm:"column:gyroscope_data_id;primaryKey;index"`
	LinkedAt        time.Time `gorm:"column:linked_at;autoCreateTime"`

	Session       TelemetrySession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	GyroscopeData GyroscopeData    `gorm:"foreignKey:GyroscopeDataID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (SessionGyroscope) TableName() string {
	return "session_gyroscope"
}

// FlightEvent is one entry of a flight's event log.
type FlightEvent struct {
	ID        uint                  `gorm:"column:id;primaryKey"`
	FlightID  uint                  `gorm:"column:flight_id;index:idx_flight_events_flight_ts,priority:1;not null"`
	Timestamp time.Time             `gorm:"column:timestamp;index:idx_flight_events_flight_ts,priority:2;not null"`
	EventType constants.EventType   `gorm:"column:event_type;size:10;not null"`
	Source    constants.EventSource `gorm:"column:source;size:10;not null"`
	Message   string                `gorm:"column:message;type:text;not null"`

	Flight Flight `gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (FlightEvent) TableName() string {
	return "flight_events"
}
