package dtos

import (
	"astra/telemetry-backend/internal/constants"
	"time"
)

// ---- AUTH ----

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshReq struct {
	Refresh string `json:"refresh"`
}

// ---- USERS ----

type CreateUserReq struct {
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Role            constants.Role `json:"role"`
	Department      *string        `json:"department"`
	Phone           *string        `json:"phone"`
	Password        string         `json:"password"`
	PasswordConfirm string         `json:"password_confirm"`
}

type UpdateUserReq struct {
	FirstName  *string         `json:"first_name"`
	LastName   *string         `json:"last_name"`
	Department *string         `json:"department"`
	Phone      *string         `json:"phone"`
	Role       *constants.Role `json:"role"`
	IsActive   *bool           `json:"is_active"`
}

type UpdateProfileReq struct {
	Avatar               *string `json:"avatar"`
	Bio                  *string `json:"bio"`
	Timezone             *string `json:"timezone"`
	Language             *string `json:"language"`
	Theme                *string `json:"theme"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}

type ChangePasswordReq struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// ---- MISSIONS / FLIGHTS ----

type MissionReq struct {
	Name         string                    `json:"name"`
	Description  string                    `json:"description"`
	Status       constants.MissionStatus   `json:"status"`
	Priority     constants.MissionPriority `json:"priority"`
	PlannedStart *time.Time                `json:"planned_start"`
	PlannedEnd   *time.Time                `json:"planned_end"`
	ActualStart  *time.Time                `json:"actual_start"`
	ActualEnd    *time.Time                `json:"actual_end"`
	AssignedTo   []uint                    `json:"assigned_to"`
}

// FlightReq is used for both create and update; nil fields are left untouched on update.
type FlightReq struct {
	Mission              *uint      `json:"mission"`
	FlightNumber         *string    `json:"flight_number"`
	AircraftID           *string    `json:"aircraft_id"`
	Pilot                *uint      `json:"pilot"`
	DepartureLocation    *string    `json:"departure_location"`
	DestinationLocation  *string    `json:"destination_location"`
	DepartureLatitude    *float64   `json:"departure_latitude"`
	DepartureLongitude   *float64   `json:"departure_longitude"`
	DestinationLatitude  *float64   `json:"destination_latitude"`
	DestinationLongitude *float64   `json:"destination_longitude"`
	PlannedDeparture     *time.Time `json:"planned_departure"`
	PlannedArrival       *time.Time `json:"planned_arrival"`
	MaxAltitude          *float64   `json:"max_altitude"`
	MaxSpeed             *float64   `json:"max_speed"`
	DistanceTraveled     *float64   `json:"distance_traveled"`
	FuelConsumed         *float64   `json:"fuel_consumed"`
	Notes                *string    `json:"notes"`
}

type FlightStatusReq struct {
	Status constants.FlightStatus `json:"status"`
	Notes  string                 `json:"notes"`
}

type FlightPathReq struct {
	Timestamp *time.Time `json:"timestamp"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Altitude  *float64   `json:"altitude"`
	Speed     *float64   `json:"speed"`
	Heading   *float64   `json:"heading"`
}

// FlightEventReq is an operator entry in the flight event log.
type FlightEventReq struct {
	EventType constants.EventType `json:"event_type"`
	Message   string              `json:"message"`
	Timestamp *time.Time          `json:"timestamp"`
}

type SessionReq struct {
	StartTime *time.Time `json:"start_time"`
}

type AttachReq struct {
	IDs []uint `json:"ids"`
}

// ---- TELEMETRY ----

type SensorReq struct {
	Name        string               `json:"name"`
	SensorType  constants.SensorType `json:"sensor_type"`
	Description string               `json:"description"`
	Unit        string               `json:"unit"`
	MinValue    *float64             `json:"min_value"`
	MaxValue    *float64             `json:"max_value"`
	IsActive    *bool                `json:"is_active"`
}

type TelemetryDataReq struct {
	Sensor    uint              `json:"sensor"`
	Value     *float64          `json:"value"`
	Timestamp *time.Time        `json:"timestamp"`
	Latitude  *float64          `json:"latitude"`
	Longitude *float64          `json:"longitude"`
	Altitude  *float64          `json:"altitude"`
	Quality   constants.Quality `json:"quality"`
}

type GyroscopeDataReq struct {
	Timestamp        *time.Time `json:"timestamp"`
	Roll             *float64   `json:"roll"`
	Pitch            *float64   `json:"pitch"`
	Yaw              *float64   `json:"yaw"`
	AngularVelocityX *float64   `json:"angular_velocity_x"`
	AngularVelocityY *float64   `json:"angular_velocity_y"`
	AngularVelocityZ *float64   `json:"angular_velocity_z"`
}

type AlertReq struct {
	Title         string              `json:"title"`
	Message       string              `json:"message"`
	AlertType     constants.AlertType `json:"alert_type"`
	Sensor        *uint               `json:"sensor"`
	TelemetryData *uint               `json:"telemetry_data"`
}

type AcknowledgeReq struct {
	AlertIDs *[]uint `json:"alert_ids"`
}
