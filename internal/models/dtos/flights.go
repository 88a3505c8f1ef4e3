package dtos

import (
	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"
	"time"
)

type MissionResponse struct {
	ID              uint                      `json:"id"`
	Name            string                    `json:"name"`
	Description     string                    `json:"description"`
	Status          constants.MissionStatus   `json:"status"`
	Priority        constants.MissionPriority `json:"priority"`
	PlannedStart    time.Time                 `json:"planned_start"`
	PlannedEnd      time.Time                 `json:"planned_end"`
	ActualStart     *time.Time                `json:"actual_start"`
	ActualEnd       *time.Time                `json:"actual_end"`
	CreatedBy       uint                      `json:"created_by"`
	CreatedByName   string                    `json:"created_by_name"`
	AssignedTo      []uint                    `json:"assigned_to"`
	AssignedToNames []string                  `json:"assigned_to_names"`
	DurationPlanned float64                   `json:"duration_planned"`
	DurationActual  *float64                  `json:"duration_actual"`
	FlightCount     int64                     `json:"flight_count"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

type FlightResponse struct {
	ID                   uint                   `json:"id"`
	Mission              uint                   `json:"mission"`
	MissionName          string                 `json:"mission_name"`
	FlightNumber         string                 `json:"flight_number"`
	AircraftID           string                 `json:"aircraft_id"`
	Pilot                uint                   `json:"pilot"`
	PilotName            string                 `json:"pilot_name"`
	Status               constants.FlightStatus `json:"status"`
	DepartureLocation    string                 `json:"departure_location"`
	DestinationLocation  string                 `json:"destination_location"`
	DepartureLatitude    *float64               `json:"departure_latitude"`
	DepartureLongitude   *float64               `json:"departure_longitude"`
	DestinationLatitude  *float64               `json:"destination_latitude"`
	DestinationLongitude *float64               `json:"destination_longitude"`
	PlannedDeparture     time.Time              `json:"planned_departure"`
	PlannedArrival       time.Time              `json:"planned_arrival"`
	ActualDeparture      *time.Time             `json:"actual_departure"`
	ActualArrival        *time.Time             `json:"actual_arrival"`
	MaxAltitude          *float64               `json:"max_altitude"`
	MaxSpeed             *float64               `json:"max_speed"`
	DistanceTraveled     *float64               `json:"distance_traveled"`
	FuelConsumed         *float64               `json:"fuel_consumed"`
	Notes                string                 `json:"notes"`
	DurationPlanned      float64                `json:"duration_planned"`
	DurationActual       *float64               `json:"duration_actual"`
	FlightPath           []FlightPathResponse   `json:"flight_path,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// FlightSummaryResponse is the compact shape used by list and history views.
type FlightSummaryResponse struct {
	ID                  uint                   `json:"id"`
	FlightNumber        string                 `json:"flight_number"`
	AircraftID          string                 `json:"aircraft_id"`
	MissionName         string                 `json:"mission_name"`
	PilotName           string                 `json:"pilot_name"`
	Status              constants.FlightStatus `json:"status"`
	DepartureLocation   string                 `json:"departure_location"`
	DestinationLocation string                 `json:"destination_location"`
	PlannedDeparture    time.Time              `json:"planned_departure"`
	PlannedArrival      time.Time              `json:"planned_arrival"`
	ActualDeparture     *time.Time             `json:"actual_departure"`
	ActualArrival       *time.Time             `json:"actual_arrival"`
}

type FlightPathResponse struct {
	ID        uint      `json:"id"`
	Flight    uint      `json:"flight"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
	Speed     *float64  `json:"speed"`
	Heading   *float64  `json:"heading"`
}

type FlightEventResponse struct {
	ID        uint                  `json:"id"`
	Flight    uint                  `json:"flight"`
	Timestamp time.Time             `json:"timestamp"`
	EventType constants.EventType   `json:"event_type"`
	Source    constants.EventSource `json:"source"`
	Message   string                `json:"message"`
}

type FlightTransitionResponse struct {
	Flight      FlightResponse           `json:"flight"`
	Previous    constants.FlightStatus   `json:"previous_status"`
	AllowedNext []constants.FlightStatus `json:"allowed_next"`
}

type SessionResponse struct {
	ID             uint       `json:"id"`
	Flight         uint       `json:"flight"`
	FlightNumber   string     `json:"flight_number"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	IsOpen         bool       `json:"is_open"`
	TelemetryCount int64      `json:"telemetry_count"`
	GyroscopeCount int64      `json:"gyroscope_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

type AttachResponse struct {
	Session  uint  `json:"session"`
	Attached int64 `json:"attached"`
}

type HistoryResponse struct {
	Results    []FlightResponse `json:"results"`
	Count      int64            `json:"count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

func durationSeconds(start, end time.Time) float64 {
	return end.Sub(start).Seconds()
}

func optionalDuration(start, end *time.Time) *float64 {
	if start == nil || end == nil {
		return nil
	}
	d := durationSeconds(*start, *end)
	return &d
}

// NewMissionResponse expects CreatedBy and AssignedTo to be preloaded.
func NewMissionResponse(m gormModels.Mission, flightCount int64) MissionResponse {
	assigned := make([]uint, 0, len(m.AssignedTo))
	names := make([]string, 0, len(m.AssignedTo))
	for _, u := range m.AssignedTo {
		assigned = append(assigned, u.ID)
		names = append(names, u.FullName())
	}
	return MissionResponse{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		Status:          m.Status,
		Priority:        m.Priority,
		PlannedStart:    m.PlannedStart,
		PlannedEnd:      m.PlannedEnd,
		ActualStart:     m.ActualStart,
		ActualEnd:       m.ActualEnd,
		CreatedBy:       m.CreatedByID,
		CreatedByName:   m.CreatedBy.FullName(),
		AssignedTo:      assigned,
		AssignedToNames: names,
		DurationPlanned: durationSeconds(m.PlannedStart, m.PlannedEnd),
		DurationActual:  optionalDuration(m.ActualStart, m.ActualEnd),
		FlightCount:     flightCount,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// NewFlightResponse expects Mission and Pilot to be preloaded; FlightPath is included when loaded.
func NewFlightResponse(f gormModels.Flight) FlightResponse {
	resp := FlightResponse{
		ID:                   f.ID,
		Mission:              f.MissionID,
		MissionName:          f.Mission.Name,
		FlightNumber:         f.FlightNumber,
		AircraftID:           f.AircraftID,
		Pilot:                f.PilotID,
		PilotName:            f.Pilot.FullName(),
		Status:               f.Status,
		DepartureLocation:    f.DepartureLocation,
		DestinationLocation:  f.DestinationLocation,
		DepartureLatitude:    f.DepartureLatitude,
		DepartureLongitude:   f.DepartureLongitude,
		DestinationLatitude:  f.DestinationLatitude,
		DestinationLongitude: f.DestinationLongitude,
		PlannedDeparture:     f.PlannedDeparture,
		PlannedArrival:       f.PlannedArrival,
		ActualDeparture:      f.ActualDeparture,
		ActualArrival:        f.ActualArrival,
		MaxAltitude:          f.MaxAltitude,
		MaxSpeed:             f.MaxSpeed,
		DistanceTraveled:     f.DistanceTraveled,
		FuelConsumed:         f.FuelConsumed,
		Notes:                f.Notes,
		DurationPlanned:      durationSeconds(f.PlannedDeparture, f.PlannedArrival),
		DurationActual:       optionalDuration(f.ActualDeparture, f.ActualArrival),
		CreatedAt:            f.CreatedAt,
		UpdatedAt:            f.UpdatedAt,
	}
	if len(f.FlightPath) > 0 {
		resp.FlightPath = NewFlightPathResponses(f.FlightPath)
	}
	return resp
}

func NewFlightSummaryResponse(f gormModels.Flight) FlightSummaryResponse {
	return FlightSummaryResponse{
		ID:                  f.ID,
		FlightNumber:        f.FlightNumber,
		AircraftID:          f.AircraftID,
		MissionName:         f.Mission.Name,
		PilotName:           f.Pilot.FullName(),
		Status:              f.Status,
		DepartureLocation:   f.DepartureLocation,
		DestinationLocation: f.DestinationLocation,
		PlannedDeparture:    f.PlannedDeparture,
		PlannedArrival:      f.PlannedArrival,
		ActualDeparture:     f.ActualDeparture,
		ActualArrival:       f.ActualArrival,
	}
}

func NewFlightResponses(flights []gormModels.Flight) []FlightResponse {
	out := make([]FlightResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, NewFlightResponse(f))
	}
	return out
}

func NewFlightSummaryResponses(flights []gormModels.Flight) []FlightSummaryResponse {
	out := make([]FlightSummaryResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, NewFlightSummaryResponse(f))
	}
	return out
}

func NewFlightPathResponse(p gormModels.FlightPath) FlightPathResponse {
	return FlightPathResponse{
		ID:        p.ID,
		Flight:    p.FlightID,
		Timestamp: p.Timestamp,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Altitude:  p.Altitude,
		Speed:     p.Speed,
		Heading:   p.Heading,
	}
}

func NewFlightPathResponses(points []gormModels.FlightPath) []FlightPathResponse {
	out := make([]FlightPathResponse, 0, len(points))
	for _, p := range points {
		out = append(out, NewFlightPathResponse(p))
	}
	return out
}

func NewFlightEventResponses(events []gormModels.FlightEvent) []FlightEventResponse {
	out := make([]FlightEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, FlightEventResponse{
			ID:        e.ID,
			Flight:    e.FlightID,
			Timestamp: e.Timestamp,
			EventType: e.EventType,
			Source:    e.Source,
			Message:   e.Message,
		})
	}
	return out
}

// NewSessionResponse expects Flight to be preloaded.
func NewSessionResponse(s gormModels.TelemetrySession, telemetryCount, gyroscopeCount int64) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		Flight:         s.FlightID,
		FlightNumber:   s.Flight.FlightNumber,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		IsOpen:         s.EndTime == nil,
		TelemetryCount: telemetryCount,
		GyroscopeCount: gyroscopeCount,
		CreatedAt:      s.CreatedAt,
	}
}
