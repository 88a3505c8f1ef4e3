package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"
)

const maxEventMessageLen = 2000

// statusEvent describes a lifecycle transition for the flight event log.
func statusEvent(prev, next constants.FlightStatus, note string, at time.Time) *gormModels.FlightEvent {
	kind := constants.EventInfo
	switch next {
	case constants.FlightEmergency:
		kind = constants.EventError
	case constants.FlightAborted:
		kind = constants.EventWarning
	}
	msg := fmt.Sprintf("Status changed from %s to %s", prev, next)
	if note != "" {
		msg += ": " + note
	}
	return &gormModels.FlightEvent{
		Timestamp: at,
		EventType: kind,
		Source:    constants.EventSourceSystem,
		Message:   msg,
	}
}

// readingEvents returns a builder that logs every warning or critical
// reading newly attached to one of flightID's sessions.
func readingEvents(flightID uint) func([]gormModels.TelemetryData) []gormModels.FlightEvent {
	return func(readings []gormModels.TelemetryData) []gormModels.FlightEvent {
		var out []gormModels.FlightEvent
		for _, r := range readings {
			var kind constants.EventType
			switch r.Quality {
			case constants.QualityWarning:
				kind = constants.EventWarning
			case constants.QualityCritical:
				kind = constants.EventError
			default:
				continue
			}
			out = append(out, gormModels.FlightEvent{
				FlightID:  flightID,
				Timestamp: r.Timestamp,
				EventType: kind,
				Source:    constants.EventSourceSensor,
				Message: fmt.Sprintf("%s reading %s %s is %s",
					r.Sensor.Name, strconv.FormatFloat(r.Value, 'f', -1, 64), r.Sensor.Unit, r.Quality),
			})
		}
		return out
	}
}

// ListEvents returns the flight's event log, oldest first.
func (s *FlightService) ListEvents(ctx context.Context, flightID uint) ([]dtos.FlightEventResponse, error) {
	if err := s.requireFlight(ctx, flightID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByFlight(ctx, flightID)
	if err != nil {
		return nil, fromRepo("flight event", err)
	}
	return dtos.NewFlightEventResponses(events), nil
}

// AddEvent records an operator entry; event_type defaults to info and
// timestamp to now.
func (s *FlightService) AddEvent(ctx context.Context, caller auth.UserClaims, flightID uint, req dtos.FlightEventReq) (*dtos.FlightEventResponse, error) {
	if err := s.requireFlight(ctx, flightID); err != nil {
		return nil, err
	}

	fe := FieldErrors{}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		fe.Add("message", "This field is required")
	} else if len(msg) > maxEventMessageLen {
		fe.Add("message", fmt.Sprintf("Ensure this field has no more than %d characters", maxEventMessageLen))
	}
	kind := req.EventType
	if kind == "" {
		kind = constants.EventInfo
	}
	if !kind.Valid() {
		fe.Add("event_type", fmt.Sprintf("Invalid event type %q", req.EventType))
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	at := s.now()
	if req.Timestamp != nil {
		at = req.Timestamp.UTC()
	}
	event := &gormModels.FlightEvent{
		FlightID:  flightID,
		Timestamp: at,
		EventType: kind,
		Source:    constants.EventSourceOperator,
		Message:   msg,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fromRepo("flight event", err)
	}
	logging.Info("flight event recorded", "flight_id", flightID, "event_id", event.ID, "user_id", caller.UserID())

	resp := dtos.NewFlightEventResponses([]gormModels.FlightEvent{*event})
	return &resp[0], nil
}

var flightCSVHeader = []string{
	"id", "flight_number", "mission", "pilot", "aircraft_id", "status",
	"departure_location", "destination_location",
	"planned_departure", "planned_arrival", "actual_departure", "actual_arrival",
}

func csvTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ExportCSV writes the flights matching f as CSV with a header row.
func (s *FlightService) ExportCSV(ctx context.Context, f repositories.FlightFilter, w io.Writer) error {
	if f.Status != "" && !f.Status.Valid() {
		return validationError("status", "Invalid flight status")
	}
	flights, err := s.flights.List(ctx, f)
	if err != nil {
		return fromRepo("flight", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(flightCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, fl := range flights {
		record := []string{
			strconv.FormatUint(uint64(fl.ID), 10),
			fl.FlightNumber,
			fl.Mission.Name,
			fl.Pilot.Username,
			fl.AircraftID,
			string(fl.Status),
			fl.DepartureLocation,
			fl.DestinationLocation,
			csvTime(&fl.PlannedDeparture),
			csvTime(&fl.PlannedArrival),
			csvTime(fl.ActualDeparture),
			csvTime(fl.ActualArrival),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
