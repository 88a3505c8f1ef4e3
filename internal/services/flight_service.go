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

type FlightService struct {
	flights     *repositories.FlightRepository
	events      *repositories.FlightEventRepository
	missions    *repositories.MissionRepository
	users       *repositories.UserRepositoryGORM
	metrics     *metrics.MetricsRegistry
	invalidator StatsInvalidator
	now         func() time.Time
}

func NewFlightService(
	flights *repositories.FlightRepository,
	events *repositories.FlightEventRepository,
	missions *repositories.MissionRepository,
	users *repositories.UserRepositoryGORM,
	m *metrics.MetricsRegistry,
	inv StatsInvalidator,
) *FlightService {
	return &FlightService{
		flights:     flights,
		events:      events,
		missions:    missions,
		users:       users,
		metrics:     m,
		invalidator: invalidatorOrNoop(inv),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func checkLatitude(fe FieldErrors, field string, v *float64) {
	if v != nil && (*v < -90 || *v > 90) {
		fe.Add(field, "Latitude must be between -90 and 90")
	}
}

func checkLongitude(fe FieldErrors, field string, v *float64) {
	if v != nil && (*v < -180 || *v > 180) {
		fe.Add(field, "Longitude must be between -180 and 180")
	}
}

func checkNonNegative(fe FieldErrors, field string, v *float64) {
	if v != nil && *v < 0 {
		fe.Add(field, "Must not be negative")
	}
}

func requiredString(fe FieldErrors, field string, v *string, maxLen int) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		fe.Add(field, "This field is required")
		return ""
	}
	s := strings.TrimSpace(*v)
	if len(s) > maxLen {
		fe.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters", maxLen))
	}
	return s
}

// checkRefs verifies that referenced mission and pilot exist.
func (s *FlightService) checkRefs(ctx context.Context, fe FieldErrors, missionID, pilotID *uint) error {
	if missionID != nil {
		ok, err := s.missions.Exists(ctx, *missionID)
		if err != nil {
			return fromRepo("mission", err)
		}
		if !ok {
			fe.Add("mission", "Mission does not exist")
		}
	}
	if pilotID != nil {
		n, err := s.users.CountExisting(ctx, []uint{*pilotID})
		if err != nil {
			return fromRepo("user", err)
		}
		if n == 0 {
			fe.Add("pilot", "Pilot does not exist")
		}
	}
	return nil
}

func (s *FlightService) checkFlightNumber(ctx context.Context, fe FieldErrors, number string, excludeID uint) error {
	if number == "" {
		return nil
	}
	taken, err := s.flights.FlightNumberTaken(ctx, number, excludeID)
	if err != nil {
		return fromRepo("flight", err)
	}
	if taken {
		fe.Add("flight_number", "A flight with this flight number already exists")
	}
	return nil
}

func validateFlightMetrics(fe FieldErrors, req dtos.FlightReq) {
	checkLatitude(fe, "departure_latitude", req.DepartureLatitude)
	checkLongitude(fe, "departure_longitude", req.DepartureLongitude)
	checkLatitude(fe, "destination_latitude", req.DestinationLatitude)
	checkLongitude(fe, "destination_longitude", req.DestinationLongitude)
	checkNonNegative(fe, "max_altitude", req.MaxAltitude)
	checkNonNegative(fe, "max_speed", req.MaxSpeed)
	checkNonNegative(fe, "distance_traveled", req.DistanceTraveled)
	checkNonNegative(fe, "fuel_consumed", req.FuelConsumed)
}

func (s *FlightService) List(ctx context.Context, f repositories.FlightFilter) ([]dtos.FlightResponse, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationError("status", "Invalid flight status")
	}
	flights, err := s.flights.List(ctx, f)
	if err != nil {
		return nil, fromRepo("flight", err)
	}
	return dtos.NewFlightResponses(flights), nil
}

// Get returns the flight with its path points.
func (s *FlightService) Get(ctx context.Context, id uint) (*dtos.FlightResponse, error) {
	flight, err := s.flights.GetByID(ctx, id, true)
	if err != nil {
		return nil, fromRepo("flight", err)
	}
	resp := dtos.NewFlightResponse(*flight)
	return &resp, nil
}

// Create stores a new flight in pre_flight.
func (s *FlightService) Create(ctx context.Context, req dtos.FlightReq) (*dtos.FlightResponse, error) {
	fe := FieldErrors{}

	number := requiredString(fe, "flight_number", req.FlightNumber, 50)
	aircraft := requiredString(fe, "aircraft_id", req.AircraftID, 100)
	departure := requiredString(fe, "departure_location", req.DepartureLocation, 200)
	destination := requiredString(fe, "destination_location", req.DestinationLocation, 200)
	if req.Mission == nil {
		fe.Add("mission", "This field is required")
	}
	if req.Pilot == nil {
		fe.Add("pilot", "This field is required")
	}
	if req.PlannedDeparture == nil {
		fe.Add("planned_departure", "This field is required")
	}
	if req.PlannedArrival == nil {
		fe.Add("planned_arrival", "This field is required")
	}
	if req.PlannedDeparture != nil && req.PlannedArrival != nil && req.PlannedArrival.Before(*req.PlannedDeparture) {
		fe.Add("planned_arrival", "planned_arrival must not be before planned_departure")
	}
	validateFlightMetrics(fe, req)

	if err := s.checkRefs(ctx, fe, req.Mission, req.Pilot); err != nil {
		return nil, err
	}
	if err := s.checkFlightNumber(ctx, fe, number, 0); err != nil {
		return nil, err
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	flight := &gormModels.Flight{
		MissionID:            *req.Mission,
		FlightNumber:         number,
		AircraftID:           aircraft,
		PilotID:              *req.Pilot,
		Status:               constants.FlightPreFlight,
		DepartureLocation:    departure,
		DestinationLocation:  destination,
		DepartureLatitude:    req.DepartureLatitude,
		DepartureLongitude:   req.DepartureLongitude,
		DestinationLatitude:  req.DestinationLatitude,
		DestinationLongitude: req.DestinationLongitude,
		PlannedDeparture:     req.PlannedDeparture.UTC(),
		PlannedArrival:       req.PlannedArrival.UTC(),
		MaxAltitude:          req.MaxAltitude,
		MaxSpeed:             req.MaxSpeed,
		DistanceTraveled:     req.DistanceTraveled,
		FuelConsumed:         req.FuelConsumed,
	}
	if req.Notes != nil {
		flight.Notes = *req.Notes
	}

	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, fromRepo("flight", err)
	}
	s.invalidator.Invalidate()

	logging.Info("flight created", "flight_id", flight.ID, "flight_number", flight.FlightNumber)
	return s.Get(ctx, flight.ID)
}

// Update changes writable fields. Status only moves through UpdateStatus.
func (s *FlightService) Update(ctx context.Context, id uint, req dtos.FlightReq) (*dtos.FlightResponse, error) {
	current, err := s.flights.GetByID(ctx, id, false)
	if err != nil {
		return nil, fromRepo("flight", err)
	}

	fe := FieldErrors{}
	updates := map[string]any{}

	if req.FlightNumber != nil {
		number := requiredString(fe, "flight_number", req.FlightNumber, 50)
		if err := s.checkFlightNumber(ctx, fe, number, id); err != nil {
			return nil, err
		}
		updates["flight_number"] = number
	}
	if req.AircraftID != nil {
		updates["aircraft_id"] = requiredString(fe, "aircraft_id", req.AircraftID, 100)
	}
	if req.DepartureLocation != nil {
		updates["departure_location"] = requiredString(fe, "departure_location", req.DepartureLocation, 200)
	}
	if req.DestinationLocation != nil {
		updates["destination_location"] = requiredString(fe, "destination_location", req.DestinationLocation, 200)
	}
	if req.Mission != nil {
		updates["mission_id"] = *req.Mission
	}
	if req.Pilot != nil {
		updates["pilot_id"] = *req.Pilot
	}
	if err := s.checkRefs(ctx, fe, req.Mission, req.Pilot); err != nil {
		return nil, err
	}

	departure, arrival := current.PlannedDeparture, current.PlannedArrival
	if req.PlannedDeparture != nil {
		departure = req.PlannedDeparture.UTC()
		updates["planned_departure"] = departure
	}
	if req.PlannedArrival != nil {
		arrival = req.PlannedArrival.UTC()
		updates["planned_arrival"] = arrival
	}
	if arrival.Before(departure) {
		fe.Add("planned_arrival", "planned_arrival must not be before planned_departure")
	}

	validateFlightMetrics(fe, req)
	optional := map[string]*float64{
		"departure_latitude":    req.DepartureLatitude,
		"departure_longitude":   req.DepartureLongitude,
		"destination_latitude":  req.DestinationLatitude,
		"destination_longitude": req.DestinationLongitude,
		"max_altitude":          req.MaxAltitude,
		"max_speed":             req.MaxSpeed,
		"distance_traveled":     req.DistanceTraveled,
		"fuel_consumed":         req.FuelConsumed,
	}
	for col, v := range optional {
		if v != nil {
			updates[col] = *v
		}
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := fe.Err(); err != nil {
		return nil, err
	}

	if err := s.flights.Update(ctx, id, updates); err != nil {
		return nil, fromRepo("flight", err)
	}
	s.invalidator.Invalidate()
	return s.Get(ctx, id)
}

func (s *FlightService) Delete(ctx context.Context, id uint) error {
	if err := s.flights.Delete(ctx, id); err != nil {
		return fromRepo("flight", err)
	}
	s.invalidator.Invalidate()
	logging.Info("flight deleted", "flight_id", id)
	return nil
}

// UpdateStatus moves a flight along the lifecycle table. Entering active stamps
// actual_departure once; entering landed or aborted stamps actual_arrival once.
// A non-empty note is appended to the flight notes with a timestamp. Each
// applied transition is written to the flight event log.
func (s *FlightService) UpdateStatus(ctx context.Context, caller auth.UserClaims, id uint, req dtos.FlightStatusReq) (*dtos.FlightTransitionResponse, error) {
	if req.Status == "" {
		return nil, validationError("status", "This field is required")
	}
	if !req.Status.Valid() {
		return nil, validationError("status", fmt.Sprintf("Invalid flight status %q", req.Status))
	}

	flight, err := s.flights.GetByID(ctx, id, false)
	if err != nil {
		return nil, fromRepo("flight", err)
	}

	prev := flight.Status
	if !prev.CanTransitionTo(req.Status) {
		return nil, invalidTransition(prev, req.Status)
	}

	now := s.now()
	updates := map[string]any{"status": req.Status}

	if req.Status == constants.FlightActive && flight.ActualDeparture == nil {
		updates["actual_departure"] = now
	}
	if (req.Status == constants.FlightLanded || req.Status == constants.FlightAborted) && flight.ActualArrival == nil {
		updates["actual_arrival"] = now
	}
	note := strings.TrimSpace(req.Notes)
	if note != "" {
		updates["notes"] = AppendNote(flight.Notes, note, now)
	}

	applied, err := s.flights.UpdateStatus(ctx, id, prev, updates, statusEvent(prev, req.Status, note, now))
	if err != nil {
		return nil, fromRepo("flight", err)
	}
	if !applied {
		// Another request moved the flight between our read and write.
		current, err := s.flights.GetByID(ctx, id, false)
		if err != nil {
			return nil, fromRepo("flight", err)
		}
		return nil, invalidTransition(current.Status, req.Status)
	}
	s.invalidator.Invalidate()

	if s.metrics != nil {
		s.metrics.FlightTransitionsTotal.WithLabelValues(string(prev), string(req.Status)).Inc()
	}
	logging.Info("flight status changed",
		"flight_id", id,
		"from", prev,
		"to", req.Status,
		"user_id", caller.UserID(),
	)

	resp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dtos.FlightTransitionResponse{
		Flight:      *resp,
		Previous:    prev,
		AllowedNext: req.Status.AllowedNext(),
	}, nil
}

func invalidTransition(from, to constants.FlightStatus) *ServiceError {
	return &ServiceError{
		Code:    constants.ErrCodeInvalidTransition,
		Message: fmt.Sprintf("Cannot change status from %s to %s", from, to),
		Fields:  map[string]string{"status": fmt.Sprintf("Transition %s -> %s is not allowed", from, to)},
	}
}

// AppendNote adds "YYYY-MM-DD HH:MM: note" as a new line.
func AppendNote(existing, note string, at time.Time) string {
	line := fmt.Sprintf("%s: %s", at.Format(constants.NoteTimestampLayout), note)
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}

func (s *FlightService) ListPath(ctx context.Context, flightID uint) ([]dtos.FlightPathResponse, error) {
	if err := s.requireFlight(ctx, flightID); err != nil {
		return nil, err
	}
	points, err := s.flights.ListPath(ctx, flightID)
	if err != nil {
		return nil, fromRepo("flight path", err)
	}
	return dtos.NewFlightPathResponses(points), nil
}

func (s *FlightService) AddPathPoint(ctx context.Context, flightID uint, req dtos.FlightPathReq) (*dtos.FlightPathResponse, error) {
	if err := s.requireFlight(ctx, flightID); err != nil {
		return nil, err
	}

	fe := FieldErrors{}
	if req.Latitude == nil {
		fe.Add("latitude", "This field is required")
	}
	if req.Longitude == nil {
		fe.Add("longitude", "This field is required")
	}
	if req.Altitude == nil {
		fe.Add("altitude", "This field is required")
	}
	checkLatitude(fe, "latitude", req.Latitude)
	checkLongitude(fe, "longitude", req.Longitude)
	checkNonNegative(fe, "speed", req.Speed)
	if req.Heading != nil && (*req.Heading < 0 || *req.Heading >= 360) {
		fe.Add("heading", "Heading must be in [0, 360)")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	ts := s.now()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}
	point := &gormModels.FlightPath{
		FlightID:  flightID,
		Timestamp: ts,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Altitude:  *req.Altitude,
		Speed:     req.Speed,
		Heading:   req.Heading,
	}
	if err := s.flights.AddPathPoint(ctx, point); err != nil {
		return nil, fromRepo("flight path", err)
	}
	resp := dtos.NewFlightPathResponse(*point)
	return &resp, nil
}

func (s *FlightService) requireFlight(ctx context.Context, id uint) error {
	ok, err := s.flights.Exists(ctx, id)
	if err != nil {
		return fromRepo("flight", err)
	}
	if !ok {
		return notFound("flight")
	}
	return nil
}
