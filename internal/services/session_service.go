package services

import (
	"context"
	"time"

	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"
)

// SessionReadings is everything recorded under one session.
type SessionReadings struct {
	Session   dtos.SessionResponse         `json:"session"`
	Telemetry []dtos.TelemetryDataResponse `json:"telemetry"`
	Gyroscope []dtos.GyroscopeDataResponse `json:"gyroscope"`
}

type SessionService struct {
	sessions  *repositories.SessionRepository
	flights   *repositories.FlightRepository
	telemetry *repositories.TelemetryRepository
	now       func() time.Time
}

func NewSessionService(sessions *repositories.SessionRepository, flights *repositories.FlightRepository, telemetry *repositories.TelemetryRepository) *SessionService {
	return &SessionService{
		sessions:  sessions,
		flights:   flights,
		telemetry: telemetry,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *SessionService) ListByFlight(ctx context.Context, flightID uint) ([]dtos.SessionResponse, error) {
	ok, err := s.flights.Exists(ctx, flightID)
	if err != nil {
		return nil, fromRepo("flight", err)
	}
	if !ok {
		return nil, notFound("flight")
	}

	sessions, err := s.sessions.ListByFlight(ctx, flightID)
	if err != nil {
		return nil, fromRepo("session", err)
	}
	ids := make([]uint, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	counts, err := s.sessions.Counts(ctx, ids)
	if err != nil {
		return nil, fromRepo("session", err)
	}

	out := make([]dtos.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		c := counts[sess.ID]
		out = append(out, dtos.NewSessionResponse(sess, c.Telemetry, c.Gyroscope))
	}
	return out, nil
}

func (s *SessionService) Get(ctx context.Context, id uint) (*dtos.SessionResponse, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("session", err)
	}
	counts, err := s.sessions.Counts(ctx, []uint{id})
	if err != nil {
		return nil, fromRepo("session", err)
	}
	c := counts[id]
	resp := dtos.NewSessionResponse(*sess, c.Telemetry, c.Gyroscope)
	return &resp, nil
}

// Create opens a session on the flight; start_time defaults to now.
func (s *SessionService) Create(ctx context.Context, flightID uint, req dtos.SessionReq) (*dtos.SessionResponse, error) {
	ok, err := s.flights.Exists(ctx, flightID)
	if err != nil {
		return nil, fromRepo("flight", err)
	}
	if !ok {
		return nil, notFound("flight")
	}

	start := s.now()
	if req.StartTime != nil {
		start = req.StartTime.UTC()
	}
	sess := &gormModels.TelemetrySession{FlightID: flightID, StartTime: start}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fromRepo("session", err)
	}
	logging.Info("telemetry session opened", "session_id", sess.ID, "flight_id", flightID)
	return s.Get(ctx, sess.ID)
}

// Close stamps end_time. Closing a closed session is a validation error.
func (s *SessionService) Close(ctx context.Context, id uint) (*dtos.SessionResponse, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("session", err)
	}

	end := s.now()
	if end.Before(sess.StartTime) {
		end = sess.StartTime
	}
	closed, err := s.sessions.Close(ctx, id, end)
	if err != nil {
		return nil, fromRepo("session", err)
	}
	if !closed {
		return nil, validationError("end_time", "Session is already closed")
	}
	logging.Info("telemetry session closed", "session_id", id)
	return s.Get(ctx, id)
}

// AttachTelemetry links existing readings to the session. Re-attaching is a no-op.
// Newly attached warning or critical readings are added to the flight event log.
func (s *SessionService) AttachTelemetry(ctx context.Context, id uint, req dtos.AttachReq) (*dtos.AttachResponse, error) {
	sess, ids, err := s.prepareAttach(ctx, id, req)
	if err != nil {
		return nil, err
	}
	n, err := s.telemetry.CountReadings(ctx, ids)
	if err != nil {
		return nil, fromRepo("telemetry", err)
	}
	if n != int64(len(ids)) {
		return nil, validationError("ids", "One or more telemetry readings do not exist")
	}

	attached, err := s.sessions.AttachTelemetry(ctx, id, ids, readingEvents(sess.FlightID))
	if err != nil {
		return nil, fromRepo("session", err)
	}
	return &dtos.AttachResponse{Session: id, Attached: attached}, nil
}

func (s *SessionService) AttachGyroscope(ctx context.Context, id uint, req dtos.AttachReq) (*dtos.AttachResponse, error) {
	_, ids, err := s.prepareAttach(ctx, id, req)
	if err != nil {
		return nil, err
	}
	n, err := s.telemetry.CountGyroscope(ctx, ids)
	if err != nil {
		return nil, fromRepo("gyroscope", err)
	}
	if n != int64(len(ids)) {
		return nil, validationError("ids", "One or more gyroscope samples do not exist")
	}

	attached, err := s.sessions.AttachGyroscope(ctx, id, ids)
	if err != nil {
		return nil, fromRepo("session", err)
	}
	return &dtos.AttachResponse{Session: id, Attached: attached}, nil
}

func (s *SessionService) prepareAttach(ctx context.Context, id uint, req dtos.AttachReq) (*gormModels.TelemetrySession, []uint, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fromRepo("session", err)
	}
	if req.IDs == nil {
		return nil, nil, validationError("ids", "This field is required")
	}
	return sess, dedupeIDs(req.IDs), nil
}

func (s *SessionService) Readings(ctx context.Context, id uint) (*SessionReadings, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	telemetry, err := s.sessions.ListTelemetry(ctx, id)
	if err != nil {
		return nil, fromRepo("session", err)
	}
	gyro, err := s.sessions.ListGyroscope(ctx, id)
	if err != nil {
		return nil, fromRepo("session", err)
	}
	return &SessionReadings{
		Session:   *sess,
		Telemetry: dtos.NewTelemetryDataResponses(telemetry),
		Gyroscope: dtos.NewGyroscopeDataResponses(gyro),
	}, nil
}
