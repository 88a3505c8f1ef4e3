package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "astra/telemetry-backend/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionCounts holds how many records are linked to a session.
type SessionCounts struct {
	Telemetry int64
	Gyroscope int64
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) ListByFlight(ctx context.Context, flightID uint) ([]gormModels.TelemetrySession, error) {
	var sessions []gormModels.TelemetrySession
	err := r.db.WithContext(ctx).
		Preload("Flight").
		Where("flight_id = ?", flightID).
		Order("start_time DESC").Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uint) (*gormModels.TelemetrySession, error) {
	var session gormModels.TelemetrySession
	if err := r.db.WithContext(ctx).Preload("Flight").First(&session, id).Error; err != nil {
		return nil, wrapNotFound(err, "session")
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *gormModels.TelemetrySession) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Close stamps end_time on an open session. It reports false when the session was already closed.
func (r *SessionRepository) Close(ctx context.Context, id uint, end time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&gormModels.TelemetrySession{}).
		Where("id = ? AND end_time IS NULL", id).
		Update("end_time", end)
	if res.Error != nil {
		return false, fmt.Errorf("failed to close session: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Counts returns linked record counts keyed by session id.
func (r *SessionRepository) Counts(ctx context.Context, sessionIDs []uint) (map[uint]SessionCounts, error) {
	out := make(map[uint]SessionCounts, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return out, nil
	}

	type row struct {
		SessionID uint
		Count     int64
	}
	var telemetry, gyroscope []row

	if err := r.db.WithContext(ctx).Model(&gormModels.SessionTelemetry{}).
		Select("session_id, COUNT(*) AS count").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&telemetry).Error; err != nil {
		return nil, fmt.Errorf("failed to count session telemetry: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&gormModels.SessionGyroscope{}).
		Select("session_id, COUNT(*) AS count").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&gyroscope).Error; err != nil {
		return nil, fmt.Errorf("failed to count session gyroscope: %w", err)
	}

	for _, t := range telemetry {
		c := out[t.SessionID]
		c.Telemetry = t.Count
		out[t.SessionID] = c
	}
	for _, g := range gyroscope {
		c := out[g.SessionID]
		c.Gyroscope = g.Count
		out[g.SessionID] = c
	}
	return out, nil
}

// AttachTelemetry links readings to the session; links that already exist are skipped.
// When events is set it is called with the newly linked readings, oldest first,
// and the events it returns are stored in the same transaction.
// It returns the number of new links.
func (r *SessionRepository) AttachTelemetry(
	ctx context.Context,
	sessionID uint,
	ids []uint,
	events func([]gormModels.TelemetryData) []gormModels.FlightEvent,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var attached int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var linked []uint
		if err := tx.Model(&gormModels.SessionTelemetry{}).
			Where("session_id = ? AND telemetry_data_id IN ?", sessionID, ids).
			Pluck("telemetry_data_id", &linked).Error; err != nil {
			return fmt.Errorf("failed to load session links: %w", err)
		}
		seen := make(map[uint]bool, len(linked))
		for _, id := range linked {
			seen[id] = true
		}

		fresh := make([]uint, 0, len(ids))
		links := make([]gormModels.SessionTelemetry, 0, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			fresh = append(fresh, id)
			links = append(links, gormModels.SessionTelemetry{SessionID: sessionID, TelemetryDataID: id})
		}
		if len(links) == 0 {
			return nil
		}

		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&links)
		if res.Error != nil {
			return fmt.Errorf("failed to attach telemetry: %w", res.Error)
		}
		attached = res.RowsAffected
		if events == nil || attached == 0 {
			return nil
		}

		var readings []gormModels.TelemetryData
		if err := tx.Preload("Sensor").
			Where("id IN ?", fresh).
			Order("timestamp ASC").Order("id ASC").
			Find(&readings).Error; err != nil {
			return fmt.Errorf("failed to load attached telemetry: %w", err)
		}
		return createEvents(tx, events(readings))
	})
	if err != nil {
		return 0, err
	}
	return attached, nil
}

func (r *SessionRepository) AttachGyroscope(ctx context.Context, sessionID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	links := make([]gormModels.SessionGyroscope, 0, len(ids))
	for _, id := range ids {
		links = append(links, gormModels.SessionGyroscope{SessionID: sessionID, GyroscopeDataID: id})
	}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to attach gyroscope: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListTelemetry returns the readings linked to a session, oldest first.
func (r *SessionRepository) ListTelemetry(ctx context.Context, sessionID uint) ([]gormModels.TelemetryData, error) {
	var rows []gormModels.TelemetryData
	err := r.db.WithContext(ctx).
		Preload("Sensor").
		Joins("JOIN session_telemetry st ON st.telemetry_data_id = telemetry_data.id").
		Where("st.session_id = ?", sessionID).
		Order("telemetry_data.timestamp ASC").Order("telemetry_data.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list session telemetry: %w", err)
	}
	return rows, nil
}

func (r *SessionRepository) ListGyroscope(ctx context.Context, sessionID uint) ([]gormModels.GyroscopeData, error) {
	var rows []gormModels.GyroscopeData
	err := r.db.WithContext(ctx).
		Joins("JOIN session_gyroscope sg ON sg.gyroscope_data_id = gyroscope_data.id").
		Where("sg.session_id = ?", sessionID).
		Order("gyroscope_data.timestamp ASC").Order("gyroscope_data.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list session gyroscope: %w", err)
	}
	return rows, nil
}
