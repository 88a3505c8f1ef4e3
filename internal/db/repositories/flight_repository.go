package repositories

import (
	"context"
	"fmt"
	"time"

	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlightFilter struct {
	Status    constants.FlightStatus
	MissionID uint
	PilotID   uint
	Search    string
}

// HistoryFilter bounds planned_departure to [From, To) when set.
type HistoryFilter struct {
	From      *time.Time
	To        *time.Time
	MissionID uint
	PilotID   uint
}

type FlightRepository struct {
	db *gorm.DB
}

func NewFlightRepository(db *gorm.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Mission").Preload("Pilot")
}

func (r *FlightRepository) List(ctx context.Context, f FlightFilter) ([]gormModels.Flight, error) {
	q := r.withRefs(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.MissionID != 0 {
		q = q.Where("mission_id = ?", f.MissionID)
	}
	if f.PilotID != 0 {
		q = q.Where("pilot_id = ?", f.PilotID)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(likeClause("flight_number", "aircraft_id", "departure_location", "destination_location"), p, p, p, p)
	}

	var flights []gormModels.Flight
	if err := q.Order("created_at DESC").Order("id DESC").Find(&flights).Error; err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	return flights, nil
}

func (r *FlightRepository) ListByStatus(ctx context.Context, status constants.FlightStatus) ([]gormModels.Flight, error) {
	return r.List(ctx, FlightFilter{Status: status})
}

// GetByID loads the flight with mission, pilot and, when withPath is set, its path ordered by time.
func (r *FlightRepository) GetByID(ctx context.Context, id uint, withPath bool) (*gormModels.Flight, error) {
	q := r.withRefs(ctx)
	if withPath {
		q = q.Preload("FlightPath", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC").Order("id ASC")
		})
	}

	var flight gormModels.Flight
	if err := q.First(&flight, id).Error; err != nil {
		return nil, wrapNotFound(err, "flight")
	}
	return &flight, nil
}

func (r *FlightRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&gormModels.Flight{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check flight: %w", err)
	}
	return count > 0, nil
}

func (r *FlightRepository) FlightNumberTaken(ctx context.Context, number string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gormModels.Flight{}).
		Where("flight_number = ? AND id <> ?", number, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check flight number: %w", err)
	}
	return count > 0, nil
}

func (r *FlightRepository) Create(ctx context.Context, flight *gormModels.Flight) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(flight).Error; err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}
	return nil
}

func (r *FlightRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&gormModels.Flight{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update flight: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("flight: %w", ErrNotFound)
	}
	return nil
}

// UpdateStatus writes the transition only while the row still holds prev,
// together with event when given. It reports false when another writer moved
// the flight first; no event is stored in that case.
func (r *FlightRepository) UpdateStatus(ctx context.Context, id uint, prev constants.FlightStatus, updates map[string]any, event *gormModels.FlightEvent) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&gormModels.Flight{}).
			Where("id = ? AND status = ?", id, prev).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update flight status: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return nil
		}
		applied = true
		if event == nil {
			return nil
		}
		event.FlightID = id
		return createEvent(tx, event)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *FlightRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var flight gormModels.Flight
		if err := tx.Select("id").First(&flight, id).Error; err != nil {
			return wrapNotFound(err, "flight")
		}
		return deleteFlightsTx(tx, []uint{id})
	})
}

func (r *FlightRepository) ListPath(ctx context.Context, flightID uint) ([]gormModels.FlightPath, error) {
	var points []gormModels.FlightPath
	err := r.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Order("timestamp ASC").Order("id ASC").
		Find(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list flight path: %w", err)
	}
	return points, nil
}

// AddPathPoint stores the point and raises the flight's max altitude / speed when exceeded.
func (r *FlightRepository) AddPathPoint(ctx context.Context, point *gormModels.FlightPath) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(point).Error; err != nil {
			return fmt.Errorf("failed to create path point: %w", err)
		}
		if err := tx.Model(&gormModels.Flight{}).
			Where("id = ? AND (max_altitude IS NULL OR max_altitude < ?)", point.FlightID, point.Altitude).
			Update("max_altitude", point.Altitude).Error; err != nil {
			return fmt.Errorf("failed to update max altitude: %w", err)
		}
		if point.Speed != nil {
			if err := tx.Model(&gormModels.Flight{}).
				Where("id = ? AND (max_speed IS NULL OR max_speed < ?)", point.FlightID, *point.Speed).
				Update("max_speed", *point.Speed).Error; err != nil {
				return fmt.Errorf("failed to update max speed: %w", err)
			}
		}
		return nil
	})
}

func historyScope(f HistoryFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.From != nil {
			db = db.Where("planned_departure >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where("planned_departure < ?", *f.To)
		}
		if f.MissionID != 0 {
			db = db.Where("mission_id = ?", f.MissionID)
		}
		if f.PilotID != 0 {
			db = db.Where("pilot_id = ?", f.PilotID)
		}
		return db
	}
}

// CountHistory returns how many flights match f.
func (r *FlightRepository) CountHistory(ctx context.Context, f HistoryFilter) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&gormModels.Flight{}).Scopes(historyScope(f)).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count flight history: %w", err)
	}
	return total, nil
}

// History returns one page of flights ordered by planned departure, newest first, plus the total match count.
// An offset at or past the total yields no rows.
func (r *FlightRepository) History(ctx context.Context, f HistoryFilter, offset, limit int) ([]gormModels.Flight, int64, error) {
	total, err := r.CountHistory(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if offset < 0 || int64(offset) >= total {
		return nil, total, nil
	}

	var flights []gormModels.Flight
	err = r.withRefs(ctx).Scopes(historyScope(f)).
		Order("planned_departure DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&flights).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load flight history: %w", err)
	}
	return flights, total, nil
}

// deleteFlightsTx removes flights together with their path points, events and sessions.
func deleteFlightsTx(tx *gorm.DB, flightIDs []uint) error {
	if len(flightIDs) == 0 {
		return nil
	}
	sessions := tx.Model(&gormModels.TelemetrySession{}).Select("id").Where("flight_id IN ?", flightIDs)

	if err := tx.Where("session_id IN (?)", sessions).Delete(&gormModels.SessionTelemetry{}).Error; err != nil {
		return fmt.Errorf("failed to unlink session telemetry: %w", err)
	}
	if err := tx.Where("session_id IN (?)", sessions).Delete(&gormModels.SessionGyroscope{}).Error; err != nil {
		return fmt.Errorf("failed to unlink session gyroscope: %w", err)
	}
	if err := tx.Where("flight_id IN ?", flightIDs).Delete(&gormModels.TelemetrySession{}).Error; err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	if err := tx.Where("flight_id IN ?", flightIDs).Delete(&gormModels.FlightPath{}).Error; err != nil {
		return fmt.Errorf("failed to delete flight path: %w", err)
	}
	if err := tx.Where("flight_id IN ?", flightIDs).Delete(&gormModels.FlightEvent{}).Error; err != nil {
		return fmt.Errorf("failed to delete flight events: %w", err)
	}
	if err := tx.Where("id IN ?", flightIDs).Delete(&gormModels.Flight{}).Error; err != nil {
		return fmt.Errorf("failed to delete flights: %w", err)
	}
	return nil
}
