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

// ReadingFilter bounds timestamp to [From, To) when set.
type ReadingFilter struct {
	SensorID uint
	Quality  constants.Quality
	From     *time.Time
	To       *time.Time
	Limit    int
}

type TelemetryRepository struct {
	db *gorm.DB
}

func NewTelemetryRepository(db *gorm.DB) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

// CreateReading stores the reading and, when alert is non-nil, an alert pointing at it, atomically.
func (r *TelemetryRepository) CreateReading(ctx context.Context, reading *gormModels.TelemetryData, alert *gormModels.Alert) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(reading).Error; err != nil {
			return fmt.Errorf("failed to create reading: %w", err)
		}
		if alert == nil {
			return nil
		}
		alert.TelemetryDataID = &reading.ID
		if err := tx.Omit(clause.Associations).Create(alert).Error; err != nil {
			return fmt.Errorf("failed to create reading alert: %w", err)
		}
		return nil
	})
}

func (r *TelemetryRepository) GetReading(ctx context.Context, id uint) (*gormModels.TelemetryData, error) {
	var reading gormModels.TelemetryData
	if err := r.db.WithContext(ctx).Preload("Sensor").First(&reading, id).Error; err != nil {
		return nil, wrapNotFound(err, "telemetry reading")
	}
	return &reading, nil
}

func (r *TelemetryRepository) ListReadings(ctx context.Context, f ReadingFilter) ([]gormModels.TelemetryData, error) {
	q := r.db.WithContext(ctx).Preload("Sensor")
	if f.SensorID != 0 {
		q = q.Where("sensor_id = ?", f.SensorID)
	}
	if f.Quality != "" {
		q = q.Where("quality = ?", f.Quality)
	}
	if f.From != nil {
		q = q.Where("timestamp >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("timestamp < ?", *f.To)
	}

	var rows []gormModels.TelemetryData
	if err := q.Order("timestamp DESC").Order("id DESC").Limit(f.Limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list telemetry: %w", err)
	}
	return rows, nil
}

// Latest returns the newest readings, newest first. A non-zero flightID keeps
// only readings linked to one of that flight's sessions.
func (r *TelemetryRepository) Latest(ctx context.Context, flightID uint, limit int) ([]gormModels.TelemetryData, error) {
	q := r.db.WithContext(ctx).Preload("Sensor")
	if flightID != 0 {
		linked := r.db.Table("session_telemetry st").
			Select("st.telemetry_data_id").
			Joins("JOIN telemetry_sessions ts ON ts.id = st.session_id").
			Where("ts.flight_id = ?", flightID)
		q = q.Where("telemetry_data.id IN (?)", linked)
	}

	var rows []gormModels.TelemetryData
	if err := q.Order("telemetry_data.timestamp DESC").Order("telemetry_data.id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load latest telemetry: %w", err)
	}
	return rows, nil
}

// CountReadings returns how many of ids exist.
func (r *TelemetryRepository) CountReadings(ctx context.Context, ids []uint) (int64, error) {
	return countIDs(ctx, r.db, &gormModels.TelemetryData{}, ids)
}

func (r *TelemetryRepository) CreateGyroscope(ctx context.Context, sample *gormModels.GyroscopeData) error {
	if err := r.db.WithContext(ctx).Create(sample).Error; err != nil {
		return fmt.Errorf("failed to create gyroscope sample: %w", err)
	}
	return nil
}

func (r *TelemetryRepository) ListGyroscope(ctx context.Context, f ReadingFilter) ([]gormModels.GyroscopeData, error) {
	q := r.db.WithContext(ctx)
	if f.From != nil {
		q = q.Where("timestamp >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("timestamp < ?", *f.To)
	}

	var rows []gormModels.GyroscopeData
	if err := q.Order("timestamp DESC").Order("id DESC").Limit(f.Limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list gyroscope data: %w", err)
	}
	return rows, nil
}

func (r *TelemetryRepository) CountGyroscope(ctx context.Context, ids []uint) (int64, error) {
	return countIDs(ctx, r.db, &gormModels.GyroscopeData{}, ids)
}

func countIDs(ctx context.Context, db *gorm.DB, model any, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ids: %w", err)
	}
	return count, nil
}
