package repositories

import (
	"context"
	"fmt"

	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"gorm.io/gorm"
)

type SensorFilter struct {
	SensorType constants.SensorType
	IsActive   *bool
	Search     string
}

type SensorRepository struct {
	db *gorm.DB
}

func NewSensorRepository(db *gorm.DB) *SensorRepository {
	return &SensorRepository{db: db}
}

func (r *SensorRepository) List(ctx context.Context, f SensorFilter) ([]gormModels.Sensor, error) {
	q := r.db.WithContext(ctx)
	if f.SensorType != "" {
		q = q.Where("sensor_type = ?", f.SensorType)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(likeClause("name", "description"), p, p)
	}

	var sensors []gormModels.Sensor
	if err := q.Order("name").Order("id").Find(&sensors).Error; err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}
	return sensors, nil
}

func (r *SensorRepository) GetByID(ctx context.Context, id uint) (*gormModels.Sensor, error) {
	var sensor gormModels.Sensor
	if err := r.db.WithContext(ctx).First(&sensor, id).Error; err != nil {
		return nil, wrapNotFound(err, "sensor")
	}
	return &sensor, nil
}

func (r *SensorRepository) Create(ctx context.Context, sensor *gormModels.Sensor) error {
	if err := r.db.WithContext(ctx).Create(sensor).Error; err != nil {
		return fmt.Errorf("failed to create sensor: %w", err)
	}
	return nil
}

func (r *SensorRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&gormModels.Sensor{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update sensor: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sensor: %w", ErrNotFound)
	}
	return nil
}

// Delete removes the sensor, its readings and every alert tied to either.
func (r *SensorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sensor gormModels.Sensor
		if err := tx.Select("id").First(&sensor, id).Error; err != nil {
			return wrapNotFound(err, "sensor")
		}

		readings := tx.Model(&gormModels.TelemetryData{}).Select("id").Where("sensor_id = ?", id)

		if err := tx.Where("sensor_id = ? OR telemetry_data_id IN (?)", id, readings).Delete(&gormModels.Alert{}).Error; err != nil {
			return fmt.Errorf("failed to delete sensor alerts: %w", err)
		}
		if err := tx.Where("telemetry_data_id IN (?)", readings).Delete(&gormModels.SessionTelemetry{}).Error; err != nil {
			return fmt.Errorf("failed to unlink sensor readings: %w", err)
		}
		if err := tx.Where("sensor_id = ?", id).Delete(&gormModels.TelemetryData{}).Error; err != nil {
			return fmt.Errorf("failed to delete sensor readings: %w", err)
		}
		if err := tx.Delete(&gormModels.Sensor{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete sensor: %w", err)
		}
		return nil
	})
}
