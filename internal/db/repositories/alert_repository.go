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

type AlertFilter struct {
	AlertType      constants.AlertType
	IsAcknowledged *bool
	SensorID       uint
}

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) List(ctx context.Context, f AlertFilter) ([]gormModels.Alert, error) {
	q := r.db.WithContext(ctx).Preload("Sensor").Preload("AcknowledgedBy")
	if f.AlertType != "" {
		q = q.Where("alert_type = ?", f.AlertType)
	}
	if f.IsAcknowledged != nil {
		q = q.Where("is_acknowledged = ?", *f.IsAcknowledged)
	}
	if f.SensorID != 0 {
		q = q.Where("sensor_id = ?", f.SensorID)
	}

	var alerts []gormModels.Alert
	if err := q.Order("created_at DESC").Order("id DESC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id uint) (*gormModels.Alert, error) {
	var alert gormModels.Alert
	if err := r.db.WithContext(ctx).Preload("Sensor").Preload("AcknowledgedBy").First(&alert, id).Error; err != nil {
		return nil, wrapNotFound(err, "alert")
	}
	return &alert, nil
}

func (r *AlertRepository) Create(ctx context.Context, alert *gormModels.Alert) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// Acknowledge marks the still-unacknowledged alerts among ids in a single UPDATE
// and returns how many rows changed.
func (r *AlertRepository) Acknowledge(ctx context.Context, ids []uint, userID uint, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&gormModels.Alert{}).
		Where("id IN ? AND is_acknowledged = ?", ids, false).
		Updates(map[string]any{
			"is_acknowledged":    true,
			"acknowledged_by_id": userID,
			"acknowledged_at":    at,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to acknowledge alerts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
