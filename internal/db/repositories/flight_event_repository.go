package repositories

import (
	"context"
	"fmt"

	gormModels "astra/telemetry-backend/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlightEventRepository struct {
	db *gorm.DB
}

func NewFlightEventRepository(db *gorm.DB) *FlightEventRepository {
	return &FlightEventRepository{db: db}
}

func (r *FlightEventRepository) Create(ctx context.Context, event *gormModels.FlightEvent) error {
	return createEvent(r.db.WithContext(ctx), event)
}

// ListByFlight returns the flight's event log, oldest first.
func (r *FlightEventRepository) ListByFlight(ctx context.Context, flightID uint) ([]gormModels.FlightEvent, error) {
	var events []gormModels.FlightEvent
	err := r.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Order("timestamp ASC").Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list flight events: %w", err)
	}
	return events, nil
}

// createEvent and createEvents run on db, which may be a transaction.
func createEvent(db *gorm.DB, event *gormModels.FlightEvent) error {
	if err := db.Omit(clause.Associations).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create flight event: %w", err)
	}
	return nil
}

func createEvents(db *gorm.DB, events []gormModels.FlightEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := db.Omit(clause.Associations).Create(&events).Error; err != nil {
		return fmt.Errorf("failed to create flight events: %w", err)
	}
	return nil
}
