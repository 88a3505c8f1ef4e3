package db

import (
	"fmt"

	gormModels "astra/telemetry-backend/internal/models/gorm"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&gormModels.User{},
		&gormModels.UserProfile{},
		&gormModels.Mission{},
		&gormModels.Flight{},
		&gormModels.FlightPath{},
		&gormModels.FlightEvent{},
		&gormModels.Sensor{},
		&gormModels.TelemetryData{},
		&gormModels.GyroscopeData{},
		&gormModels.TelemetrySession{},
		&gormModels.SessionTelemetry{},
		&gormModels.SessionGyroscope{},
		&gormModels.Alert{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
