package db

import (
	"fmt"
	"time"

	"astra/telemetry-backend/internal/config"
	"astra/telemetry-backend/internal/logging"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects GORM to the configured driver, retrying postgres while it comes up.
func Open(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	switch cfg.DBDriver {
	case config.DriverSQLite:
		gdb, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logging.Info("Connected to SQLite via GORM", "path", cfg.SQLitePath)
		return gdb, nil

	case config.DriverPostgres:
		var (
			gdb *gorm.DB
			err error
		)
		for i := 0; i < 10; i++ {
			gdb, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
			if err == nil {
				logging.Info("Connected to Postgres via GORM")
				return gdb, nil
			}
			time.Sleep(500 * time.Millisecond)
		}
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
}

// OpenSQLite opens a sqlite database. ":memory:" databases are pinned to a
// single connection so every query sees the same schema.
func OpenSQLite(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}
