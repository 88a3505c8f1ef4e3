package db

import (
	"fmt"
	"time"

	"astra/telemetry-backend/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// OpenReporting returns the sqlx handle used for raw aggregate queries.
// On postgres it is a separate lib/pq pool; on sqlite it shares GORM's
// connection so in-memory databases stay visible.
func OpenReporting(cfg config.Config, gdb *gorm.DB) (*sqlx.DB, error) {
	if cfg.DBDriver == config.DriverPostgres {
		var (
			rdb *sqlx.DB
			err error
		)
		for i := 0; i < 10; i++ {
			rdb, err = sqlx.Connect("postgres", cfg.PostgresDSN())
			if err == nil {
				return rdb, nil
			}
			time.Sleep(500 * time.Millisecond)
		}
		return nil, fmt.Errorf("failed to connect reporting pool: %w", err)
	}
	return WrapSQLite(gdb)
}

// WrapSQLite exposes a GORM sqlite connection through sqlx.
func WrapSQLite(gdb *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}
