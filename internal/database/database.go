package database

import (
	"context"
	"time"

	"productsapi/internal/config"
	"productsapi/internal/models"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionFailedMessage is logged when the initial connection cannot be made.
const ConnectionFailedMessage = "failed to connect to the database"

// Now is the clock used for createdAt and updatedAt. Timestamps are kept at
// microsecond precision in UTC so values echoed after a write match what
// PostgreSQL returns on the next read.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Connect opens the database, configures the connection pool and verifies
// the connection is live.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := buildDialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "database: build dialector")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: Now,
	})
	if err != nil {
		return nil, errors.Wrap(err, "database: open")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database: get sql.DB")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "database: ping")
	}

	return db, nil
}

// Migrate creates or updates the products table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&models.Product{}); err != nil {
		return errors.Wrap(err, "database: auto-migrate")
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q (supported: postgres, sqlite)", driver)
	}
}
