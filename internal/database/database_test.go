package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"productsapi/internal/config"
	"productsapi/internal/database"
	"productsapi/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:          "sqlite",
		DSN:             fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}
}

func TestConnectAndMigrate(t *testing.T) {
	ctx := context.Background()

	db, err := database.Connect(ctx, sqliteConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(ctx, db))
	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.True(t, db.Migrator().HasColumn(&models.Product{}, "aviability"))

	// Running the sync twice is harmless.
	require.NoError(t, database.Migrate(ctx, db))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Driver = "oracle"

	_, err := database.Connect(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
	assert.Equal(t, `unsupported DB_DRIVER "oracle" (supported: postgres, sqlite)`, errors.Cause(err).Error())
}

func TestNow(t *testing.T) {
	now := database.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(time.Microsecond))
}

func TestConnect_TimestampsRoundTrip(t *testing.T) {
	ctx := context.Background()

	db, err := database.Connect(ctx, sqliteConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(ctx, db))

	product := &models.Product{Name: "clock", Price: 10, Aviability: true}
	require.NoError(t, db.WithContext(ctx).Create(product).Error)
	assert.Zero(t, product.CreatedAt.Nanosecond()%int(time.Microsecond))

	var stored models.Product
	require.NoError(t, db.WithContext(ctx).First(&stored, product.ID).Error)
	assert.True(t, product.CreatedAt.Equal(stored.CreatedAt))
	assert.True(t, product.UpdatedAt.Equal(stored.UpdatedAt))
}
