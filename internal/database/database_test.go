package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pageza/nutrilens/backend/config"
	"github.com/pageza/nutrilens/backend/internal/database"
	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "nutrilens.db"),
	}

	db, err := database.Open(cfg)
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(db))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Profile{}))
	assert.True(t, db.Migrator().HasIndex(&models.Profile{}, "idx_profiles_owner_id"))

	// Migrations are idempotent.
	require.NoError(t, database.RunMigrations(db))
	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestNewRedisClientDisabled(t *testing.T) {
	client, err := database.NewRedisClient(&config.Config{})
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := database.NewRedisClient(&config.Config{RedisURL: "://nope"})
	assert.Error(t, err)
}
