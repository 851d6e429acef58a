package testhelpers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/pageza/nutrilens/backend/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user with a placeholder password hash.
func CreateTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user, err := store.NewGormStore(db).CreateUser(context.Background(), email, "not-a-real-hash")
	require.NoError(t, err)
	return user
}

// CreateTestProfile upserts a profile for userID with the given fields.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID uuid.UUID, fields models.ProfileFields) *models.Profile {
	t.Helper()
	profile, err := store.NewGormStore(db).UpsertProfile(context.Background(), userID, fields)
	require.NoError(t, err)
	return profile
}
