package database

import (
	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date for users and profiles.
func RunMigrations(db *gorm.DB) error {
	log.Info().Str("dialect", db.Dialector.Name()).Msg("running schema migration")
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
	)
}
