package main

import (
	"context"
	"errors"
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/pageza/nutrilens/backend/config"
	"github.com/pageza/nutrilens/backend/internal/database"
	"github.com/pageza/nutrilens/backend/internal/logger"
	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/pageza/nutrilens/backend/internal/service"
	"github.com/pageza/nutrilens/backend/internal/store"
)

type testUser struct {
	email   string
	profile models.ProfileFields
}

func ptr[T any](v T) *T { return &v }

var testUsers = []testUser{
	{
		email: "alice@example.com",
		profile: models.ProfileFields{
			Age:              ptr(34),
			Weight:           ptr(68.0),
			Height:           ptr(165.0),
			Gender:           ptr("female"),
			ActivityLevel:    ptr("moderate"),
			PrimaryGoal:      ptr("Lose Weight"),
			HealthConditions: ptr("Hypertension"),
			Allergies:        ptr("Peanuts"),
		},
	},
	{
		email: "bob@example.com",
		profile: models.ProfileFields{
			Age:              ptr(52),
			PrimaryGoal:      ptr("Manage Blood Sugar"),
			HealthConditions: ptr("Diabetes"),
		},
	},
	{
		email: "carol@example.com",
		profile: models.ProfileFields{
			PrimaryGoal: ptr("Gain Muscle"),
			Allergies:   ptr("Lactose,Gluten"),
		},
	},
	{
		// No profile: exercises the general analysis path.
		email: "dave@example.com",
	},
}

func main() {
	password := flag.String("password", "testpassword123", "password for every seeded user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	credentials := store.NewGormStore(db)
	authService := service.NewAuthService(credentials, cfg.JWTSecret, cfg.TokenTTL)
	profileService := service.NewProfileService(credentials)

	ctx := context.Background()
	created := 0
	for _, tu := range testUsers {
		user, err := authService.Register(ctx, tu.email, *password)
		if errors.Is(err, service.ErrDuplicateEmail) {
			log.Info().Str("email", tu.email).Msg("user already exists, skipping")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("email", tu.email).Msg("failed to create user")
		}

		if tu.profile != (models.ProfileFields{}) {
			if _, err := profileService.UpdateProfile(ctx, user.ID, tu.profile); err != nil {
				log.Fatal().Err(err).Str("email", tu.email).Msg("failed to create profile")
			}
		}
		created++
		log.Info().Str("email", tu.email).Msg("created test user")
	}

	log.Info().Int("created", created).Int("total", len(testUsers)).Msg("seeding complete")
}
