package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/pageza/nutrilens/backend/internal/store"
)

type ProfileService struct {
	store store.CredentialStore
}

func NewProfileService(credentials store.CredentialStore) *ProfileService {
	return &ProfileService{store: credentials}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.store.FindProfileByOwner(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return profile, err
}

// UpdateProfile applies a partial update, creating the profile on first use.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, fields models.ProfileFields) (*models.Profile, error) {
	return s.store.UpsertProfile(ctx, userID, fields)
}

// ProfileFor loads the profile used to personalise an analysis. A user
// without a profile yields nil, not an error.
func (s *ProfileService) ProfileFor(ctx context.Context, user *models.User) (*models.Profile, error) {
	if user == nil {
		return nil, nil
	}
	profile, err := s.GetProfile(ctx, user.ID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, nil
	}
	return profile, err
}
