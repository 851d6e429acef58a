package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/pageza/nutrilens/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// IProfileService defines the interface for health profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields models.ProfileFields) (*models.Profile, error)
	ProfileFor(ctx context.Context, user *models.User) (*models.Profile, error)
}

// IAnalysisService defines the interface for the label analysis pipeline
type IAnalysisService interface {
	Analyze(ctx context.Context, data []byte, profile *models.Profile) (*AnalysisOutcome, error)
}

var (
	_ IAuthService     = (*AuthService)(nil)
	_ IProfileService  = (*ProfileService)(nil)
	_ IAnalysisService = (*AnalysisService)(nil)
	_ AnalysisProvider = (*LLMService)(nil)
	_ TextExtractor    = (*RekognitionExtractor)(nil)
	_ TextExtractor    = UnavailableExtractor{}
	_ LabelArchive     = (*S3LabelArchive)(nil)
)
