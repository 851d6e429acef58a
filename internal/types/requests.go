package types

import (
	"github.com/google/uuid"
	"github.com/pageza/nutrilens/backend/internal/models"
)

// RegisterRequest represents the request body for creating a user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// TokenRequest is the OAuth2 password-grant form posted to /token.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ProfileUpdateRequest carries a partial profile. Omitted or null fields are left unchanged.
type ProfileUpdateRequest struct {
	Age              *int     `json:"age" binding:"omitempty,gte=0,lte=150"`
	Weight           *float64 `json:"weight" binding:"omitempty,gt=0"`
	Height           *float64 `json:"height" binding:"omitempty,gt=0"`
	Gender           *string  `json:"gender"`
	ActivityLevel    *string  `json:"activity_level"`
	PrimaryGoal      *string  `json:"primary_goal"`
	HealthConditions *string  `json:"health_conditions"`
	Allergies        *string  `json:"allergies"`
}

// Fields converts the request to the model's partial update.
func (r *ProfileUpdateRequest) Fields() models.ProfileFields {
	return models.ProfileFields{
		Age:              r.Age,
		Weight:           r.Weight,
		Height:           r.Height,
		Gender:           r.Gender,
		ActivityLevel:    r.ActivityLevel,
		PrimaryGoal:      r.PrimaryGoal,
		HealthConditions: r.HealthConditions,
		Allergies:        r.Allergies,
	}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
