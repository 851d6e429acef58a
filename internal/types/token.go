package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in an access token. The subject is the user's email.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// NewTokenClaims returns claims for the given email with no timing fields set.
func NewTokenClaims(email string) *TokenClaims {
	return &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: email},
	}
}
