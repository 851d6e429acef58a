package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/nutrilens/backend/internal/store"
	"github.com/pageza/nutrilens/backend/internal/testhelpers"
	"github.com/pageza/nutrilens/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(store.NewGormStore(testhelpers.SetupSQLiteDB(t)), testSecret, 30*time.Minute)
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	user, err := svc.Register(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	loggedIn, err := svc.Login(ctx, "Alice@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginVerifiesPasswordForUnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)
	_, err := svc.Register(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	var verified []string
	svc.verify = func(password, encoded string) bool {
		verified = append(verified, encoded)
		return VerifyPassword(password, encoded)
	}

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, verified, 2)
	assert.Equal(t, dummyPasswordHash(), verified[0])
	assert.True(t, strings.HasPrefix(verified[0], "$argon2id$v=19$m=65536,t=3,p=4$"))
	assert.NotEqual(t, verified[0], verified[1])
}

func TestAuthServiceRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "another")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := svc.GenerateToken(types.NewTokenClaims("alice@example.com"))
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthServiceTokenExpiry(t *testing.T) {
	svc := newTestAuthService(t)
	issued := time.Now()
	svc.WithClock(func() time.Time { return issued })

	token, err := svc.GenerateToken(types.NewTokenClaims("alice@example.com"))
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return issued.Add(29 * time.Minute) })
	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)

	svc.WithClock(func() time.Time { return issued.Add(31 * time.Minute) })
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceRejectsForeignTokens(t *testing.T) {
	svc := newTestAuthService(t)
	claims := jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice@example.com",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong key":  otherKey,
		"hs512":      hs512,
		"alg none":   unsigned,
		"no subject": noSubject,
		"no expiry":  noExpiry,
		"garbage":    "not-a-token",
		"empty":      "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthServiceAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	user, err := svc.Register(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	token, err := svc.GenerateToken(types.NewTokenClaims(user.Email))
	require.NoError(t, err)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	ghost, err := svc.GenerateToken(types.NewTokenClaims("ghost@example.com"))
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
