package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/nutrilens/backend/internal/middleware"
	"github.com/pageza/nutrilens/backend/internal/mocks"
	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/pageza/nutrilens/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(auth middleware.Authenticator, optional bool) *gin.Engine {
	r := gin.New()
	guard := middleware.AuthMiddleware(auth)
	if optional {
		guard = middleware.OptionalAuth(auth)
	}
	r.GET("/me", guard, func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"email": ""})
			return
		}
		id, _ := middleware.CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email, "id": id})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	alice := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	auth := new(mocks.MockAuthService)
	auth.On("Authenticate", mock.Anything, "good").Return(alice, nil)
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, service.ErrInvalidCredentials)

	router := newAuthRouter(auth, false)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer good", http.StatusOK},
		{"lower-case scheme", "bearer good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
				assert.JSONEq(t, `{"error":"Could not validate credentials"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), alice.ID.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	alice := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	auth := new(mocks.MockAuthService)
	auth.On("Authenticate", mock.Anything, "good").Return(alice, nil)
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, service.ErrInvalidCredentials)

	router := newAuthRouter(auth, true)

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"email":""}`, w.Body.String())
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice@example.com")
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
