package api

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/nutrilens/backend/internal/mocks"
	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/pageza/nutrilens/backend/internal/service"
	"github.com/pageza/nutrilens/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	auth     *mocks.MockAuthService
	profiles *mocks.MockProfileService
	analysis *mocks.MockAnalysisService
	router   *gin.Engine
}

func newFixture() *fixture {
	f := &fixture{
		auth:     new(mocks.MockAuthService),
		profiles: new(mocks.MockProfileService),
		analysis: new(mocks.MockAnalysisService),
		router:   gin.New(),
	}
	group := f.router.Group("")
	NewAuthHandler(f.auth).RegisterRoutes(group)
	NewProfileHandler(f.profiles, f.auth).RegisterRoutes(group)
	NewAnalysisHandler(f.analysis, f.profiles, f.auth, nil, 1<<20).RegisterRoutes(group)
	return f
}

func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func multipartUpload(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "label.jpg")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze-label/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()

	for _, body := range []string{
		`{"email":"not-an-email","password":"x"}`,
		`{"email":"alice@example.com"}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := f.serve(req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
	}
	f.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenRequiresFormFields(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader("username=alice@example.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.serve(req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTokenIssuesBearerToken(t *testing.T) {
	f := newFixture()
	alice := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	f.auth.On("Login", mock.Anything, "alice@example.com", "secret123").Return(alice, nil)
	f.auth.On("GenerateToken", mock.MatchedBy(func(c *types.TokenClaims) bool {
		return c.Subject == "alice@example.com"
	})).Return("signed.jwt.token", nil)

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader("username=alice@example.com&password=secret123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"signed.jwt.token","token_type":"bearer"}`, w.Body.String())
}

func TestUpdateProfilePassesOnlySuppliedFields(t *testing.T) {
	f := newFixture()
	alice := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	f.auth.On("Authenticate", mock.Anything, "tok").Return(alice, nil)

	goal := "Lose Weight"
	f.profiles.On("UpdateProfile", mock.Anything, alice.ID, mock.MatchedBy(func(fields models.ProfileFields) bool {
		return fields.PrimaryGoal != nil && *fields.PrimaryGoal == goal &&
			fields.Age == nil && fields.Allergies == nil
	})).Return(&models.Profile{OwnerID: alice.ID, PrimaryGoal: &goal}, nil)

	req := httptest.NewRequest(http.MethodPut, "/profile/", strings.NewReader(`{"primary_goal":"Lose Weight"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	w := f.serve(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"primary_goal":"Lose Weight"`)
	f.profiles.AssertExpectations(t)
}

func TestUpdateProfileRejectsBadValues(t *testing.T) {
	f := newFixture()
	alice := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	f.auth.On("Authenticate", mock.Anything, "tok").Return(alice, nil)

	req := httptest.NewRequest(http.MethodPut, "/profile/", strings.NewReader(`{"age":-4}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	w := f.serve(req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	f.profiles.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeLabelSetsDegradedHeader(t *testing.T) {
	f := newFixture()
	data := []byte("image-bytes")
	result := &types.AnalysisResult{HealthRating: "A", Summary: "Fine."}

	f.profiles.On("ProfileFor", mock.Anything, (*models.User)(nil)).Return(nil, nil)
	f.analysis.On("Analyze", mock.Anything, data, (*models.Profile)(nil)).
		Return(&service.AnalysisOutcome{Result: result, Degraded: true}, nil)

	w := f.serve(multipartUpload(t, "file", data))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(DegradedHeader))
	assert.Contains(t, w.Body.String(), `"health_rating":"A"`)
}

func TestAnalyzeLabelWrongField(t *testing.T) {
	f := newFixture()
	w := f.serve(multipartUpload(t, "image", []byte("x")))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{service.ErrDuplicateEmail, http.StatusBadRequest, "Email already registered"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "Could not validate credentials"},
		{service.ErrProfileNotFound, http.StatusNotFound, "Profile not found"},
		{fmt.Errorf("%w: png: invalid format", service.ErrUnreadableImage), http.StatusBadRequest, "Could not decode image."},
		{fmt.Errorf("%w: 60000x60000", service.ErrImageTooLarge), http.StatusRequestEntityTooLarge, "Image dimensions too large."},
		{fmt.Errorf("%w: bad json", service.ErrMalformedAIResponse), http.StatusInternalServerError, "AI returned malformed data."},
		{fmt.Errorf("%w: status 503", service.ErrExternalService), http.StatusBadGateway, CodeExternalService},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge, "Upload too large"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { respondError(c, tt.err) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
