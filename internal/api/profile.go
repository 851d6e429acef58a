package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/nutrilens/backend/internal/middleware"
	"github.com/pageza/nutrilens/backend/internal/service"
	"github.com/pageza/nutrilens/backend/internal/types"
)

type ProfileHandler struct {
	profileService service.IProfileService
	auth           middleware.Authenticator
}

func NewProfileHandler(profileService service.IProfileService, auth middleware.Authenticator) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		auth:           auth,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.auth))
	{
		profile.GET("/", h.GetProfile)
		profile.PUT("/", h.UpdateProfile)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.Unauthorized(c)
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile merges the supplied fields into the caller's profile,
// creating it on first use.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.Unauthorized(c)
		return
	}

	var req types.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req.Fields())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
