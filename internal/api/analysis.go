package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/nutrilens/backend/internal/middleware"
	"github.com/pageza/nutrilens/backend/internal/service"
)

const DegradedHeader = "X-OCR-Degraded"

type AnalysisHandler struct {
	analysisService service.IAnalysisService
	profileService  service.IProfileService
	auth            middleware.Authenticator
	limiter         *middleware.RateLimiter
	maxUploadBytes  int64
}

// NewAnalysisHandler creates the label analysis handler. limiter may be nil.
func NewAnalysisHandler(
	analysisService service.IAnalysisService,
	profileService service.IProfileService,
	auth middleware.Authenticator,
	limiter *middleware.RateLimiter,
	maxUploadBytes int64,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		profileService:  profileService,
		auth:            auth,
		limiter:         limiter,
		maxUploadBytes:  maxUploadBytes,
	}
}

func (h *AnalysisHandler) RegisterRoutes(router *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{
		middleware.BodyLimit(h.maxUploadBytes),
		middleware.OptionalAuth(h.auth),
	}
	if h.limiter != nil {
		handlers = append(handlers, h.limiter.RateLimitMiddleware())
	}
	handlers = append(handlers, h.AnalyzeLabel)

	router.POST("/analyze-label/", handlers...)
}

// AnalyzeLabel runs the uploaded label photo through the analysis pipeline.
// Authenticated callers get an assessment personalised to their profile.
func (h *AnalysisHandler) AnalyzeLabel(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			respondError(c, err)
			return
		}
		respondValidation(c, errors.New("field 'file' is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	profile, err := h.profileService.ProfileFor(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	outcome, err := h.analysisService.Analyze(c.Request.Context(), data, profile)
	if err != nil {
		respondError(c, err)
		return
	}

	if outcome.Degraded {
		c.Header(DegradedHeader, "true")
	}
	c.JSON(http.StatusOK, outcome.Result)
}
