package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/nutrilens/backend/internal/middleware"
	"github.com/pageza/nutrilens/backend/internal/service"
	"github.com/pageza/nutrilens/backend/internal/types"
	"github.com/rs/zerolog/log"
)

const CodeExternalService = "EXTERNAL_SERVICE_ERROR"

// respondError maps service errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.Unauthorized(c)
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Email already registered"})
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Profile not found"})
	case errors.Is(err, service.ErrUnreadableImage):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Could not decode image."})
	case errors.Is(err, service.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: "Image dimensions too large."})
	case errors.Is(err, service.ErrMalformedAIResponse):
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "AI returned malformed data."})
	case errors.Is(err, service.ErrExternalService):
		c.JSON(http.StatusBadGateway, types.ErrorResponse{
			Error: "The analysis service is currently unavailable. Please try again later.",
			Code:  CodeExternalService,
		})
	case middleware.IsBodyTooLarge(err):
		c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: "Upload too large"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Internal server error"})
	}
}

// respondValidation reports a request that failed binding.
func respondValidation(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{Error: err.Error()})
}
