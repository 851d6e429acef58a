package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/nutrilens/backend/internal/api"
	"github.com/pageza/nutrilens/backend/internal/middleware"
	"gorm.io/gorm"
)

// Handlers groups the route handlers mounted by SetupRouter
type Handlers struct {
	Auth     *api.AuthHandler
	Profile  *api.ProfileHandler
	Analysis *api.AnalysisHandler
}

// SetupRouter configures the application routes
func SetupRouter(allowedOrigins []string, db *gorm.DB, h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/", api.Root)
	router.GET("/health", api.HealthCheck(db))

	root := router.Group("")
	h.Auth.RegisterRoutes(root)
	h.Profile.RegisterRoutes(root)
	h.Analysis.RegisterRoutes(root)

	return router
}
