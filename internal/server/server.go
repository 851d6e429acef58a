package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/nutrilens/backend/config"
	"github.com/pageza/nutrilens/backend/internal/api"
	"github.com/pageza/nutrilens/backend/internal/middleware"
	"github.com/pageza/nutrilens/backend/internal/router"
	"github.com/pageza/nutrilens/backend/internal/service"
	"github.com/pageza/nutrilens/backend/internal/store"
)

// Dependencies are the external clients the server is built from. Only DB
// is required.
type Dependencies struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Rekognition service.RekognitionAPI
	S3          *config.S3Config
	// Analyzer overrides the chat-completions client built from config.
	Analyzer service.AnalysisProvider
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires services, handlers and routes.
func New(cfg *config.Config, deps Dependencies) *Server {
	credentials := store.NewGormStore(deps.DB)
	authService := service.NewAuthService(credentials, cfg.JWTSecret, cfg.TokenTTL)
	profileService := service.NewProfileService(credentials)

	analyzer := deps.Analyzer
	if analyzer == nil {
		analyzer = service.NewLLMService(service.LLMConfig{
			APIKey:  cfg.LLMAPIKey,
			APIURL:  cfg.LLMAPIURL,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		})
	}

	var archive service.LabelArchive
	if deps.S3 != nil {
		archive = service.NewS3LabelArchive(deps.S3.Client, deps.S3.BucketName)
		log.Info().Str("bucket", deps.S3.BucketName).Msg("label archiving enabled")
	}

	analysisService := service.NewAnalysisService(
		service.NewPreprocessor(cfg.MaxImageDimension, cfg.MaxImagePixels),
		service.NewTextExtractor(cfg.OCREngine, deps.Rekognition),
		analyzer,
		archive,
	)

	var limiter *middleware.RateLimiter
	if deps.Redis != nil && cfg.AnalyzeRateLimit > 0 {
		limiter = middleware.NewAnalyzeRateLimiter(deps.Redis, cfg.AnalyzeRateLimit)
		log.Info().Int("per_hour", cfg.AnalyzeRateLimit).Msg("analyze-label rate limiting enabled")
	}

	engine := router.SetupRouter(cfg.CORSAllowedOrigins, deps.DB, router.Handlers{
		Auth:     api.NewAuthHandler(authService),
		Profile:  api.NewProfileHandler(profileService, authService),
		Analysis: api.NewAnalysisHandler(analysisService, profileService, authService, limiter, cfg.MaxUploadBytes),
	})

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.http.Addr).Msg("starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
