package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var supportedDrivers = map[string]bool{
	"postgres": true,
	"sqlite":   true,
}

var supportedOCREngines = map[string]bool{
	"rekognition": true,
	"none":        true,
}

// ValidateConfig checks that the configuration is usable for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []error

	if !supportedDrivers[cfg.DBDriver] {
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}
	if !supportedOCREngines[cfg.OCREngine] {
		errs = append(errs, ValidationError{"OCR_ENGINE", fmt.Sprintf("unsupported engine %q", cfg.OCREngine)})
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required"})
	}
	if cfg.Environment == Production && cfg.UsingDevSecret() {
		errs = append(errs, ValidationError{"JWT_SECRET", "development secret cannot be used in production"})
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{"ACCESS_TOKEN_EXPIRE_MINUTES", "must be positive"})
	}
	if cfg.LLMTimeout <= 0 {
		errs = append(errs, ValidationError{"LLM_TIMEOUT_SECONDS", "must be positive"})
	}
	if cfg.MaxUploadBytes <= 0 {
		errs = append(errs, ValidationError{"MAX_UPLOAD_MB", "must be positive"})
	}
	if cfg.MaxImagePixels <= 0 {
		errs = append(errs, ValidationError{"MAX_IMAGE_MEGAPIXELS", "must be positive"})
	}
	if cfg.AnalyzeRateLimit < 0 {
		errs = append(errs, ValidationError{"ANALYZE_RATE_LIMIT", "must not be negative"})
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		errs = append(errs, ValidationError{"CORS_ALLOWED_ORIGINS", "at least one origin is required"})
	}

	return errors.Join(errs...)
}
