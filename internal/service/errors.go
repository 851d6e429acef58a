package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("could not validate credentials")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrUnreadableImage     = errors.New("could not decode image")
	ErrImageTooLarge       = errors.New("image dimensions too large")
	ErrMalformedAIResponse = errors.New("AI returned malformed data")
	ErrExternalService     = errors.New("external service error")
)
