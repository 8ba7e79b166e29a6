package uploads

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/rental-portal/internal/validation"
)

var (
	ErrNotFound          = errors.New("upload not found")
	ErrDuplicate         = errors.New("upload already recorded")
	ErrProviderRejected  = errors.New("provider rejected upload")
	ErrProviderFailed    = errors.New("provider request failed")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrNoLedger          = errors.New("upload ledger not configured")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNoLedger):
		return http.StatusServiceUnavailable
	case errors.Is(err, validation.ErrUnknownPolicy):
		return http.StatusNotFound
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.As(err, new(*validation.Rejection)):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrProviderRejected),
		errors.Is(err, ErrProviderFailed),
		errors.Is(err, ErrMalformedResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
