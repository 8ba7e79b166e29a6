package accounts

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/rental-portal/internal/backend"
)

var (
	ErrLinkNotFound             = errors.New("account is not linked to property")
	ErrInvalidCommand           = errors.New("invalid account command")
	ErrMultiplePropertyDefaults = errors.New("multiple default accounts for property")
	ErrMultipleGlobalDefaults   = errors.New("multiple global default accounts")
)

// MapHTTPStatus maps account errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrLinkNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidCommand) {
		return http.StatusBadRequest
	}
	return backend.HTTPStatus(err)
}
