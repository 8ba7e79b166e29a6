// Package storage provides a keyed blob store. The filesystem implementation
// backs dropzone previews and other short-lived artifacts.
package storage

import (
	"context"
	"errors"

	"github.com/JaimeStill/rental-portal/pkg/lifecycle"
)

var (
	// ErrNotFound indicates the requested key does not exist in storage.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates an empty key or a path traversal attempt.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrTooLarge indicates the blob exceeds the configured maximum object size.
	ErrTooLarge = errors.New("storage: object too large")
)

// System defines blob storage operations.
type System interface {
	// Store saves data at key, overwriting existing content.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data stored at key or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists and is readable.
	Validate(ctx context.Context, key string) (bool, error)

	// Path resolves key to a local path for tools that need a file on disk.
	Path(ctx context.Context, key string) (string, error)

	Start(lc *lifecycle.Coordinator) error
}
