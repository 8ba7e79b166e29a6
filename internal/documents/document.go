// Package documents updates and deletes document records held by the backend and
// removes the matching provider asset when a record is deleted.
package documents

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Document is the portal's projection of a backend document record.
type Document struct {
	ID               string  `json:"id"`
	PublicID         *string `json:"publicId,omitempty"`
	SecureURL        string  `json:"secureUrl"`
	OriginalFilename string  `json:"originalFilename,omitempty"`
	Bytes            int64   `json:"bytes,omitempty"`
	ResourceType     string  `json:"resourceType,omitempty"`
	Format           string  `json:"format,omitempty"`
}

// Result is the outcome of a backend mutation.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
	Err     error  `json:"-"`
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error(), Err: err}
}

// CleanupStatus describes what happened to the provider asset during a delete.
type CleanupStatus string

const (
	CleanupDeleted CleanupStatus = "deleted"
	CleanupFailed  CleanupStatus = "failed"
	CleanupSkipped CleanupStatus = "skipped"
)

// CleanupOutcome reports the best-effort provider deletion. A failed cleanup
// never fails the delete.
type CleanupOutcome struct {
	Status   CleanupStatus `json:"status"`
	PublicID string        `json:"public_id,omitempty"`
	Source   string        `json:"source,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// DeleteResult pairs the backend delete result with the provider cleanup outcome.
type DeleteResult struct {
	Result
	Cleanup CleanupOutcome `json:"cleanup"`
}

var ErrNoPublicID = errors.New("cannot derive public id from url")

// ExtractPublicID derives a public id from a provider secure URL: the last two
// path segments with the extension of the final segment removed.
func ExtractPublicID(secureURL string) (string, error) {
	u, err := url.Parse(secureURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoPublicID, err)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return "", fmt.Errorf("%w: %q", ErrNoPublicID, secureURL)
	}

	folder := segments[len(segments)-2]
	name := segments[len(segments)-1]
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrNoPublicID, secureURL)
	}

	return folder + "/" + name, nil
}
