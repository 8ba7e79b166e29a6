package validation

import (
	"errors"
	"fmt"
)

var (
	ErrShortcutFile       = errors.New("shortcut files are not accepted")
	ErrImageTooLarge      = errors.New("image exceeds maximum size")
	ErrDimensionsExceeded = errors.New("image exceeds maximum dimensions")
	ErrDocumentTooLarge   = errors.New("document exceeds maximum size")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrUndecodableImage   = errors.New("image could not be decoded")
	ErrUnknownPolicy      = errors.New("unknown upload policy")
)

// Rejection reports why a single candidate was refused.
type Rejection struct {
	Filename string
	Reason   string
	Detail   string
	Err      error
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return fmt.Sprintf("%s: %s", r.Filename, r.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", r.Filename, r.Err, r.Detail)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

var reasons = map[error]string{
	ErrShortcutFile:       "shortcut_file",
	ErrImageTooLarge:      "image_too_large",
	ErrDimensionsExceeded: "dimensions_exceeded",
	ErrDocumentTooLarge:   "document_too_large",
	ErrUnsupportedType:    "unsupported_type",
	ErrUndecodableImage:   "undecodable_image",
}

func reject(c *Candidate, err error, detail string) *Rejection {
	return &Rejection{
		Filename: c.Filename,
		Reason:   reasons[err],
		Detail:   detail,
		Err:      err,
	}
}
