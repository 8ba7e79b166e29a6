package uploads

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ResourceType is the provider's storage class for an asset.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceRaw   ResourceType = "raw"
)

// Result is the normalized description of a stored asset. Optional fields stay
// nil when the provider omits them.
type Result struct {
	SecureURL        string       `json:"secure_url"`
	PublicID         string       `json:"public_id"`
	OriginalFilename *string      `json:"original_filename,omitempty"`
	Bytes            *int64       `json:"bytes,omitempty"`
	ResourceType     ResourceType `json:"resource_type"`
	Format           *string      `json:"format,omitempty"`
}

// Outcome is one of ImageUpload, RawUpload, or Failure.
type Outcome interface {
	Succeeded() bool
	outcome()
}

// ImageUpload is a successful upload to the image pipeline.
type ImageUpload struct {
	Result
}

// RawUpload is a successful upload of a document stored as a raw asset.
type RawUpload struct {
	Result
}

// Failure is an upload that did not produce an asset. Status is zero when the
// provider was never reached.
type Failure struct {
	Status  int    `json:"status,omitempty"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (ImageUpload) Succeeded() bool { return true }
func (RawUpload) Succeeded() bool   { return true }
func (Failure) Succeeded() bool     { return false }

func (ImageUpload) outcome() {}
func (RawUpload) outcome()   {}
func (Failure) outcome()     {}

func (f Failure) Error() string {
	return f.Message
}

func (f Failure) Unwrap() error {
	return f.Err
}

// ResultOf returns the asset description carried by a successful outcome.
func ResultOf(o Outcome) (Result, bool) {
	switch v := o.(type) {
	case ImageUpload:
		return v.Result, true
	case RawUpload:
		return v.Result, true
	default:
		return Result{}, false
	}
}

// Response renders an outcome as the portal's success envelope.
func Response(o Outcome) map[string]any {
	if f, ok := o.(Failure); ok {
		return map[string]any{"success": false, "error": f.Message}
	}

	r, _ := ResultOf(o)
	out := map[string]any{
		"success":       true,
		"secure_url":    r.SecureURL,
		"public_id":     r.PublicID,
		"resource_type": r.ResourceType,
	}
	if r.OriginalFilename != nil {
		out["original_filename"] = *r.OriginalFilename
	}
	if r.Bytes != nil {
		out["bytes"] = *r.Bytes
	}
	if r.Format != nil {
		out["format"] = *r.Format
	}
	return out
}

type providerBody struct {
	SecureURL        string  `json:"secure_url"`
	PublicID         string  `json:"public_id"`
	OriginalFilename *string `json:"original_filename"`
	Bytes            *int64  `json:"bytes"`
	ResourceType     string  `json:"resource_type"`
	Format           *string `json:"format"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

const malformedResponse = "malformed provider response"

// Normalize maps a provider reply to an Outcome. Non-2xx replies become a
// Failure whose message is "<status> <detail>", where detail is error.message
// from a JSON body or the raw body text.
func Normalize(status int, body []byte) Outcome {
	if status < 200 || status > 299 {
		return Failure{
			Status:  status,
			Message: strings.TrimSpace(fmt.Sprintf("%d %s", status, errorDetail(status, body))),
			Err:     ErrProviderRejected,
		}
	}

	var pb providerBody
	if err := json.Unmarshal(body, &pb); err != nil {
		return Failure{Status: status, Message: malformedResponse, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	if pb.SecureURL == "" || pb.PublicID == "" {
		return Failure{Status: status, Message: malformedResponse, Err: ErrMalformedResponse}
	}

	result := Result{
		SecureURL:        pb.SecureURL,
		PublicID:         pb.PublicID,
		OriginalFilename: pb.OriginalFilename,
		Bytes:            pb.Bytes,
		ResourceType:     ResourceType(pb.ResourceType),
		Format:           pb.Format,
	}

	switch result.ResourceType {
	case ResourceImage:
		return ImageUpload{Result: result}
	case ResourceRaw:
		return RawUpload{Result: result}
	default:
		return Failure{Status: status, Message: malformedResponse, Err: ErrMalformedResponse}
	}
}

func errorDetail(status int, body []byte) string {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err == nil && pe.Error.Message != "" {
		return pe.Error.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}
