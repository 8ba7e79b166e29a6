// Package signing computes request signatures for the object-storage provider.
//
// A signature is the lowercase hex SHA-1 of the parameters rendered as
// name=value pairs, sorted by name, joined with "&", with the API secret
// appended directly after the last pair.
package signing

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrMissingCredentials indicates the provider credentials are incomplete.
var ErrMissingCredentials = errors.New("missing provider credentials")

// Params are the string-valued request parameters that take part in a signature.
type Params map[string]string

// Canonical renders params as sorted name=value pairs joined with "&".
func Canonical(params Params) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = name + "=" + params[name]
	}
	return strings.Join(pairs, "&")
}

// Sign returns the signature for params under secret.
func Sign(params Params, secret string) string {
	sum := sha1.Sum([]byte(Canonical(params) + secret))
	return hex.EncodeToString(sum[:])
}

// Credentials identify a provider account.
type Credentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Validate returns an error wrapping ErrMissingCredentials that names every absent field.
func (c Credentials) Validate() error {
	var missing []string
	if c.CloudName == "" {
		missing = append(missing, "cloud_name")
	}
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if c.APISecret == "" {
		missing = append(missing, "api_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Signer stamps parameter sets with a timestamp, the API key, and a signature.
type Signer struct {
	creds Credentials
	now   func() time.Time
}

// NewSigner validates creds and returns a Signer. A nil now uses time.Now.
func NewSigner(creds Credentials, now func() time.Time) (*Signer, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{creds: creds, now: now}, nil
}

// Credentials returns the signer's credentials.
func (s *Signer) Credentials() Credentials {
	return s.creds
}

// Timestamp returns the current unix time in seconds as a decimal string.
func (s *Signer) Timestamp() string {
	return strconv.FormatInt(s.now().Unix(), 10)
}

// SignedParams copies params, sets timestamp when absent, signs the copy, and adds
// api_key and signature. The api_key is not part of the signed set.
func (s *Signer) SignedParams(params Params) Params {
	signed := make(Params, len(params)+3)
	for k, v := range params {
		signed[k] = v
	}
	if _, ok := signed["timestamp"]; !ok {
		signed["timestamp"] = s.Timestamp()
	}

	signature := Sign(signed, s.creds.APISecret)
	signed["api_key"] = s.creds.APIKey
	signed["signature"] = signature
	return signed
}
