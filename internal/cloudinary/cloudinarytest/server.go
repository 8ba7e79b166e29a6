// Package cloudinarytest provides an in-process fake of the provider upload API.
package cloudinarytest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"

	"github.com/JaimeStill/rental-portal/pkg/signing"
)

// Request is one request received by the fake.
type Request struct {
	Path     string
	Fields   map[string]string
	Filename string
	File     []byte
}

// Server verifies signatures the way the provider does and stores uploaded
// assets in memory keyed by public id.
type Server struct {
	*httptest.Server

	CloudName string
	APIKey    string
	APISecret string

	mu       sync.Mutex
	requests []Request
	assets   map[string]bool
	failNext int
	failBody string
}

// NewServer starts a fake for the given account.
func NewServer(cloudName, apiKey, apiSecret string) *Server {
	s := &Server{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		assets:    make(map[string]bool),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Credentials returns the account credentials the fake accepts.
func (s *Server) Credentials() signing.Credentials {
	return signing.Credentials{CloudName: s.CloudName, APIKey: s.APIKey, APISecret: s.APISecret}
}

// FailNext makes the next request reply with status and body.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = status
	s.failBody = body
}

// Requests returns a copy of every request received.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Has reports whether publicID is currently stored.
func (s *Server) Has(publicID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assets[publicID]
}

// PutAsset stores publicID as if it had been uploaded earlier.
func (s *Server) PutAsset(publicID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[publicID] = true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := Request{Path: r.URL.Path, Fields: map[string]string{}}
	for k, v := range r.MultipartForm.Value {
		req.Fields[k] = v[0]
	}
	if f, fh, err := r.FormFile("file"); err == nil {
		req.Filename = fh.Filename
		req.File, _ = io.ReadAll(f)
		f.Close()
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	status, body := s.failNext, s.failBody
	s.failNext, s.failBody = 0, ""
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		io.WriteString(w, body)
		return
	}

	if !s.verify(req.Fields) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]string{"message": "Invalid signature"}})
		return
	}

	prefix := "/" + s.CloudName + "/"
	switch {
	case r.URL.Path == prefix+"delete_by_token":
		s.delete(w, req)
	case r.URL.Path == prefix+"image/upload":
		s.upload(w, req, "image")
	case r.URL.Path == prefix+"raw/upload":
		s.upload(w, req, "raw")
	default:
		http.NotFound(w, r)
	}
}

// verify recomputes the signature over every field except the ones the
// provider excludes from signing.
func (s *Server) verify(fields map[string]string) bool {
	if fields["api_key"] != s.APIKey {
		return false
	}
	params := signing.Params{}
	for k, v := range fields {
		switch k {
		case "api_key", "signature", "resource_type", "flags":
			continue
		}
		params[k] = v
	}
	return signing.Sign(params, s.APISecret) == fields["signature"]
}

func (s *Server) upload(w http.ResponseWriter, req Request, resourceType string) {
	ext := strings.TrimPrefix(path.Ext(req.Filename), ".")
	base := strings.TrimSuffix(req.Filename, path.Ext(req.Filename))
	if f := req.Fields["format"]; f != "" {
		ext = f
	}

	publicID := base
	if folder := req.Fields["folder"]; folder != "" {
		publicID = folder + "/" + base
	}

	s.mu.Lock()
	s.assets[publicID] = true
	s.mu.Unlock()

	resp := map[string]any{
		"secure_url":        fmt.Sprintf("https://res.example.com/%s/%s/upload/v%s/%s.%s", s.CloudName, resourceType, req.Fields["timestamp"], publicID, ext),
		"public_id":         publicID,
		"original_filename": base,
		"bytes":             len(req.File),
		"resource_type":     resourceType,
	}
	if resourceType == "raw" {
		resp["format"] = ext
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) delete(w http.ResponseWriter, req Request) {
	id := req.Fields["public_id"]

	s.mu.Lock()
	found := s.assets[id]
	delete(s.assets, id)
	s.mu.Unlock()

	result := "ok"
	if !found {
		result = "not found"
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
