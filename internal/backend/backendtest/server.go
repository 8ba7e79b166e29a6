// Package backendtest provides an in-memory stand-in for the portal REST backend.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Link associates an account with a property.
type Link struct {
	PropertyID string `json:"propertyId"`
	IsDefault  bool   `json:"isDefault"`
}

// Account is the fake's stored payment account.
type Account struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	StripeAccountID string `json:"stripeAccountId"`
	IsGlobalDefault bool   `json:"isGlobalDefault"`
	Links           []Link `json:"links"`
}

type failure struct {
	status  int
	message string
}

// Server answers the document, account, and health routes with the
// {success, statusCode, message, data} envelope.
type Server struct {
	*httptest.Server

	token string

	mu        sync.Mutex
	documents map[string]map[string]any
	accounts  []Account
	healthy   bool
	fail      *failure
	requests  []string
}

// NewServer starts a fake backend that accepts only token.
func NewServer(token string) *Server {
	s := &Server{
		token:     token,
		documents: make(map[string]map[string]any),
		healthy:   true,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /documents/{id}", s.authorized(s.getDocument))
	mux.HandleFunc("PATCH /documents/{id}", s.authorized(s.patchDocument))
	mux.HandleFunc("DELETE /documents/{id}", s.authorized(s.deleteDocument))
	mux.HandleFunc("GET /stripe-accounts", s.authorized(s.listAccounts))
	mux.HandleFunc("POST /stripe-accounts", s.authorized(s.createAccount))
	mux.HandleFunc("PATCH /stripe-accounts/{id}", s.authorized(s.updateAccount))
	mux.HandleFunc("DELETE /stripe-accounts/{id}", s.authorized(s.deleteAccount))
	mux.HandleFunc("POST /stripe-accounts/{id}/link", s.authorized(s.link))
	mux.HandleFunc("DELETE /stripe-accounts/{id}/link/{property}", s.authorized(s.unlink))
	mux.HandleFunc("PATCH /stripe-accounts/{id}/default", s.authorized(s.setDefault))

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// PutDocument stores doc under id.
func (s *Server) PutDocument(id string, doc map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		copied[k] = v
	}
	copied["id"] = id
	s.documents[id] = copied
}

// Document returns a copy of the stored document.
func (s *Server) Document(id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, false
	}
	copied := make(map[string]any, len(doc))
	for k, v := range doc {
		copied[k] = v
	}
	return copied, true
}

// PutAccounts replaces the stored accounts without enforcing any invariant.
func (s *Server) PutAccounts(accounts ...Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = slices.Clone(accounts)
}

// SetHealthy controls the /health answer.
func (s *Server) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

// FailNext makes the next authorized request fail with status and message.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = &failure{status: status, message: message}
}

// Requests returns "METHOD /path" for every request received.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			respond(w, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}

		s.mu.Lock()
		f := s.fail
		s.fail = nil
		s.mu.Unlock()

		if f != nil {
			respond(w, f.status, f.message, nil)
			return
		}
		next(w, r)
	}
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success":    status < 300,
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	healthy := s.healthy
	s.mu.Unlock()

	if !healthy {
		respond(w, http.StatusServiceUnavailable, "unavailable", nil)
		return
	}
	respond(w, http.StatusOK, "ok", nil)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.Document(r.PathValue("id"))
	if !ok {
		respond(w, http.StatusNotFound, "Document not found", nil)
		return
	}
	respond(w, http.StatusOK, "ok", doc)
}

func (s *Server) patchDocument(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	id := r.PathValue("id")
	s.mu.Lock()
	doc, ok := s.documents[id]
	if ok {
		for k, v := range fields {
			if k != "id" {
				doc[k] = v
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		respond(w, http.StatusNotFound, "Document not found", nil)
		return
	}
	current, _ := s.Document(id)
	respond(w, http.StatusOK, "Document updated", current)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.documents[id]
	delete(s.documents, id)
	s.mu.Unlock()

	if !ok {
		respond(w, http.StatusNotFound, "Document not found", nil)
		return
	}
	respond(w, http.StatusOK, "Document deleted", nil)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	accounts := make([]Account, len(s.accounts))
	for i, a := range s.accounts {
		a.Links = slices.Clone(a.Links)
		if a.Links == nil {
			a.Links = []Link{}
		}
		accounts[i] = a
	}
	s.mu.Unlock()
	respond(w, http.StatusOK, "ok", accounts)
}

// index returns the position of account id. Callers hold s.mu.
func (s *Server) index(id string) int {
	return slices.IndexFunc(s.accounts, func(a Account) bool { return a.ID == id })
}

func (s *Server) clearGlobalDefault() {
	for i := range s.accounts {
		s.accounts[i].IsGlobalDefault = false
	}
}

func (s *Server) clearPropertyDefault(property string) {
	for i := range s.accounts {
		for j := range s.accounts[i].Links {
			if s.accounts[i].Links[j].PropertyID == property {
				s.accounts[i].Links[j].IsDefault = false
			}
		}
	}
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var in Account
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if in.Name == "" || in.StripeAccountID == "" {
		respond(w, http.StatusBadRequest, "name and stripeAccountId are required", nil)
		return
	}

	in.ID = uuid.NewString()
	in.Links = nil

	s.mu.Lock()
	if in.IsGlobalDefault {
		s.clearGlobalDefault()
	}
	s.accounts = append(s.accounts, in)
	s.mu.Unlock()

	respond(w, http.StatusCreated, "Account created", in)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var fields struct {
		Name            *string `json:"name"`
		StripeAccountID *string `json:"stripeAccountId"`
		IsGlobalDefault *bool   `json:"isGlobalDefault"`
	}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(r.PathValue("id"))
	if i < 0 {
		respond(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	if fields.Name != nil {
		s.accounts[i].Name = *fields.Name
	}
	if fields.StripeAccountID != nil {
		s.accounts[i].StripeAccountID = *fields.StripeAccountID
	}
	if fields.IsGlobalDefault != nil {
		if *fields.IsGlobalDefault {
			s.clearGlobalDefault()
		}
		s.accounts[i].IsGlobalDefault = *fields.IsGlobalDefault
	}
	respond(w, http.StatusOK, "Account updated", s.accounts[i])
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(r.PathValue("id"))
	if i < 0 {
		respond(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	s.accounts = slices.Delete(s.accounts, i, i+1)
	respond(w, http.StatusOK, "Account deleted", nil)
}

func (s *Server) link(w http.ResponseWriter, r *http.Request) {
	var in Link
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.PropertyID == "" {
		respond(w, http.StatusBadRequest, "propertyId is required", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(r.PathValue("id"))
	if i < 0 {
		respond(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	if slices.ContainsFunc(s.accounts[i].Links, func(l Link) bool { return l.PropertyID == in.PropertyID }) {
		respond(w, http.StatusConflict, fmt.Sprintf("Property %s already linked", in.PropertyID), nil)
		return
	}
	if in.IsDefault {
		s.clearPropertyDefault(in.PropertyID)
	}
	s.accounts[i].Links = append(s.accounts[i].Links, in)
	respond(w, http.StatusCreated, "Property linked", s.accounts[i])
}

func (s *Server) unlink(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(r.PathValue("id"))
	if i < 0 {
		respond(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	property := r.PathValue("property")
	j := slices.IndexFunc(s.accounts[i].Links, func(l Link) bool { return l.PropertyID == property })
	if j < 0 {
		respond(w, http.StatusNotFound, "Link not found", nil)
		return
	}
	s.accounts[i].Links = slices.Delete(s.accounts[i].Links, j, j+1)
	respond(w, http.StatusOK, "Property unlinked", nil)
}

func (s *Server) setDefault(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PropertyID string `json:"propertyId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.PropertyID == "" {
		respond(w, http.StatusBadRequest, "propertyId is required", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(r.PathValue("id"))
	if i < 0 {
		respond(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	j := slices.IndexFunc(s.accounts[i].Links, func(l Link) bool { return l.PropertyID == in.PropertyID })
	if j < 0 {
		respond(w, http.StatusNotFound, "Link not found", nil)
		return
	}
	s.clearPropertyDefault(in.PropertyID)
	s.accounts[i].Links[j].IsDefault = true
	respond(w, http.StatusOK, "Default set", s.accounts[i])
}
