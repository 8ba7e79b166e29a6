package accounts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/internal/accounts"
	"github.com/JaimeStill/rental-portal/internal/backend/backendtest"
	"github.com/JaimeStill/rental-portal/pkg/logging"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

func serve(t *testing.T, sys accounts.System, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	routes.Register(mux, "/api", nil, accounts.NewHandler(sys, logging.Discard()).Routes())

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_List(t *testing.T) {
	srv, sys, _ := setup(t)
	srv.PutAccounts(backendtest.Account{ID: "a", Name: "A", StripeAccountID: "acct_a"})

	rec := serve(t, sys, http.MethodGet, "/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body accounts.Projection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Accounts, 1)
	assert.Equal(t, "acct_a", body.Accounts[0].StripeAccountID)
}

func TestHandler_CreateAndLink(t *testing.T) {
	_, sys, _ := setup(t)

	rec := serve(t, sys, http.MethodPost, "/accounts", `{"name":"Main","stripeAccountId":"acct_1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created accounts.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.Projection.Accounts, 1)
	id := created.Projection.Accounts[0].ID

	rec = serve(t, sys, http.MethodPost, "/accounts/"+id+"/links", `{"propertyId":"p1","isDefault":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(t, sys, http.MethodPut, "/accounts/"+id+"/links/p1/default", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandler_SetDefaultMissingLink(t *testing.T) {
	srv, sys, _ := setup(t)
	srv.PutAccounts(backendtest.Account{ID: "a", Name: "A", StripeAccountID: "acct_a"})

	rec := serve(t, sys, http.MethodPut, "/accounts/a/links/p1/default", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_BadBody(t *testing.T) {
	_, sys, _ := setup(t)
	rec := serve(t, sys, http.MethodPost, "/accounts", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
