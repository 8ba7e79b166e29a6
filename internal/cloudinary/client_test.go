package cloudinary_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/internal/cloudinary"
	"github.com/JaimeStill/rental-portal/pkg/logging"
)

func TestClient_UploadPostsMultipart(t *testing.T) {
	var gotPath string
	var gotFields map[string]string
	var gotFile []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))

		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		gotFile, _ = io.ReadAll(f)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := cloudinary.New(srv.URL+"/v1_1/", "demo", srv.Client(), logging.Discard())
	resp, err := client.Upload(context.Background(), "raw",
		map[string]string{"folder": "docs", "timestamp": "1"},
		cloudinary.File{Name: "lease.pdf", Data: []byte("%PDF")},
	)
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, "/v1_1/demo/raw/upload", gotPath)
	assert.Equal(t, map[string]string{"folder": "docs", "timestamp": "1"}, gotFields)
	assert.Equal(t, []byte("%PDF"), gotFile)
}

func TestClient_DeleteByToken(t *testing.T) {
	var gotPath, gotPublicID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPublicID = r.FormValue("public_id")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	client := cloudinary.New(srv.URL, "demo", nil, logging.Discard())
	resp, err := client.DeleteByToken(context.Background(), map[string]string{"public_id": "docs/lease"})
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "/demo/delete_by_token", gotPath)
	assert.Equal(t, "docs/lease", gotPublicID)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := cloudinary.New(url, "demo", nil, logging.Discard())
	_, err := client.DeleteByToken(context.Background(), map[string]string{"public_id": "x"})
	assert.Error(t, err)
}
