package server_test

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/internal/config"
	"github.com/JaimeStill/rental-portal/internal/server"
	"github.com/JaimeStill/rental-portal/pkg/lifecycle"
	"github.com/JaimeStill/rental-portal/pkg/logging"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            freePort(t),
		ReadTimeout:     "5s",
		WriteTimeout:    "5s",
		ShutdownTimeout: "5s",
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("portal"))
	})

	sys := server.New(cfg, handler, logging.Discard())
	assert.Equal(t, fmt.Sprintf("127.0.0.1:%d", cfg.Port), sys.Addr())

	lc := lifecycle.New()
	require.NoError(t, sys.Start(lc))

	url := "http://" + sys.Addr() + "/"
	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(url)
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, 20*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "portal", string(body))

	require.NoError(t, lc.Shutdown(5*time.Second))

	_, err = http.Get(url)
	assert.Error(t, err)
}
