package invalidation_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/internal/invalidation"
	"github.com/JaimeStill/rental-portal/pkg/logging"
)

func TestHub_PublishFansOut(t *testing.T) {
	hub := invalidation.NewHub(4, logging.Discard())
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer a.Close()
	defer b.Close()

	hub.Publish("documents", "documents/42")

	for _, sub := range []*invalidation.Subscription{a, b} {
		first := <-sub.Events()
		second := <-sub.Events()
		assert.Equal(t, "documents", first.Scope)
		assert.Equal(t, "documents/42", second.Scope)
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := invalidation.NewHub(1, logging.Discard())
	sub := hub.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		hub.Publish("a", "b", "c")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	assert.Equal(t, "a", (<-sub.Events()).Scope)
}

func TestSubscription_Close(t *testing.T) {
	hub := invalidation.NewHub(1, logging.Discard())
	sub := hub.Subscribe()
	require.Equal(t, 1, hub.Subscribers())

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.Subscribers())
	_, ok := <-sub.Events()
	assert.False(t, ok)

	hub.Publish("documents")
}

func TestHandler_Stream(t *testing.T) {
	hub := invalidation.NewHub(4, logging.Discard())
	srv := httptest.NewServer(http.HandlerFunc(invalidation.NewHandler(hub, logging.Discard()).Stream))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish("documents")

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: invalidate\n", line)

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data: "))
	assert.Contains(t, line, `"scope":"documents"`)
}
