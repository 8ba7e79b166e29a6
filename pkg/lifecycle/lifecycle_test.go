package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/pkg/lifecycle"
)

func TestCoordinator_Startup(t *testing.T) {
	lc := lifecycle.New()
	assert.False(t, lc.Ready())

	var ran atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			time.Sleep(5 * time.Millisecond)
			ran.Add(1)
		})
	}

	lc.WaitForStartup()
	assert.Equal(t, int32(3), ran.Load())
	assert.True(t, lc.Ready())
}

func TestCoordinator_Shutdown(t *testing.T) {
	lc := lifecycle.New()

	var closed atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		closed.Store(true)
	})

	require.NoError(t, lc.Shutdown(time.Second))
	assert.True(t, closed.Load())
	assert.Error(t, lc.Context().Err())
}

func TestCoordinator_ShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-release
	})

	err := lc.Shutdown(10 * time.Millisecond)
	assert.ErrorContains(t, err, "shutdown timeout")
}
