package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/erdos/backend/internal/config"
	"github.com/vanshika/erdos/backend/internal/domain"
)

func testHTTPConfig(port int) config.HTTPConfig {
	return config.HTTPConfig{
		Host:            "127.0.0.1",
		Port:            port,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestServer_ServesUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := New(discardLogger(), testHTTPConfig(0), handler, domain.GraphStats{Authors: 4, DistanceMode: "hops"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestServer_RunFailsWhenAddressIsTaken(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	port := taken.Addr().(*net.TCPAddr).Port
	srv := New(discardLogger(), testHTTPConfig(port), http.NotFoundHandler(), domain.GraphStats{})

	err = srv.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
