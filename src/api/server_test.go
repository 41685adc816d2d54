package api

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ShutdownDrainsInFlightRequest(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(300 * time.Millisecond)
		finished.Store(true)
		io.WriteString(w, "done")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := NewServer(ln.Addr().String(), handler, quietLogger())

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	type result struct {
		body string
		err  error
	}
	responses := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			responses <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		responses <- result{body: string(b), err: err}
	}()

	<-started
	go srv.Shutdown(context.Background())

	select {
	case err := <-served:
		require.NoError(t, err)
		assert.True(t, finished.Load(), "Serve returned before the in-flight request finished")
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}

	res := <-responses
	require.NoError(t, res.err)
	assert.Equal(t, "done", res.body)
}

func TestServer_ServeReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := NewServer(ln.Addr().String(), http.NotFoundHandler(), quietLogger())

	assert.Error(t, srv.ListenAndServe())
}

func TestNewServer_NilLoggerFallsBackToDefault(t *testing.T) {
	srv := NewServer("127.0.0.1:0", http.NotFoundHandler(), nil)

	require.NotNil(t, srv.logger)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
