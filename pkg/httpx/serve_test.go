package httpx_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"iris_api/pkg/httpx"
)

func TestServeShutsDownOnCancel(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpx.Serve(ctx, ":10030", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}), httpx.ServeOptions{Name: "test", ShutdownTimeout: time.Second})
	})

	// Wait for server to start.
	time.Sleep(time.Second)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://:10030/", http.NoBody)
	rq.NoError(err)

	resp, err := http.DefaultClient.Do(req)
	rq.NoError(err)
	resp.Body.Close()

	rq.Equal(http.StatusTeapot, resp.StatusCode)

	cancel()

	rq.NoError(g.Wait())
}

func TestServeAddressInUse(t *testing.T) {
	rq := require.New(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	rq.NoError(err)

	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = httpx.Serve(ctx, ln.Addr().String(), http.NotFoundHandler(), httpx.ServeOptions{})
	rq.ErrorContains(err, "httpServer.ListenAndServe")
}
