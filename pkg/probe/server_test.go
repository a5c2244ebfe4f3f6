package probe_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"iris_api/pkg/probe"
)

func TestServer(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	probeServer := probe.NewServer(":10001", probe.Options{Name: "iris-api", Version: "v0.0.1"}, nil)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return probeServer.Run(ctx)
	})

	// Wait for server to start.
	time.Sleep(time.Second)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://:10001/healthz", http.NoBody)
	rq.NoError(err)

	resp, err := http.DefaultClient.Do(req)
	rq.NoError(err)

	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)

	cancel()

	rq.NoError(g.Wait())
}

func TestHandler(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		endpoint   string
		ready      probe.ReadinessFunc
		statusCode int
		body       string
	}{
		{
			name:       "Health handler",
			endpoint:   "/healthz",
			ready:      func() bool { return false },
			statusCode: http.StatusOK,
			body:       `{"name":"app-1","version":"v0.0.1","status":"alive"}`,
		},
		{
			name:       "Ready handler",
			endpoint:   "/ready",
			ready:      func() bool { return true },
			statusCode: http.StatusOK,
			body:       `{"name":"app-1","version":"v0.0.1","status":"ready"}`,
		},
		{
			name:       "Not ready",
			endpoint:   "/ready",
			ready:      func() bool { return false },
			statusCode: http.StatusServiceUnavailable,
			body:       `{"name":"app-1","version":"v0.0.1","status":"not_ready"}`,
		},
		{
			name:       "Invalid endpoint",
			endpoint:   "/invalid",
			statusCode: http.StatusNotFound,
			body:       "404 page not found\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			handler := probe.NewServer("", probe.Options{Name: "app-1", Version: "v0.0.1"}, tc.ready).Handler()

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.endpoint, http.NoBody))

			body, err := io.ReadAll(w.Result().Body)
			rq.NoError(err)

			rq.Equal(tc.statusCode, w.Code)
			rq.Equal(tc.body, string(body))
		})
	}
}
