package modules

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"iris_api/pkg/httpx"
)

// HTTPServer runs the public API and drains it on shutdown within
// ShutdownTimeout.
type HTTPServer struct {
	ListenAddress   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (h HTTPServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	handler http.Handler,
) {
	g.Go(func() error {
		err := httpx.Serve(ctx, h.ListenAddress, handler, httpx.ServeOptions{
			Name:            "api",
			ReadTimeout:     h.ReadTimeout,
			WriteTimeout:    h.WriteTimeout,
			ShutdownTimeout: h.ShutdownTimeout,
		})
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}

		return nil
	})
}
