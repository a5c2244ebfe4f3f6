package httpx

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"iris_api/pkg/logx"
)

const readHeaderTimeout = 5 * time.Second

type ServeOptions struct {
	// Name prefixes the lifecycle log lines ("probe server started").
	Name            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Serve listens on address until ctx is done, then drains in-flight
// requests. A zero ShutdownTimeout waits for them indefinitely.
func Serve(ctx context.Context, address string, handler http.Handler, opts ServeOptions) error {
	name := cmp.Or(opts.Name, "http") + " server"

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	drained := make(chan struct{})

	go func() {
		defer close(drained)

		<-ctx.Done()

		shutdownCtx := context.WithoutCancel(ctx)

		if opts.ShutdownTimeout > 0 {
			var cancel context.CancelFunc

			shutdownCtx, cancel = context.WithTimeout(shutdownCtx, opts.ShutdownTimeout)
			defer cancel()
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger(ctx).Error("httpServer.Shutdown", slog.String("server", name), logx.Error(err))
		}
	}()

	logger(ctx).Info(name+" started", slog.String("address", address))

	err := httpServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	<-drained

	logger(ctx).Info(name+" stopped", slog.String("address", address))

	return nil
}
