package middlewarex

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"git.appkode.ru/pub/go/failure"

	"iris_api/pkg/errcodes"
	"iris_api/pkg/httpx/reply"
	"iris_api/pkg/logx"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler { //nolint:errorlint,goerr113
					panic(rec)
				}

				logger(ctx).Error(
					"panic in handler",
					slog.Any(logx.FieldError, rec),
					slog.String(logx.FieldStack, string(debug.Stack())),
				)

				reply.Error(ctx, w, failure.NewInternalServerError(
					fmt.Sprintf("panic: %v", rec),
					failure.WithCode(errcodes.InternalServerError),
				))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
