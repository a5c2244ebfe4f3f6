package middlewarex

import (
	"bytes"
	"cmp"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zenazn/goji/web/mutil"

	"iris_api/pkg/logx"
)

// AccessLog writes one line for the request and one for the response. Bodies
// pass through masker and are cut at maxLen bytes (0 means no limit). HTML
// responses and GET request bodies are not logged. The request body is read
// up front, so BodyLimit must run before AccessLog.
//
// The trouble with optional interfaces:
// https://blog.merovius.de/posts/2017-07-30-the-trouble-with-optional-interfaces/
func AccessLog(masker logx.SensitiveDataMaskerInterface, maxLen int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()

			var requestBody []byte

			if r.Method != http.MethodGet && r.Body != nil {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					logger(ctx).Warn("read request body", logx.Error(err))
				}

				r.Body = replayBody(body, err)
				requestBody = body
			}

			logger(ctx).Info(
				logx.FieldHTTPRequest,
				slog.Int64("content-length", r.ContentLength),
				slog.String(logx.FieldRequestBody, logx.Truncate(masker.Mask(requestBody), maxLen)),
			)

			lw := mutil.WrapWriter(w)

			var buf bytes.Buffer

			lw.Tee(&buf)

			next.ServeHTTP(lw, r)

			responseBody := buf.Bytes()
			if strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
				responseBody = []byte("<html omitted>")
			}

			// lw.Status() is 0 when the handler never called WriteHeader.
			status := cmp.Or(lw.Status(), http.StatusOK)

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			logger(ctx).Log(ctx, level,
				logx.FieldHTTPResponse,
				slog.String("route", routePattern(r)),
				slog.Int(logx.FieldResponseStatus, status),
				slog.Int("bytes", lw.BytesWritten()),
				slog.String(logx.FieldResponseBody, logx.Truncate(masker.Mask(responseBody), maxLen)),
				slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
			)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return "unmatched"
}

// replayBody hands the handler the bytes AccessLog already consumed,
// followed by the error that stopped the read, if any.
func replayBody(body []byte, readErr error) io.ReadCloser {
	if readErr == nil {
		return io.NopCloser(bytes.NewReader(body))
	}

	return io.NopCloser(io.MultiReader(bytes.NewReader(body), errReader{err: readErr}))
}

type errReader struct {
	err error
}

func (e errReader) Read([]byte) (int, error) {
	return 0, e.err
}
