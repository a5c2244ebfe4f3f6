package middlewarex

import (
	"net/http"

	"github.com/rs/xid"

	"iris_api/pkg/contextx"
	"iris_api/pkg/httpx"
)

const maxTraceIDLen = 128

// TraceID takes the caller's X-Trace-Id or mints one, stores it in the
// context and echoes it back. Ids that are too long or contain anything but
// letters, digits and "-_.:" are replaced, since they end up in logs and
// error bodies.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(httpx.HeaderTraceID)
		if !validTraceID(traceID) {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))

		w.Header().Set(httpx.HeaderTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}

	for _, c := range []byte(id) {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}

	return true
}
