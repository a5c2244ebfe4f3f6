package middlewarex

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// BodyLimit caps request bodies at maxBytes. Reading past the cap fails
// with *http.MaxBytesError. A non-positive maxBytes disables the cap.
func BodyLimit(maxBytes int64) func(next http.Handler) http.Handler {
	if maxBytes <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return middleware.RequestSize(maxBytes)
}
