package middlewarex

import (
	"net/http"

	"github.com/go-chi/cors"

	"iris_api/pkg/httpx"
)

const corsMaxAgeSeconds = 300

// CORS lets browser pages served from other origins call the API.
// An origin list containing "*" allows everyone.
func CORS(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", httpx.HeaderTraceID},
		ExposedHeaders: []string{httpx.HeaderTraceID},
		MaxAge:         corsMaxAgeSeconds,
	})
}
