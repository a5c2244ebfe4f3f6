// Package middlewarex holds the net/http middleware stack shared by the API
// server: tracing, contextual logging, access logging, recovery, CORS and
// request metrics.
package middlewarex

import "iris_api/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
