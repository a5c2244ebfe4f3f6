// Package worker holds the background task handlers.
package worker

import "iris_api/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
