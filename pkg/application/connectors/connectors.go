// Package connectors opens shared clients to external stores. A connector
// connects once, verifies the store with a ping bounded by PingTimeout and
// logs its own lifecycle.
package connectors

import (
	"time"

	"iris_api/pkg/contextx"
)

const defaultPingTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
