// Package modules runs long-lived process components inside a shared
// errgroup and stops them when the group context is cancelled.
package modules

import "iris_api/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
