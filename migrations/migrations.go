// Package migrations embeds the Postgres schema, applied in file name order.
package migrations

import (
	"embed"
	"io/fs"
	"slices"
)

//go:embed *.sql
var FS embed.FS

// Files lists the embedded migrations in the order they must run.
func Files() []string {
	names, _ := fs.Glob(FS, "*.sql")
	slices.Sort(names)

	return names
}
