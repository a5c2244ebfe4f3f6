package dbtest

import (
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
)

// EnvDSN names the variable holding a disposable Postgres DSN for tests.
const EnvDSN = "TEST_PG_DSN"

// DSN returns the test database DSN or skips the test when none is set.
func DSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}

	return dsn
}

// MigrateFromFS executes all SQL queries from the files over a database
// connection, in the given order.
func MigrateFromFS(db *sqlx.DB, fsys fs.FS, fileNames ...string) error {
	for _, fileName := range fileNames {
		fileBytes, err := fs.ReadFile(fsys, fileName)
		if err != nil {
			return fmt.Errorf("fs.ReadFile: %w", err)
		}

		if _, err = db.Exec(string(fileBytes)); err != nil {
			return fmt.Errorf("db.Exec(%s): %w", fileName, err)
		}
	}

	return nil
}
