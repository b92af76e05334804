package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/trails/migrations"
	"github.com/pkordes/trails/testutil"
)

// TestMain applies all pending migrations (schema and seed trails) to the
// test database once, before any test in the package runs.
func TestMain(m *testing.M) {
	dsn := os.Getenv(testutil.DSNEnv)
	if dsn == "" {
		// No test DB configured — tests skip themselves via testutil.
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(dsn)
	if _, err := migrations.Up(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("TestMain: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
