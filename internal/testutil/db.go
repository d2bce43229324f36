// Package testutil provides test utilities for database setup.
package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/idkit/prefixid"
)

// IDSchema is a minimal table pair for exercising identifier columns:
// a required id column and a nullable reference column, both sized to
// prefixid.ColumnType.
var IDSchema = fmt.Sprintf(`
CREATE TABLE accounts (
	id %[1]s PRIMARY KEY,
	owner_id %[1]s,
	seq INTEGER NOT NULL DEFAULT 0
);
`, prefixid.ColumnType)

// NewTestDB creates an in-memory SQLite database and applies schema.
// The pool is pinned to one connection so every query sees the same
// in-memory database. The database is closed on test cleanup.
func NewTestDB(t *testing.T, schema string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if schema != "" {
		_, err = db.Exec(schema)
		require.NoError(t, err)
	}
	return db
}
