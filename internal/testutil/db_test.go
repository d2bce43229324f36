package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTestDB_AppliesSchema(t *testing.T) {
	db := NewTestDB(t, IDSchema)

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='accounts'").Scan(&name)
	require.NoError(t, err, "accounts table should exist")
	require.Equal(t, "accounts", name)
}

func TestNewTestDB_SharesOneConnection(t *testing.T) {
	db := NewTestDB(t, "CREATE TABLE t (v TEXT)")

	_, err := db.Exec("INSERT INTO t (v) VALUES ('a')")
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM t").Scan(&n))
	require.Equal(t, 1, n, "insert and count must hit the same in-memory database")
}
