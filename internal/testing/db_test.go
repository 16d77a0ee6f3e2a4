package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableCount(t *testing.T, name string) int {
	t.Helper()
	db := NewTestDB(t, name)

	var n int
	err := db.Conn().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'runs'`).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestNewTestDB_AppliesRegisteredSchema(t *testing.T) {
	assert.Equal(t, 1, tableCount(t, "history"))
}

func TestNewTestDB_UnknownNameIsEmpty(t *testing.T) {
	assert.Equal(t, 0, tableCount(t, "scratch"))
}
