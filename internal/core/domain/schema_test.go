package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDatabaseRef(t *testing.T) {
	ref := NewDatabaseRef("/dbs", "/indexes", "concert_singer", ".sqlite")

	assert.Equal(t, "concert_singer", ref.ID)
	assert.Equal(t, filepath.Join("/dbs", "concert_singer", "concert_singer.sqlite"), ref.Path)
	assert.Equal(t, filepath.Join("/indexes", "concert_singer"), ref.IndexPath)
}

func TestNewDatabaseRef_ExtensionWithoutDot(t *testing.T) {
	ref := NewDatabaseRef("/dbs", "/indexes", "pets", "db")
	assert.Equal(t, filepath.Join("/dbs", "pets", "pets.db"), ref.Path)
}

func TestIsBookkeepingTable(t *testing.T) {
	skip := DefaultSkipTables()

	assert.True(t, IsBookkeepingTable("sqlite_sequence", skip))
	assert.True(t, IsBookkeepingTable("SQLITE_SEQUENCE", nil))
	assert.True(t, IsBookkeepingTable("sqlite_stat1", skip))
	assert.True(t, IsBookkeepingTable("audit_log", []string{"Audit_Log"}))
	assert.False(t, IsBookkeepingTable("country", skip))
	assert.False(t, IsBookkeepingTable("sqlitex", skip))
}
