package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SortedAndEmbedded(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_init.sql", files[0])

	content, err := migrationsFS.ReadFile("migrations/" + files[0])
	require.NoError(t, err)
	for _, table := range []string{"pets", "collaborators", "care_events", "vaccinations", "calendar_feeds"} {
		assert.True(t, strings.Contains(string(content), "CREATE TABLE IF NOT EXISTS "+table+" ("), table)
	}
	assert.Contains(t, string(content), "token            TEXT NOT NULL UNIQUE")
}

func TestNullText(t *testing.T) {
	assert.False(t, nullText("").Valid)
	v := nullText("2025-03-01")
	assert.True(t, v.Valid)
	assert.Equal(t, "2025-03-01", v.String)
}
