package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(files, dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		body, err := fs.ReadFile(files, dir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}
}

func TestAppointmentsMigration_HasExclusionConstraint(t *testing.T) {
	body, err := fs.ReadFile(files, dir+"/00001_create_appointments.sql")
	require.NoError(t, err)

	sql := string(body)
	assert.True(t, strings.Contains(sql, "EXCLUDE USING gist"))
	assert.Contains(t, sql, "'[)'")
}
