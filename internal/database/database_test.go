package database

import (
	"io"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_RequiresURL(t *testing.T) {
	_, err := Open("")
	assert.EqualError(t, err, "DATABASE_URL is not set")
}

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationFiles, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	versions := []uint{first}
	for v, err := src.Next(first); err == nil; v, err = src.Next(v) {
		versions = append(versions, v)
	}
	assert.Equal(t, []uint{1, 2, 3}, versions)

	for _, v := range versions {
		up, _, err := src.ReadUp(v)
		require.NoError(t, err)
		body, err := io.ReadAll(up)
		up.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, body)

		down, _, err := src.ReadDown(v)
		require.NoError(t, err)
		down.Close()
	}

	firstUp, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer firstUp.Close()
	schema, err := io.ReadAll(firstUp)
	require.NoError(t, err)
	for _, table := range []string{"users", "address", "product", "orders", "carts"} {
		assert.Contains(t, string(schema), table)
	}
}
