package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"pokemon", "caught_pokemon", "pending_actions", "users", "metadata"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDatabaseReapply(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/bloqedex.db"

	db, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Opening the same file again must be a no-op, not a re-run.
	db, err = InitDatabase(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx,
		"INSERT INTO pokemon (pokeapi_id, name) VALUES (25, 'pikachu')")
	require.NoError(t, err)
}
