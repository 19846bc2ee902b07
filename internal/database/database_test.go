package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchemaIdempotently(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rchk.db")

	db, err := Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'goose%' AND name NOT LIKE 'sqlite%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"match", "person", "player", "team", "teamPlayer"}, names)
}

func TestOpen_EnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "rchk.db"), zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	var enabled int
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)

	_, err = db.ExecContext(ctx, `INSERT INTO "team" ("matchId", "isRedSide", "dragons", "barons", "towers", "inhibs", "ban0", "ban1", "ban2", "ban3", "ban4", "timestamp") VALUES (1, 0, 0, 0, 0, 0, '', '', '', '', '', 0)`)
	assert.Error(t, err)
}

func TestOpen_CheckConstraints(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "rchk.db"), zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO "match" ("matchId", "redSideWon", "length", "date", "timestamp") VALUES (1, 2, 100, 100, 0)`)
	assert.Error(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO "player" ("accountId", "summonerName", "iconId", "region", "timestamp") VALUES (1, 'x', 29, 'MARS', 0)`)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file:/tmp/a.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", DSN("/tmp/a.db"))
}
