package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "scores.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", sqliteDSN("scores.db"))
	assert.Equal(t, "file:x.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", sqliteDSN("file:x.db?mode=rwc"))
	assert.Equal(t, "x.db?_pragma=foreign_keys(1)", sqliteDSN("x.db?_pragma=foreign_keys(1)"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "root@/scores")
	assert.ErrorContains(t, err, "unsupported")
}

func TestMigrateCreatesScoresTable(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "leaderboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, Migrate(conn, nil))
	// Running twice is a no-op.
	require.NoError(t, Migrate(conn, nil))

	var indexes []string
	err = conn.SelectContext(ctx, &indexes,
		`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'scores' AND name LIKE 'idx_%' ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"idx_difficulty_time", "idx_user_difficulty_time"}, indexes)

	_, err = conn.ExecContext(ctx,
		`INSERT INTO scores (user_id, first_name, difficulty, time_ms) VALUES (1, 'Ann', 'easy', -5)`)
	assert.Error(t, err, "negative times are rejected by the schema as well")
}
