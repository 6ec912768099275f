package scores_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishanu7/minigames-bot/db"
	"github.com/krishanu7/minigames-bot/internal/scores"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(conn, nil))
	return conn
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	conn := newTestDB(t)
	store := scores.NewStore(conn)
	ctx := context.Background()

	first, err := store.Insert(ctx, scores.NewScore{UserID: 1, Username: "ann", DisplayName: "Ann", Difficulty: "easy", TimeMs: 4200})
	require.NoError(t, err)
	second, err := store.Insert(ctx, scores.NewScore{UserID: 1, DisplayName: "Ann", Difficulty: "easy", TimeMs: 4200})
	require.NoError(t, err)

	assert.Greater(t, second, first)

	var rows []db.ScoreRecord
	require.NoError(t, conn.SelectContext(ctx, &rows,
		`SELECT id, user_id, username, first_name, difficulty, time_ms FROM scores ORDER BY id`))
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Username)
	assert.Equal(t, "ann", *rows[0].Username)
	assert.Nil(t, rows[1].Username, "empty username is stored as NULL")
	assert.Equal(t, "Ann", rows[1].DisplayName)
}

func TestInsertValidation(t *testing.T) {
	store := scores.NewStore(newTestDB(t))

	tests := []struct {
		name  string
		score scores.NewScore
	}{
		{"negative time", scores.NewScore{UserID: 1, Difficulty: "easy", TimeMs: -1}},
		{"empty difficulty", scores.NewScore{UserID: 1, Difficulty: "", TimeMs: 10}},
		{"blank difficulty", scores.NewScore{UserID: 1, Difficulty: "   ", TimeMs: 10}},
		{"missing user", scores.NewScore{Difficulty: "easy", TimeMs: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Insert(context.Background(), tt.score)
			assert.ErrorIs(t, err, scores.ErrValidation)
			assert.NotErrorIs(t, err, scores.ErrStorage)
		})
	}
}

func TestInsertZeroTimeIsValid(t *testing.T) {
	store := scores.NewStore(newTestDB(t))

	_, err := store.Insert(context.Background(), scores.NewScore{UserID: 3, Difficulty: "hard", TimeMs: 0})
	assert.NoError(t, err)
}

func TestInsertStorageFailure(t *testing.T) {
	conn := newTestDB(t)
	store := scores.NewStore(conn)
	require.NoError(t, conn.Close())

	_, err := store.Insert(context.Background(), scores.NewScore{UserID: 1, Difficulty: "easy", TimeMs: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, scores.ErrStorage)
	assert.False(t, errors.Is(err, scores.ErrValidation))
}

func TestGet(t *testing.T) {
	store := scores.NewStore(newTestDB(t))
	ctx := context.Background()

	id, err := store.Insert(ctx, scores.NewScore{UserID: 9, Username: "zed", DisplayName: "Zed", Difficulty: "medium", TimeMs: 777})
	require.NoError(t, err)

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, int64(9), rec.UserID)
	assert.Equal(t, "Zed", rec.DisplayName)
	assert.Equal(t, "medium", rec.Difficulty)
	assert.Equal(t, int64(777), rec.TimeMs)
	assert.False(t, rec.CreatedAt.IsZero())

	_, err = store.Get(ctx, id+100)
	assert.ErrorIs(t, err, scores.ErrNotFound)
	assert.NotErrorIs(t, err, scores.ErrStorage)
}
