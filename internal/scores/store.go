package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/krishanu7/minigames-bot/db"
)

// NewScore is a completed game as reported by a front-end.
type NewScore struct {
	UserID      int64
	Username    string // optional, stored as NULL when empty
	DisplayName string
	Difficulty  string
	TimeMs      int64
}

func (n NewScore) Validate() error {
	if err := ValidateUserID(n.UserID); err != nil {
		return err
	}
	if err := ValidateDifficulty(n.Difficulty); err != nil {
		return err
	}
	if n.TimeMs < 0 {
		return validationError("time_ms must be non-negative, got %d", n.TimeMs)
	}
	return nil
}

// Store is the append-only score table. It exposes no update or delete.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Insert appends a record and returns its id. The row is committed before
// Insert returns.
func (s *Store) Insert(ctx context.Context, score NewScore) (int64, error) {
	if err := score.Validate(); err != nil {
		return 0, err
	}

	var username *string
	if score.Username != "" {
		username = &score.Username
	}

	query := s.db.Rebind(`
		INSERT INTO scores (user_id, username, first_name, difficulty, time_ms)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	var id int64
	err := s.db.QueryRowxContext(ctx, query,
		score.UserID, username, score.DisplayName, score.Difficulty, score.TimeMs,
	).Scan(&id)
	if err != nil {
		return 0, StorageError("insert score", err)
	}
	return id, nil
}

// Get loads one record by id.
func (s *Store) Get(ctx context.Context, id int64) (db.ScoreRecord, error) {
	query := s.db.Rebind(`
		SELECT id, user_id, username, first_name, difficulty, time_ms, created_at
		FROM scores WHERE id = ?
	`)
	var rec db.ScoreRecord
	if err := s.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.ScoreRecord{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return db.ScoreRecord{}, StorageError("load score", err)
	}
	return rec, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
