package leaderboard

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/krishanu7/minigames-bot/internal/scores"
)

const DefaultLimit = 10

type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

type LeaderboardEntry struct {
	PlayerID    int64   `json:"player_id" db:"user_id"`
	Username    *string `json:"username,omitempty" db:"username"`
	DisplayName string  `json:"display_name" db:"display_name"`
	BestTimeMs  int64   `json:"best_time_ms" db:"best_time"`
}

// GetLeaderboard returns each player's personal best for difficulty, fastest
// first. A player's names come from the record that set the best time; the
// earliest such record wins a tie, and players on equal times are ordered by
// who got there first. limit 0 means DefaultLimit.
func (s *Service) GetLeaderboard(ctx context.Context, difficulty string, limit int) ([]LeaderboardEntry, error) {
	if err := scores.ValidateDifficulty(difficulty); err != nil {
		return nil, err
	}
	if err := scores.ValidateLimit(limit); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	query := s.db.Rebind(`
		SELECT user_id, username, display_name, best_time
		FROM (
			SELECT id, user_id, username, first_name AS display_name, time_ms AS best_time,
			       ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY time_ms ASC, id ASC) AS rn
			FROM scores
			WHERE difficulty = ?
		) best
		WHERE rn = 1
		ORDER BY best_time ASC, id ASC
		LIMIT ?
	`)

	leaderboard := []LeaderboardEntry{}
	if err := s.db.SelectContext(ctx, &leaderboard, query, difficulty, limit); err != nil {
		return nil, scores.StorageError("load leaderboard", err)
	}
	return leaderboard, nil
}

// GetUserBest returns the player's fastest time for difficulty. ok is false
// when the player has never finished that difficulty.
func (s *Service) GetUserBest(ctx context.Context, userID int64, difficulty string) (best int64, ok bool, err error) {
	if err := scores.ValidateUserID(userID); err != nil {
		return 0, false, err
	}
	if err := scores.ValidateDifficulty(difficulty); err != nil {
		return 0, false, err
	}

	query := s.db.Rebind(`
		SELECT MIN(time_ms) FROM scores
		WHERE user_id = ? AND difficulty = ?
	`)
	var min sql.NullInt64
	if err := s.db.GetContext(ctx, &min, query, userID, difficulty); err != nil {
		return 0, false, scores.StorageError("load personal best", err)
	}
	if !min.Valid {
		return 0, false, nil
	}
	return min.Int64, true, nil
}
