package ranking

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/krishanu7/minigames-bot/internal/scores"
)

// Submission is the outcome of recording one completed game.
type Submission struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Difficulty string `json:"difficulty"`
	TimeMs     int64  `json:"time_ms"`
	Rank       int    `json:"rank"`
}

type Service struct {
	db    *sqlx.DB
	store *scores.Store
}

func NewService(db *sqlx.DB, store *scores.Store) *Service {
	return &Service{db: db, store: store}
}

// RankOf returns 1 + the number of records in difficulty strictly faster than
// timeMs. Equal times share a rank.
func (s *Service) RankOf(ctx context.Context, difficulty string, timeMs int64) (int, error) {
	if err := scores.ValidateDifficulty(difficulty); err != nil {
		return 0, err
	}

	query := s.db.Rebind(`
		SELECT COUNT(*) + 1 FROM scores
		WHERE difficulty = ? AND time_ms < ?
	`)
	var rank int
	if err := s.db.GetContext(ctx, &rank, query, difficulty, timeMs); err != nil {
		return 0, scores.StorageError("rank score", err)
	}
	return rank, nil
}

// Submit stores the score and ranks it against the table as it stands right
// after the insert. A failed insert never reaches the rank query.
func (s *Service) Submit(ctx context.Context, score scores.NewScore) (Submission, error) {
	id, err := s.store.Insert(ctx, score)
	if err != nil {
		return Submission{}, err
	}

	rank, err := s.RankOf(ctx, score.Difficulty, score.TimeMs)
	if err != nil {
		return Submission{}, err
	}

	return Submission{
		ID:         id,
		UserID:     score.UserID,
		Difficulty: score.Difficulty,
		TimeMs:     score.TimeMs,
		Rank:       rank,
	}, nil
}
