package db

import "time"

// ScoreRecord is one completed game. Rows are written once and never updated.
type ScoreRecord struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	Username    *string   `json:"username,omitempty" db:"username"`
	DisplayName string    `json:"display_name" db:"first_name"`
	Difficulty  string    `json:"difficulty" db:"difficulty"`
	TimeMs      int64     `json:"time_ms" db:"time_ms"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
