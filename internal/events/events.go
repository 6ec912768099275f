package events

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// ScoresChannel carries ScoreSubmitted events between bot and API processes.
const ScoresChannel = "minigames:scores"

const TypeScoreSubmitted = "score_submitted"

type ScoreSubmitted struct {
	Type        string    `json:"type"`
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Difficulty  string    `json:"difficulty"`
	TimeMs      int64     `json:"time_ms"`
	Rank        int       `json:"rank"`
	Source      string    `json:"source"`
	At          time.Time `json:"at"`
}

type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb, channel: ScoresChannel}
}

func (p *Publisher) PublishScore(ctx context.Context, ev ScoreSubmitted) error {
	ev.Type = TypeScoreSubmitted
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal score event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish score event: %w", err)
	}
	return nil
}

// Decode parses a pub/sub payload.
func Decode(payload string) (ScoreSubmitted, error) {
	var ev ScoreSubmitted
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ScoreSubmitted{}, fmt.Errorf("failed to unmarshal score event: %w", err)
	}
	if ev.Type != TypeScoreSubmitted {
		return ScoreSubmitted{}, fmt.Errorf("unexpected event type %q", ev.Type)
	}
	return ev, nil
}
