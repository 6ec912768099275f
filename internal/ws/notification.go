package ws

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/krishanu7/minigames-bot/internal/events"
	"github.com/krishanu7/minigames-bot/pkg/logger"
	wsPkg "github.com/krishanu7/minigames-bot/pkg/websocket"
)

// NotificationWorker turns score events from any process into fresh
// leaderboards for the feed clients of this one.
type NotificationWorker struct {
	RedisClient *redis.Client
	Hub         *wsPkg.Hub
	board       Board
	logger      *logger.Logger
}

func NewNotificationWorker(rdb *redis.Client, hub *wsPkg.Hub, board Board, l *logger.Logger) *NotificationWorker {
	return &NotificationWorker{
		RedisClient: rdb,
		Hub:         hub,
		board:       board,
		logger:      l.With(zap.String("component", "notification_worker")),
	}
}

// Run blocks until ctx is cancelled. It fails only if the subscription cannot
// be established.
func (w *NotificationWorker) Run(ctx context.Context) error {
	pubsub := w.RedisClient.Subscribe(ctx, events.ScoresChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.ScoresChannel, err)
	}
	w.logger.Info("notification worker started", zap.String("channel", events.ScoresChannel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			w.handle(ctx, msg.Payload)
		}
	}
}

func (w *NotificationWorker) handle(ctx context.Context, payload string) {
	ev, err := events.Decode(payload)
	if err != nil {
		w.logger.Warn("dropping malformed score event", zap.Error(err))
		return
	}
	if _, watched := w.Hub.GetRoom(ev.Difficulty); !watched {
		return
	}

	msg, err := snapshot(ctx, w.board, ev.Difficulty, &ev)
	if err != nil {
		w.logger.Error("refresh leaderboard", err, zap.String("difficulty", ev.Difficulty))
		return
	}
	n := w.Hub.Broadcast(ev.Difficulty, msg)
	w.logger.Debug("leaderboard pushed", zap.String("difficulty", ev.Difficulty), zap.Int("clients", n))
}
