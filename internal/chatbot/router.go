package chatbot

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/krishanu7/minigames-bot/internal/metrics"
	"github.com/krishanu7/minigames-bot/pkg/logger"
)

type Handler func(ctx context.Context, ev Event) error

type route struct {
	kind    EventKind
	pattern string
}

// Router is the registration table of a bot. It is filled once at startup and
// consulted by a single dispatch loop, so updates are handled one at a time.
type Router struct {
	bot      string
	routes   map[route]Handler
	fallback Handler
	updates  chan *models.Update
	logger   *logger.Logger
}

func NewRouter(bot string, l *logger.Logger) *Router {
	return &Router{
		bot:     bot,
		routes:  make(map[route]Handler),
		updates: make(chan *models.Update, 64),
		logger:  l.With(zap.String("bot", bot)),
	}
}

// Handle registers h for events of kind whose Pattern equals pattern.
func (r *Router) Handle(kind EventKind, pattern string, h Handler) {
	r.routes[route{kind: kind, pattern: pattern}] = h
}

// Fallback receives events that match no registered route.
func (r *Router) Fallback(h Handler) {
	r.fallback = h
}

// Dispatch runs the handler registered for ev.
func (r *Router) Dispatch(ctx context.Context, ev Event) error {
	metrics.BotUpdatesTotal.WithLabelValues(r.bot, string(ev.Kind())).Inc()

	h, ok := r.routes[route{kind: ev.Kind(), pattern: ev.Pattern()}]
	if !ok {
		if r.fallback == nil {
			r.logger.Debug("no route", zap.String("kind", string(ev.Kind())), zap.String("pattern", ev.Pattern()))
			return nil
		}
		h = r.fallback
	}
	return h(ctx, ev)
}

// Enqueue has the shape of a go-telegram default handler; the poller hands
// every update to it and it queues the update for Run.
func (r *Router) Enqueue(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	select {
	case r.updates <- update:
	case <-ctx.Done():
	}
}

// Run is the dispatch loop. It returns when ctx is cancelled.
func (r *Router) Run(ctx context.Context) {
	r.logger.Info("dispatch loop started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("dispatch loop stopped")
			return
		case update := <-r.updates:
			ev := FromUpdate(update)
			if err := r.Dispatch(ctx, ev); err != nil {
				r.logger.Error("handler failed", err,
					zap.String("kind", string(ev.Kind())),
					zap.String("pattern", ev.Pattern()),
					zap.Int64("chat_id", ev.ChatID()))
			}
		}
	}
}
