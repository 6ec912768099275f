package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/krishanu7/minigames-bot/internal/dedup"
	"github.com/krishanu7/minigames-bot/internal/events"
	"github.com/krishanu7/minigames-bot/internal/leaderboard"
	"github.com/krishanu7/minigames-bot/internal/metrics"
	"github.com/krishanu7/minigames-bot/internal/ranking"
	"github.com/krishanu7/minigames-bot/internal/scores"
	"github.com/krishanu7/minigames-bot/pkg/logger"
)

const defaultDifficulty = "easy"

// Game describes one bot's mini game.
type Game struct {
	Name       string
	ButtonText string
	Welcome    string
	WebAppPath string
	// RecordsTimes is true for games whose results go to the leaderboard.
	RecordsTimes bool
}

var (
	Minesweeper = Game{
		Name:         "minesweeper",
		ButtonText:   "🎮 Play Minesweeper",
		Welcome:      "Welcome to Minesweeper! 💣\n\nTap the button below to start playing.",
		RecordsTimes: true,
	}
	Memory = Game{
		Name:       "memory",
		ButtonText: "🧠 Play Memory",
		Welcome:    "Welcome to Memory Game! 🧠\n\nTest your memory by repeating sequences.\nTap the button below to start playing.",
		WebAppPath: "/memory",
	}
)

// GameByName looks up a bot profile.
func GameByName(name string) (Game, error) {
	switch name {
	case Minesweeper.Name:
		return Minesweeper, nil
	case Memory.Name:
		return Memory, nil
	}
	return Game{}, fmt.Errorf("unknown game %q", name)
}

// Sender is the part of the Telegram client the handlers need.
type Sender interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
}

type Submitter interface {
	Submit(ctx context.Context, score scores.NewScore) (ranking.Submission, error)
}

type Board interface {
	GetLeaderboard(ctx context.Context, difficulty string, limit int) ([]leaderboard.LeaderboardEntry, error)
	GetUserBest(ctx context.Context, userID int64, difficulty string) (int64, bool, error)
}

type Claimer interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type ScorePublisher interface {
	PublishScore(ctx context.Context, ev events.ScoreSubmitted) error
}

// App is the application context of one bot process. It is built at startup
// and handed to every handler.
type App struct {
	Game      Game
	WebAppURL string
	Sender    Sender
	Ranking   Submitter
	Board     Board
	Guard     Claimer        // optional
	Publisher ScorePublisher // optional
	Logger    *logger.Logger
}

// Routes builds the registration table for the app's game.
func (a *App) Routes() *Router {
	r := NewRouter(a.Game.Name, a.Logger)
	r.Handle(KindCommand, "start", a.handleStart)
	r.Handle(KindCommand, "help", a.handleStart)

	if a.Game.RecordsTimes {
		r.Handle(KindCommand, "leaderboard", a.handleLeaderboard)
		r.Handle(KindCommand, "best", a.handleBest)
		r.Handle(KindWebAppData, "game_won", a.handleGameWon)
	} else {
		r.Handle(KindWebAppData, "game_complete", a.handleGameComplete)
	}
	r.Fallback(a.handleUnrouted)
	return r
}

func (a *App) reply(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error {
	params := &tgbot.SendMessageParams{ChatID: chatID, Text: text}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := a.Sender.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (a *App) playKeyboard() models.ReplyMarkup {
	// Telegram only forwards WebApp.sendData for apps opened from a reply
	// keyboard button.
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{{
			{Text: a.Game.ButtonText, WebApp: &models.WebAppInfo{URL: a.WebAppURL + a.Game.WebAppPath}},
		}},
		ResizeKeyboard: true,
	}
}

func (a *App) handleStart(ctx context.Context, ev Event) error {
	text := a.Game.Welcome
	if a.Game.RecordsTimes {
		text += "\n\n/leaderboard [easy|medium|hard] shows the fastest players.\n/best [difficulty] shows your record."
	}
	return a.reply(ctx, ev.ChatID(), text, a.playKeyboard())
}

func (a *App) handleLeaderboard(ctx context.Context, ev Event) error {
	cmd := ev.(CommandEvent)
	difficulty := difficultyArg(cmd.Args)

	metrics.LeaderboardQueriesTotal.WithLabelValues("bot").Inc()
	entries, err := a.Board.GetLeaderboard(ctx, difficulty, leaderboard.DefaultLimit)
	if err != nil {
		a.Logger.Error("load leaderboard", err, zap.String("difficulty", difficulty))
		return a.reply(ctx, cmd.Chat, msgLoadFailed, nil)
	}
	return a.reply(ctx, cmd.Chat, leaderboardText(difficulty, entries), nil)
}

func (a *App) handleBest(ctx context.Context, ev Event) error {
	cmd := ev.(CommandEvent)
	difficulty := difficultyArg(cmd.Args)

	best, ok, err := a.Board.GetUserBest(ctx, cmd.From.ID, difficulty)
	if err != nil {
		a.Logger.Error("load personal best", err, zap.Int64("user_id", cmd.From.ID))
		return a.reply(ctx, cmd.Chat, msgLoadFailed, nil)
	}
	return a.reply(ctx, cmd.Chat, bestText(difficulty, best, ok), nil)
}

func (a *App) handleGameWon(ctx context.Context, ev Event) error {
	data := ev.(WebAppDataEvent)
	log := a.Logger.With(zap.Int64("user_id", data.From.ID), zap.Int("message_id", data.MessageID))

	if data.Err != nil {
		log.Warn("undecodable web app payload", zap.Error(data.Err))
		return a.reply(ctx, data.Chat, msgInvalidResult, nil)
	}

	timeMs, ok := data.Payload.TimeMs()
	if !ok {
		metrics.SubmissionErrorsTotal.WithLabelValues("validation").Inc()
		return a.reply(ctx, data.Chat, msgInvalidResult, nil)
	}
	difficulty := normalizeDifficulty(data.Payload.Difficulty)

	key := dedup.MessageKey(a.Game.Name, data.Chat, data.MessageID)
	if a.Guard != nil {
		first, err := a.Guard.Claim(ctx, key)
		if err != nil {
			// Redis being down must not block score saving.
			log.Error("dedup claim failed", err)
		} else if !first {
			metrics.DuplicateUpdatesTotal.WithLabelValues(a.Game.Name).Inc()
			log.Info("duplicate web app submission skipped")
			return a.reply(ctx, data.Chat, msgAlreadySaved, nil)
		}
	}

	sub, err := a.Ranking.Submit(ctx, scores.NewScore{
		UserID:      data.From.ID,
		Username:    data.From.Username,
		DisplayName: data.From.DisplayName,
		Difficulty:  difficulty,
		TimeMs:      timeMs,
	})
	if err != nil {
		a.releaseClaim(ctx, key, log)
		if errors.Is(err, scores.ErrValidation) {
			metrics.SubmissionErrorsTotal.WithLabelValues("validation").Inc()
			log.Warn("rejected score", zap.Error(err))
			return a.reply(ctx, data.Chat, msgInvalidResult, nil)
		}
		metrics.SubmissionErrorsTotal.WithLabelValues("storage").Inc()
		log.Error("save score", err)
		return a.reply(ctx, data.Chat, msgSaveFailed, nil)
	}

	metrics.ScoresSubmittedTotal.WithLabelValues(metrics.DifficultyLabel(difficulty)).Inc()
	metrics.SubmittedRank.Observe(float64(sub.Rank))
	log.Info("score saved", zap.Int64("score_id", sub.ID), zap.String("difficulty", difficulty),
		zap.Int64("time_ms", timeMs), zap.Int("rank", sub.Rank))

	a.publish(ctx, data.From, sub, log)

	best, hasBest, err := a.Board.GetUserBest(ctx, data.From.ID, difficulty)
	if err != nil {
		log.Error("load personal best", err)
		hasBest = false
	}
	return a.reply(ctx, data.Chat, gameWonText(difficulty, timeMs, sub.Rank, best, hasBest), nil)
}

func (a *App) handleGameComplete(ctx context.Context, ev Event) error {
	data := ev.(WebAppDataEvent)
	if data.Err != nil {
		a.Logger.Warn("undecodable web app payload", zap.Error(data.Err))
		return a.reply(ctx, data.Chat, msgInvalidResult, nil)
	}
	level := data.Payload.Level
	if level == 0 {
		level = 1
	}
	text := memoryResultText(normalizeDifficulty(data.Payload.Difficulty), level, data.Payload.Score)
	return a.reply(ctx, data.Chat, text, nil)
}

func (a *App) handleUnrouted(ctx context.Context, ev Event) error {
	if cmd, ok := ev.(CommandEvent); ok {
		return a.reply(ctx, cmd.Chat, "Unknown command. Try /start.", nil)
	}
	return nil
}

func (a *App) releaseClaim(ctx context.Context, key string, log *logger.Logger) {
	if a.Guard == nil {
		return
	}
	if err := a.Guard.Release(ctx, key); err != nil {
		log.Error("dedup release failed", err)
	}
}

func (a *App) publish(ctx context.Context, from Player, sub ranking.Submission, log *logger.Logger) {
	if a.Publisher == nil {
		return
	}
	err := a.Publisher.PublishScore(ctx, events.ScoreSubmitted{
		ID:          sub.ID,
		UserID:      sub.UserID,
		DisplayName: from.DisplayName,
		Difficulty:  sub.Difficulty,
		TimeMs:      sub.TimeMs,
		Rank:        sub.Rank,
		Source:      a.Game.Name,
	})
	if err != nil {
		log.Error("publish score event", err)
	}
}

func normalizeDifficulty(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if d == "" {
		return defaultDifficulty
	}
	return d
}

func difficultyArg(args []string) string {
	if len(args) == 0 {
		return defaultDifficulty
	}
	return normalizeDifficulty(args[0])
}
