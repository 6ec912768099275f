package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krishanu7/minigames-bot/db"
	"github.com/krishanu7/minigames-bot/internal/events"
	"github.com/krishanu7/minigames-bot/internal/leaderboard"
	"github.com/krishanu7/minigames-bot/internal/ranking"
	"github.com/krishanu7/minigames-bot/internal/scores"
	"github.com/krishanu7/minigames-bot/pkg/logger"
)

type Submitter interface {
	Submit(ctx context.Context, score scores.NewScore) (ranking.Submission, error)
}

type ScoreReader interface {
	Get(ctx context.Context, id int64) (db.ScoreRecord, error)
}

type Board interface {
	GetLeaderboard(ctx context.Context, difficulty string, limit int) ([]leaderboard.LeaderboardEntry, error)
	GetUserBest(ctx context.Context, userID int64, difficulty string) (int64, bool, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type ScorePublisher interface {
	PublishScore(ctx context.Context, ev events.ScoreSubmitted) error
}

// Options wires a Server. Publisher and Feed may be nil.
type Options struct {
	Ranking        Submitter
	Scores         ScoreReader
	Board          Board
	DB             Pinger
	Publisher      ScorePublisher
	Feed           http.HandlerFunc
	BotToken       string
	InitDataMaxAge time.Duration
	Logger         *logger.Logger
}

// Server serves the leaderboard to the mini apps.
type Server struct {
	ranking        Submitter
	scores         ScoreReader
	board          Board
	db             Pinger
	publisher      ScorePublisher
	feed           http.HandlerFunc
	botToken       string
	initDataMaxAge time.Duration
	logger         *logger.Logger
}

func NewServer(opts Options) *Server {
	return &Server{
		ranking:        opts.Ranking,
		scores:         opts.Scores,
		board:          opts.Board,
		db:             opts.DB,
		publisher:      opts.Publisher,
		feed:           opts.Feed,
		botToken:       opts.BotToken,
		initDataMaxAge: opts.InitDataMaxAge,
		logger:         opts.Logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.LoggingMiddleware)
	r.Use(CORSMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if s.feed != nil {
		r.Get("/ws/leaderboard", s.feed)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Get("/leaderboard/{difficulty}", s.handleLeaderboard)
		r.Get("/players/{userID}/best/{difficulty}", s.handleUserBest)
		r.Post("/scores", s.handleSubmitScore)
		r.Get("/scores/{id}", s.handleGetScore)
	})
	return r
}
