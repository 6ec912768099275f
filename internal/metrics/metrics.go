package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scoring
	ScoresSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minigames_scores_submitted_total",
		Help: "Scores accepted by the ranking service, by DifficultyLabel",
	}, []string{"difficulty"})
	SubmissionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minigames_submission_errors_total",
		Help: "Rejected or failed score submissions by error kind",
	}, []string{"kind"})
	SubmittedRank = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "minigames_submitted_rank",
		Help:    "Rank assigned to freshly submitted scores",
		Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100, 250},
	})
	LeaderboardQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minigames_leaderboard_queries_total",
		Help: "Leaderboard reads by source (bot, api, ws)",
	}, []string{"source"})

	// Bots
	BotUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minigames_bot_updates_total",
		Help: "Telegram updates dispatched by bot and event kind",
	}, []string{"bot", "kind"})
	DuplicateUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minigames_duplicate_updates_total",
		Help: "Web app submissions skipped because they were already processed",
	}, []string{"bot"})

	// Live feed
	LiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "minigames_live_subscribers",
		Help: "Websocket clients watching a leaderboard",
	})
)

// DifficultyLabel maps a difficulty onto a fixed label set. Difficulties come
// from clients, so unknown tags share one series.
func DifficultyLabel(difficulty string) string {
	switch difficulty {
	case "easy", "medium", "hard":
		return difficulty
	}
	return "other"
}
