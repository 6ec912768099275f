package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/krishanu7/minigames-bot/internal/events"
	"github.com/krishanu7/minigames-bot/internal/leaderboard"
	"github.com/krishanu7/minigames-bot/internal/metrics"
	"github.com/krishanu7/minigames-bot/pkg/logger"
	wsPkg "github.com/krishanu7/minigames-bot/pkg/websocket"
)

const writeWait = 10 * time.Second

// Board is the read side the feed renders from.
type Board interface {
	GetLeaderboard(ctx context.Context, difficulty string, limit int) ([]leaderboard.LeaderboardEntry, error)
}

// LeaderboardUpdate is the only message the feed sends.
type LeaderboardUpdate struct {
	Type       string                         `json:"type"`
	Difficulty string                         `json:"difficulty"`
	Entries    []leaderboard.LeaderboardEntry `json:"entries"`
	Latest     *events.ScoreSubmitted         `json:"latest,omitempty"`
}

// snapshot renders the current top of difficulty as a feed message.
func snapshot(ctx context.Context, board Board, difficulty string, latest *events.ScoreSubmitted) ([]byte, error) {
	metrics.LeaderboardQueriesTotal.WithLabelValues("ws").Inc()
	entries, err := board.GetLeaderboard(ctx, difficulty, leaderboard.DefaultLimit)
	if err != nil {
		return nil, err
	}
	return json.Marshal(LeaderboardUpdate{
		Type:       "leaderboard",
		Difficulty: difficulty,
		Entries:    entries,
		Latest:     latest,
	})
}

type Handler struct {
	Hub    *wsPkg.Hub
	board  Board
	logger *logger.Logger
}

func NewHandler(hub *wsPkg.Hub, board Board, l *logger.Logger) *Handler {
	return &Handler{
		Hub:    hub,
		board:  board,
		logger: l,
	}
}

// ServeWS streams the leaderboard of ?difficulty= (default easy). The current
// top is sent on connect, then again after every accepted score.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	difficulty := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("difficulty")))
	if difficulty == "" {
		difficulty = "easy"
	}

	initial, err := snapshot(r.Context(), h.board, difficulty, nil)
	if err != nil {
		h.logger.Error("load leaderboard for feed", err, zap.String("difficulty", difficulty))
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := wsPkg.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := wsPkg.NewClient(uuid.NewString(), conn)
	client.Send <- initial
	h.Hub.Join(difficulty, client)
	metrics.LiveSubscribers.Inc()
	h.logger.Debug("feed client connected", zap.String("client_id", client.ID), zap.String("difficulty", difficulty))

	go h.read(client)
	go h.write(client)
}

// read only drains control frames; clients never send anything meaningful.
func (h *Handler) read(c *wsPkg.Client) {
	defer func() {
		if h.Hub.Leave(c) {
			metrics.LiveSubscribers.Dec()
			h.logger.Debug("feed client disconnected", zap.String("client_id", c.ID))
		}
		close(c.Send)
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) write(c *wsPkg.Client) {
	defer c.Conn.Close()

	for msg := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("feed write failed", zap.String("client_id", c.ID), zap.Error(err))
			return
		}
	}
}
