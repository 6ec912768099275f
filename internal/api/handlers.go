package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/krishanu7/minigames-bot/internal/events"
	"github.com/krishanu7/minigames-bot/internal/leaderboard"
	"github.com/krishanu7/minigames-bot/internal/metrics"
	"github.com/krishanu7/minigames-bot/internal/scores"
	"github.com/krishanu7/minigames-bot/internal/telegram"
)

type leaderboardResponse struct {
	Difficulty string                         `json:"difficulty"`
	Entries    []leaderboard.LeaderboardEntry `json:"entries"`
}

type bestResponse struct {
	PlayerID   int64  `json:"player_id"`
	Difficulty string `json:"difficulty"`
	BestTimeMs int64  `json:"best_time_ms"`
}

type submitRequest struct {
	InitData   string `json:"init_data"`
	Difficulty string `json:"difficulty"`
	TimeMs     *int64 `json:"time_ms"`
}

type submitResponse struct {
	ID   int64 `json:"id"`
	Rank int   `json:"rank"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service errors onto HTTP statuses. Storage details
// stay in the log.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scores.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scores.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "score not found")
	case errors.Is(err, telegram.ErrInvalidInitData):
		s.writeError(w, http.StatusUnauthorized, "invalid init data")
	default:
		s.logger.Error("request failed", err,
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID(r.Context())))
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func difficultyParam(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(chi.URLParam(r, "difficulty")))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", err)
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	difficulty := difficultyParam(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	metrics.LeaderboardQueriesTotal.WithLabelValues("api").Inc()
	entries, err := s.board.GetLeaderboard(r.Context(), difficulty, limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, leaderboardResponse{Difficulty: difficulty, Entries: entries})
}

func (s *Server) handleUserBest(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "userID must be an integer")
		return
	}
	difficulty := difficultyParam(r)

	best, ok, err := s.board.GetUserBest(r.Context(), userID, difficulty)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "no record for this difficulty")
		return
	}
	s.writeJSON(w, http.StatusOK, bestResponse{PlayerID: userID, Difficulty: difficulty, BestTimeMs: best})
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.TimeMs == nil {
		s.writeError(w, http.StatusBadRequest, "time_ms is required")
		return
	}

	user, err := telegram.ValidateInitData(req.InitData, s.botToken, s.initDataMaxAge)
	if err != nil {
		metrics.SubmissionErrorsTotal.WithLabelValues("auth").Inc()
		s.logger.Warn("rejected init data", zap.Error(err), zap.String("request_id", requestID(r.Context())))
		s.writeServiceError(w, r, err)
		return
	}

	difficulty := strings.ToLower(strings.TrimSpace(req.Difficulty))
	sub, err := s.ranking.Submit(r.Context(), scores.NewScore{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.FirstName,
		Difficulty:  difficulty,
		TimeMs:      *req.TimeMs,
	})
	if err != nil {
		kind := "storage"
		if errors.Is(err, scores.ErrValidation) {
			kind = "validation"
		}
		metrics.SubmissionErrorsTotal.WithLabelValues(kind).Inc()
		s.writeServiceError(w, r, err)
		return
	}

	metrics.ScoresSubmittedTotal.WithLabelValues(metrics.DifficultyLabel(difficulty)).Inc()
	metrics.SubmittedRank.Observe(float64(sub.Rank))
	s.publish(r.Context(), user, sub.ID, sub.Rank, difficulty, *req.TimeMs)

	s.writeJSON(w, http.StatusCreated, submitResponse{ID: sub.ID, Rank: sub.Rank})
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}
	rec, err := s.scores.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) publish(ctx context.Context, user telegram.WebAppUser, id int64, rank int, difficulty string, timeMs int64) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishScore(ctx, events.ScoreSubmitted{
		ID:          id,
		UserID:      user.ID,
		DisplayName: user.FirstName,
		Difficulty:  difficulty,
		TimeMs:      timeMs,
		Rank:        rank,
		Source:      "api",
	})
	if err != nil {
		s.logger.Error("publish score event", err)
	}
}
