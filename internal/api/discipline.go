package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/grindset/grindset/internal/domain"
)

// ─── Discipline API ─────────────────────────────────────────────────────────
// Views over the current habit snapshot. Every request scores the full
// snapshot from scratch; score and report also upsert today's history row.
//
// GET /api/discipline/score         score, level, next level, progress
// GET /api/discipline/suggestions   improvement hints
// GET /api/discipline/review        trailing-week review
// GET /api/discipline/quote         motivational quote
// GET /api/discipline/levels        tier table
// GET /api/discipline/report        all of the above in one response
// GET /api/discipline/history       daily score snapshots, newest first

const defaultHistoryLimit = 30

// snapshot loads habits or writes the error response. ok is false on error.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (habits []domain.Habit, ok bool) {
	habits, err := s.habits.Snapshot(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return nil, false
	}
	return habits, true
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	habits, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	today := s.engine.Today()
	score := s.engine.ScoreAt(habits, today)
	s.saveSnapshot(r, today, score, len(habits))
	writeJSON(w, http.StatusOK, score)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	habits, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": s.engine.Suggestions(habits),
	})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	habits, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Review(habits))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Quote())
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"levels":    domain.Levels,
		"max_level": domain.MaxLevelName,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	habits, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	rep := s.engine.Report(habits)
	s.saveSnapshot(r, rep.Date, rep.Score, len(habits))
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "score history not enabled")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	snaps, err := s.history.ListScoreSnapshots(r.Context(), limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if snaps == nil {
		snaps = []domain.ScoreSnapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": snaps,
	})
}

// saveSnapshot records the score computed for day. Failures are logged, not
// returned: the score itself was computed fine.
func (s *Server) saveSnapshot(r *http.Request, day domain.Date, score domain.DisciplineScore, habitCount int) {
	if s.history == nil {
		return
	}
	snap := domain.ScoreSnapshot{
		Date:       day,
		Score:      score,
		HabitCount: habitCount,
	}
	if err := s.history.SaveScoreSnapshot(r.Context(), snap); err != nil {
		s.logger.Warn("score snapshot not saved", zap.Error(err))
	}
}
