package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grindset/grindset/internal/domain"
)

// ─── Habit API ──────────────────────────────────────────────────────────────
// GET    /api/habits                      list habits with history
// POST   /api/habits                      create {"name": "..."}
// GET    /api/habits/{id}                 one habit
// DELETE /api/habits/{id}                 delete habit and history
// POST   /api/habits/{id}/completions     check in {"date": "2006-01-02", "completed": true}

type createHabitRequest struct {
	Name string `json:"name"`
}

type completionRequest struct {
	Date      domain.Date `json:"date"`      // Zero → today
	Completed *bool       `json:"completed"` // nil → true
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.habits.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if habits == nil {
		habits = []domain.Habit{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"habits": habits,
	})
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	h, err := s.habits.Create(r.Context(), req.Name)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	h, err := s.habits.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.habits.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

func (s *Server) handleRecordCompletion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	}

	day := req.Date
	if day.IsZero() {
		day = s.habits.Today()
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	h, err := s.habits.Record(r.Context(), chi.URLParam(r, "id"), day, completed)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}
