package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/grindset/grindset/internal/app/discipline"
	"github.com/grindset/grindset/internal/app/habit"
	"github.com/grindset/grindset/internal/domain"
	"github.com/grindset/grindset/internal/infra/sqlite"
)

// ─── API Tests ──────────────────────────────────────────────────────────────

var testNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

func setupServer(t *testing.T) (http.Handler, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := func() time.Time { return testNow }
	habits := habit.NewService(db, time.UTC, zap.NewNop())
	habits.SetClock(clock)
	engine := discipline.New(discipline.Config{Location: time.UTC}, zap.NewNop())
	engine.SetClock(clock)
	engine.SetRand(fixedSource(0))

	srv := NewServer(habits, engine, db, zap.NewNop())
	srv.EnableMetrics()
	return srv.Handler(), db
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func createHabit(t *testing.T, h http.Handler, name string) domain.Habit {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/habits", `{"name":"`+name+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create %s: expected 201, got %d: %s", name, w.Code, w.Body)
	}
	var out domain.Habit
	decode(t, w, &out)
	return out
}

func TestHealthAndVersion(t *testing.T) {
	h, _ := setupServer(t)

	if w := do(t, h, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("/health: expected 200, got %d", w.Code)
	}

	var v map[string]string
	decode(t, do(t, h, http.MethodGet, "/api/version", ""), &v)
	if v["version"] != Version {
		t.Errorf("version = %q, want %q", v["version"], Version)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := setupServer(t)
	w := do(t, h, http.MethodOptions, "/api/habits", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

// ─── Habits ─────────────────────────────────────────────────────────────────

func TestHabits_CRUD(t *testing.T) {
	h, _ := setupServer(t)

	var list struct {
		Habits []domain.Habit `json:"habits"`
	}
	w := do(t, h, http.MethodGet, "/api/habits", "")
	decode(t, w, &list)
	if list.Habits == nil || len(list.Habits) != 0 {
		t.Errorf("expected empty non-null list, got %s", w.Body)
	}

	read := createHabit(t, h, "Read")
	if read.ID == "" || read.Name != "Read" {
		t.Errorf("created habit = %+v", read)
	}

	if w := do(t, h, http.MethodPost, "/api/habits", `{"name":"read"}`); w.Code != http.StatusConflict {
		t.Errorf("duplicate: expected 409, got %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/api/habits", `{"name":""}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty name: expected 400, got %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/api/habits", `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("bad json: expected 400, got %d", w.Code)
	}

	w = do(t, h, http.MethodGet, "/api/habits/"+read.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	if w := do(t, h, http.MethodDelete, "/api/habits/"+read.ID, ""); w.Code != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/api/habits/"+read.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestHabits_RecordCompletion(t *testing.T) {
	h, _ := setupServer(t)
	run := createHabit(t, h, "Run")

	// Empty body: completed today.
	w := do(t, h, http.MethodPost, "/api/habits/"+run.ID+"/completions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	var got domain.Habit
	decode(t, w, &got)
	if got.Streak != 1 || len(got.Completions) != 1 || got.Completions[0].Date.String() != "2026-10-19" {
		t.Errorf("after check-in = %+v", got)
	}

	w = do(t, h, http.MethodPost, "/api/habits/"+run.ID+"/completions", `{"date":"2026-10-18","completed":false}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	decode(t, w, &got)
	if got.Streak != 0 {
		t.Errorf("streak after miss = %d, want 0", got.Streak)
	}

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"future date", "/api/habits/" + run.ID + "/completions", `{"date":"2026-10-20"}`, http.StatusBadRequest},
		{"bad date", "/api/habits/" + run.ID + "/completions", `{"date":"tomorrow"}`, http.StatusBadRequest},
		{"unknown habit", "/api/habits/ghost/completions", `{"date":"2026-10-19"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, h, http.MethodPost, tt.path, tt.body); w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body)
			}
		})
	}
}

// ─── Discipline ─────────────────────────────────────────────────────────────

func TestDiscipline_EmptyFloor(t *testing.T) {
	h, _ := setupServer(t)

	var score domain.DisciplineScore
	decode(t, do(t, h, http.MethodGet, "/api/discipline/score", ""), &score)
	want := domain.DisciplineScore{Score: 0, Level: "Novice", NextLevel: "Apprentice", Progress: 0}
	if score != want {
		t.Errorf("score = %+v, want %+v", score, want)
	}

	var sugg struct {
		Suggestions []string `json:"suggestions"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/discipline/suggestions", ""), &sugg)
	if len(sugg.Suggestions) != 1 || sugg.Suggestions[0] != discipline.SuggestOnboarding {
		t.Errorf("suggestions = %v", sugg.Suggestions)
	}

	w := do(t, h, http.MethodGet, "/api/discipline/review", "")
	var raw map[string]interface{}
	decode(t, w, &raw)
	if raw["topHabit"] != nil || raw["improvementArea"] != nil {
		t.Errorf("expected null topHabit/improvementArea, got %s", w.Body)
	}
	if raw["summary"] != discipline.SummaryNoHabits {
		t.Errorf("summary = %v", raw["summary"])
	}
}

func TestDiscipline_ScoreAfterCheckIns(t *testing.T) {
	h, _ := setupServer(t)
	read := createHabit(t, h, "Read")

	for i := 9; i >= 0; i-- {
		day := domain.DateOf(testNow).AddDays(-i).String()
		w := do(t, h, http.MethodPost, "/api/habits/"+read.ID+"/completions", `{"date":"`+day+`","completed":true}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("check-in %s: %d %s", day, w.Code, w.Body)
		}
	}

	// Streak 10 → 13.33; rate 100% → 40; 10 of 14 days → 14.29. Total 67.62 → 68.
	var score domain.DisciplineScore
	decode(t, do(t, h, http.MethodGet, "/api/discipline/score", ""), &score)
	want := domain.DisciplineScore{Score: 68, Level: "Expert", NextLevel: "Master", Progress: 40}
	if score != want {
		t.Errorf("score = %+v, want %+v", score, want)
	}

	var review domain.WeeklyReview
	decode(t, do(t, h, http.MethodGet, "/api/discipline/review", ""), &review)
	if review.CompletionRate != 100 || review.TopHabit == nil || *review.TopHabit != "Read" {
		t.Errorf("review = %+v", review)
	}

	var hist struct {
		History []domain.ScoreSnapshot `json:"history"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/discipline/history", ""), &hist)
	if len(hist.History) != 1 || hist.History[0].Score != want || hist.History[0].HabitCount != 1 {
		t.Errorf("history = %+v", hist.History)
	}
}

func TestDiscipline_QuoteLevelsReport(t *testing.T) {
	h, _ := setupServer(t)

	var q domain.Quote
	decode(t, do(t, h, http.MethodGet, "/api/discipline/quote", ""), &q)
	if q != discipline.QuoteAt(0) {
		t.Errorf("quote = %+v, want %+v", q, discipline.QuoteAt(0))
	}

	var lv struct {
		Levels   []domain.Level `json:"levels"`
		MaxLevel string         `json:"max_level"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/discipline/levels", ""), &lv)
	if len(lv.Levels) != len(domain.Levels) || lv.MaxLevel != domain.MaxLevelName {
		t.Errorf("levels = %+v", lv)
	}

	createHabit(t, h, "Stretch")
	var rep discipline.Report
	decode(t, do(t, h, http.MethodGet, "/api/discipline/report", ""), &rep)
	if rep.ID == "" || rep.Date.String() != "2026-10-19" {
		t.Errorf("report header = %q %q", rep.ID, rep.Date)
	}
	if rep.Review.TopHabit == nil || *rep.Review.TopHabit != "Stretch" {
		t.Errorf("report review = %+v", rep.Review)
	}
}

func TestDiscipline_SnapshotDayMatchesScoredDay(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// The first engine reading is just before midnight; every later one is after it.
	beforeMidnight := time.Date(2026, time.October, 19, 23, 59, 59, 0, time.UTC)
	var mu sync.Mutex
	calls := 0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return beforeMidnight
		}
		return beforeMidnight.Add(2 * time.Second)
	}

	habits := habit.NewService(db, time.UTC, zap.NewNop())
	habits.SetClock(func() time.Time { return beforeMidnight })
	engine := discipline.New(discipline.Config{Location: time.UTC}, zap.NewNop())
	engine.SetClock(clock)
	h := NewServer(habits, engine, db, zap.NewNop()).Handler()

	var rep discipline.Report
	decode(t, do(t, h, http.MethodGet, "/api/discipline/report", ""), &rep)
	if rep.Date.String() != "2026-10-19" {
		t.Fatalf("report date = %s, want 2026-10-19", rep.Date)
	}

	snaps, err := db.ListScoreSnapshots(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || !snaps[0].Date.Equal(rep.Date) {
		t.Errorf("snapshots = %+v, want one row dated %s", snaps, rep.Date)
	}
}

func TestDiscipline_HistoryLimit(t *testing.T) {
	h, _ := setupServer(t)
	if w := do(t, h, http.MethodGet, "/api/discipline/history?limit=abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	srv := NewServer(nil, nil, nil, nil)
	w := httptest.NewRecorder()
	srv.handleHistory(w, httptest.NewRequest(http.MethodGet, "/api/discipline/history", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("history disabled: expected 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupServer(t)
	do(t, h, http.MethodGet, "/api/discipline/score", "")

	w := do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "grindset_http_request_duration_seconds") {
		t.Error("metrics output missing request duration histogram")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrHabitNotFound, http.StatusNotFound},
		{domain.ErrHabitExists, http.StatusConflict},
		{domain.ErrInvalidHabitName, http.StatusBadRequest},
		{domain.ErrInvalidDate, http.StatusBadRequest},
		{domain.ErrFutureCompletion, http.StatusBadRequest},
		{http.ErrHandlerTimeout, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
