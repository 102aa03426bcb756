package domain

// ─── Discipline Types ───────────────────────────────────────────────────────
// The discipline score turns habit history into a 0–100 number, a named tier
// and a progress bar toward the next tier. Everything here is derived: it is
// recomputed from the full habit snapshot on every request.

// MaxLevelName is reported as NextLevel once the top tier is reached.
const MaxLevelName = "Max Level"

// Level is a named tier of the discipline score.
type Level struct {
	Name     string `json:"name"`
	MinScore int    `json:"min_score"`
}

// Levels is the tier table, ordered ascending by MinScore. Never mutated.
var Levels = []Level{
	{Name: "Novice", MinScore: 0},
	{Name: "Apprentice", MinScore: 20},
	{Name: "Practitioner", MinScore: 40},
	{Name: "Expert", MinScore: 60},
	{Name: "Master", MinScore: 80},
	{Name: "Grandmaster", MinScore: 95},
}

// DisciplineScore is the scored view of a habit snapshot.
type DisciplineScore struct {
	Score     int    `json:"score"`     // 0–100
	Level     string `json:"level"`     // Current tier name
	NextLevel string `json:"nextLevel"` // Next tier name or MaxLevelName
	Progress  int    `json:"progress"`  // 0–100 within the current tier band
}

// WeeklyReview summarizes the trailing week.
type WeeklyReview struct {
	CompletionRate  int     `json:"completionRate"`  // 0–100
	StreakGrowth    float64 `json:"streakGrowth"`    // Rounded to 2 decimals
	TopHabit        *string `json:"topHabit"`        // nil when there are no habits
	ImprovementArea *string `json:"improvementArea"` // nil when nothing was missed
	Summary         string  `json:"summary"`
}

// Quote is a motivational line shown next to the score.
type Quote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// ScoreSnapshot is one persisted day of score history.
type ScoreSnapshot struct {
	Date       Date            `json:"date"`
	Score      DisciplineScore `json:"score"`
	HabitCount int             `json:"habit_count"`
}
