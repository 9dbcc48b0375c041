package models

import "time"

// Sprint is a named, fixed date-range container for habits.
// EndDate is inclusive; a one-day sprint has StartDate == EndDate.
type Sprint struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate Date      `json:"start_date" db:"start_date"`
	EndDate   Date      `json:"end_date" db:"end_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Habit is a weighted daily activity within a sprint. Weight is the
// maximum contribution (in score points) a fully-met habit adds to a
// single day's score; TargetHours is the effort required for that full
// contribution. Neither is validated on input.
type Habit struct {
	ID          int64   `json:"id" db:"id"`
	SprintID    int64   `json:"sprint_id" db:"sprint_id"`
	Name        string  `json:"name" db:"name"`
	Weight      float64 `json:"weight" db:"weight"`
	TargetHours float64 `json:"target_hours" db:"target_hours"`
}

// EffortLog records hours spent on a habit on a specific date.
// At most one row exists per (habit, date); re-logging overwrites hours.
type EffortLog struct {
	ID        int64     `json:"id" db:"id"`
	HabitID   int64     `json:"habit_id" db:"habit_id"`
	Date      Date      `json:"date" db:"date"`
	Hours     float64   `json:"hours" db:"hours"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HabitForm is a habit specification submitted as part of sprint creation.
type HabitForm struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	TargetHours float64 `json:"target_hours"`
}

// SprintForm is the request body for sprint creation.
type SprintForm struct {
	Name      string      `json:"name"`
	StartDate Date        `json:"start_date"`
	EndDate   Date        `json:"end_date"`
	Habits    []HabitForm `json:"habits"`
}

// EffortForm is the request body for logging effort against a habit.
type EffortForm struct {
	HabitID int64   `json:"habit_id"`
	Date    Date    `json:"date"`
	Hours   float64 `json:"hours"`
}

// CreateSprintResult reports the identities assigned during sprint creation.
// When two submitted habits share a name the later one wins in HabitIDs,
// though both habit rows are persisted.
type CreateSprintResult struct {
	SprintID int64            `json:"sprint_id"`
	HabitIDs map[string]int64 `json:"habit_ids"`
}

// SprintDetail is a sprint with its habits and the per-day composite
// score array. Days has one slot per calendar day of the sprint; a nil
// slot means no effort was logged that day (distinct from a zero score).
type SprintDetail struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	StartDate Date       `json:"start_date"`
	EndDate   Date       `json:"end_date"`
	Habits    []Habit    `json:"habits"`
	Days      []*float64 `json:"days"`
}

// DailyEffort reports the hours logged for one habit on one date.
// Hours is explicitly zero when no effort log exists for that date.
type DailyEffort struct {
	HabitName string  `json:"habit_name"`
	HabitID   int64   `json:"habit_id"`
	Hours     float64 `json:"hours"`
}
