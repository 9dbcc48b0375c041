package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/ajharbinger/habit-sprint-api/internal/models"
)

// ErrZeroTargetHours is returned when an effort log would require
// dividing by a habit whose target_hours is zero.
var ErrZeroTargetHours = errors.New("habit target_hours is zero")

// Engine computes composite daily progress scores for a sprint.
type Engine struct{}

// NewEngine creates a new scoring engine instance
func NewEngine() *Engine {
	return &Engine{}
}

// HabitEffort is one logged effort joined with the scoring parameters
// of the habit it was logged against.
type HabitEffort struct {
	HabitID     int64
	Date        models.Date
	Hours       float64
	Weight      float64
	TargetHours float64
}

// DailyScores produces one score slot per calendar day of the sprint,
// from start through end inclusive. A nil slot means no effort was
// logged that day; the first contribution to a day replaces nil rather
// than adding to zero, so "no effort" and "zero score" stay distinct.
//
// Each effort contributes min(hours/target, 1) * weight to its day:
// meeting or exceeding the target earns the habit's full weight, partial
// effort earns a proportional share, and there is no bonus past the
// target. Contributions from different habits on the same day add up;
// nothing caps a day at 100 since weights are not validated to sum to
// anything. Efforts dated outside the sprint range are dropped without
// error.
func (e *Engine) DailyScores(start, end models.Date, efforts []HabitEffort) ([]*float64, error) {
	daysCount := start.DaysUntil(end) + 1
	if daysCount < 0 {
		daysCount = 0
	}
	days := make([]*float64, daysCount)

	for _, effort := range efforts {
		dayIndex := start.DaysUntil(effort.Date)
		if dayIndex < 0 || dayIndex >= daysCount {
			continue
		}

		// Float division by zero would silently produce +Inf and be
		// capped to full weight; it has to surface as a failure instead.
		if effort.TargetHours == 0 {
			return nil, fmt.Errorf("habit %d: %w", effort.HabitID, ErrZeroTargetHours)
		}

		progress := math.Min(effort.Hours/effort.TargetHours, 1)
		score := progress * effort.Weight

		if days[dayIndex] == nil {
			days[dayIndex] = &score
		} else {
			*days[dayIndex] += score
		}
	}

	return days, nil
}
