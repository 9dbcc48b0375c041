package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ajharbinger/habit-sprint-api/internal/models"
	"github.com/ajharbinger/habit-sprint-api/internal/scoring"
)

// effortRepository implements EffortRepository
type effortRepository struct {
	db dbExecutor
}

// NewEffortRepository creates a new effort log repository
func NewEffortRepository(db dbExecutor) EffortRepository {
	return &effortRepository{db: db}
}

// Upsert inserts or overwrites the effort log for (habitID, date) in a
// single statement. The unique index on (habit_id, date) makes this
// safe under concurrent callers: two racing upserts cannot both insert.
// On conflict only hours changes; id and created_at stay as inserted.
// (xmax = 0) is true only for rows created by this statement, which is
// how we tell an insert from an overwrite.
func (r *effortRepository) Upsert(habitID int64, date models.Date, hours float64) (*UpsertResult, error) {
	query := `
		INSERT INTO effort_logs (habit_id, date, hours, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id, date)
		DO UPDATE SET hours = EXCLUDED.hours
		RETURNING id, (xmax = 0) AS inserted
	`

	result := &UpsertResult{}
	err := r.db.QueryRow(query, habitID, date, hours, time.Now().UTC()).
		Scan(&result.ID, &result.Inserted)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert effort log: %w", err)
	}

	return result, nil
}

// GetByHabitAndDate retrieves the effort log for a habit on a date.
func (r *effortRepository) GetByHabitAndDate(habitID int64, date models.Date) (*models.EffortLog, error) {
	query := `
		SELECT id, habit_id, date, hours, created_at
		FROM effort_logs
		WHERE habit_id = $1 AND date = $2
	`

	log := &models.EffortLog{}
	err := r.db.QueryRow(query, habitID, date).Scan(
		&log.ID, &log.HabitID, &log.Date, &log.Hours, &log.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get effort log: %w", err)
	}

	return log, nil
}

// GetScoringInputs retrieves every effort log belonging to any habit of
// the sprint, joined with the habit's scoring parameters.
func (r *effortRepository) GetScoringInputs(sprintID int64) ([]scoring.HabitEffort, error) {
	query := `
		SELECT e.habit_id, e.date, e.hours, h.weight, h.target_hours
		FROM effort_logs e
		JOIN habits h ON e.habit_id = h.id
		WHERE h.sprint_id = $1
	`

	rows, err := r.db.Query(query, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to get effort logs: %w", err)
	}
	defer rows.Close()

	var efforts []scoring.HabitEffort
	for rows.Next() {
		var effort scoring.HabitEffort
		if err := rows.Scan(
			&effort.HabitID, &effort.Date, &effort.Hours, &effort.Weight, &effort.TargetHours,
		); err != nil {
			return nil, fmt.Errorf("failed to scan effort log: %w", err)
		}
		efforts = append(efforts, effort)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read effort logs: %w", err)
	}

	return efforts, nil
}

// DeleteBySprint removes every effort log belonging to any habit of the sprint.
func (r *effortRepository) DeleteBySprint(sprintID int64) error {
	query := `
		DELETE FROM effort_logs
		WHERE habit_id IN (SELECT id FROM habits WHERE sprint_id = $1)
	`
	if _, err := r.db.Exec(query, sprintID); err != nil {
		return fmt.Errorf("failed to delete effort logs: %w", err)
	}
	return nil
}
