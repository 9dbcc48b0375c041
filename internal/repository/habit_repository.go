package repository

import (
	"fmt"

	"github.com/ajharbinger/habit-sprint-api/internal/models"
)

// habitRepository implements HabitRepository
type habitRepository struct {
	db dbExecutor
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(db dbExecutor) HabitRepository {
	return &habitRepository{db: db}
}

// Create persists a new habit and fills in its generated ID.
func (r *habitRepository) Create(habit *models.Habit) error {
	query := `
		INSERT INTO habits (sprint_id, name, weight, target_hours)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(query,
		habit.SprintID, habit.Name, habit.Weight, habit.TargetHours,
	).Scan(&habit.ID)

	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

// GetBySprint retrieves all habits owned by a sprint in insertion order.
func (r *habitRepository) GetBySprint(sprintID int64) ([]models.Habit, error) {
	query := `
		SELECT id, sprint_id, name, weight, target_hours
		FROM habits WHERE sprint_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(query, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var habit models.Habit
		if err := rows.Scan(
			&habit.ID, &habit.SprintID, &habit.Name, &habit.Weight, &habit.TargetHours,
		); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}

	return habits, nil
}

// DeleteBySprint removes all habits owned by a sprint.
func (r *habitRepository) DeleteBySprint(sprintID int64) error {
	if _, err := r.db.Exec(`DELETE FROM habits WHERE sprint_id = $1`, sprintID); err != nil {
		return fmt.Errorf("failed to delete habits: %w", err)
	}
	return nil
}
