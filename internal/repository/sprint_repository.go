package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ajharbinger/habit-sprint-api/internal/models"
)

// sprintRepository implements SprintRepository
type sprintRepository struct {
	db dbExecutor
}

// NewSprintRepository creates a new sprint repository
func NewSprintRepository(db dbExecutor) SprintRepository {
	return &sprintRepository{db: db}
}

// Create persists a new sprint and fills in its generated ID and
// creation timestamp.
func (r *sprintRepository) Create(sprint *models.Sprint) error {
	sprint.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO sprints (name, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(query,
		sprint.Name, sprint.StartDate, sprint.EndDate, sprint.CreatedAt,
	).Scan(&sprint.ID)

	if err != nil {
		return fmt.Errorf("failed to create sprint: %w", err)
	}

	return nil
}

// GetByID retrieves a sprint by ID
func (r *sprintRepository) GetByID(id int64) (*models.Sprint, error) {
	query := `
		SELECT id, name, start_date, end_date, created_at
		FROM sprints WHERE id = $1
	`

	sprint := &models.Sprint{}
	err := r.db.QueryRow(query, id).Scan(
		&sprint.ID, &sprint.Name, &sprint.StartDate, &sprint.EndDate, &sprint.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sprint: %w", err)
	}

	return sprint, nil
}

// Delete removes a sprint. Deleting an absent sprint is not an error.
func (r *sprintRepository) Delete(id int64) error {
	if _, err := r.db.Exec(`DELETE FROM sprints WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete sprint: %w", err)
	}
	return nil
}
