package services

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/ajharbinger/habit-sprint-api/internal/models"
	"github.com/ajharbinger/habit-sprint-api/internal/repository"
)

// Services contains all application services
type Services struct {
	Sprint SprintService
	Effort EffortService
}

// SprintService defines the interface for sprint business logic
type SprintService interface {
	// Create atomically persists a sprint with its initial habit set.
	Create(form *models.SprintForm) (*models.CreateSprintResult, error)

	// Get returns the sprint, its habits, and the per-day score array.
	Get(id int64) (*models.SprintDetail, error)

	// DailyEfforts lists hours per habit for one date of the sprint.
	DailyEfforts(sprintID int64, date models.Date) ([]models.DailyEffort, error)

	// Delete cascade-deletes the sprint, its habits and their effort logs.
	Delete(id int64) error
}

// EffortService defines the interface for effort logging business logic
type EffortService interface {
	Upsert(form *models.EffortForm) (*repository.UpsertResult, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(db *sql.DB, logger *zap.Logger) *Services {
	repos := repository.NewRepositories(db)

	return &Services{
		Sprint: newSprintService(repos, logger),
		Effort: newEffortService(repos, logger),
	}
}
