package repository

import (
	"errors"

	"github.com/ajharbinger/habit-sprint-api/internal/models"
	"github.com/ajharbinger/habit-sprint-api/internal/scoring"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// SprintRepository defines the interface for sprint data access
type SprintRepository interface {
	Create(sprint *models.Sprint) error
	GetByID(id int64) (*models.Sprint, error)
	Delete(id int64) error
}

// HabitRepository defines the interface for habit data access
type HabitRepository interface {
	Create(habit *models.Habit) error
	GetBySprint(sprintID int64) ([]models.Habit, error)
	DeleteBySprint(sprintID int64) error
}

// EffortRepository defines the interface for effort log data access
type EffortRepository interface {
	// Upsert atomically inserts or overwrites the effort log for
	// (habitID, date). Exactly one row exists per pair afterwards.
	Upsert(habitID int64, date models.Date, hours float64) (*UpsertResult, error)

	GetByHabitAndDate(habitID int64, date models.Date) (*models.EffortLog, error)
	GetScoringInputs(sprintID int64) ([]scoring.HabitEffort, error)
	DeleteBySprint(sprintID int64) error
}

// UpsertResult reports the outcome of an effort upsert. Inserted is
// true when a new row was created; false when an existing row's hours
// were overwritten in place.
type UpsertResult struct {
	ID       int64
	Inserted bool
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Sprint SprintRepository
	Habit  HabitRepository
	Effort EffortRepository
	Tx     TransactionManager
}
