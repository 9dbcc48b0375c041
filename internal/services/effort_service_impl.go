package services

import (
	"go.uber.org/zap"

	apperrors "github.com/ajharbinger/habit-sprint-api/internal/errors"
	"github.com/ajharbinger/habit-sprint-api/internal/models"
	"github.com/ajharbinger/habit-sprint-api/internal/repository"
)

// effortServiceImpl implements EffortService
type effortServiceImpl struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// newEffortService creates a new effort service implementation
func newEffortService(repos *repository.Repositories, logger *zap.Logger) EffortService {
	return &effortServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

// Upsert records hours against (habit, date), overwriting any existing
// log for the pair. The store performs the insert-or-overwrite as one
// atomic statement, so concurrent callers cannot create duplicate rows.
// Hours and habit existence are not validated here; a nonexistent habit
// surfaces as a storage failure from the foreign key.
func (s *effortServiceImpl) Upsert(form *models.EffortForm) (*repository.UpsertResult, error) {
	result, err := s.repos.Effort.Upsert(form.HabitID, form.Date, form.Hours)
	if err != nil {
		s.logger.Error("Failed to upsert effort log",
			zap.Int64("habit_id", form.HabitID),
			zap.String("date", form.Date.String()),
			zap.Error(err),
		)
		return nil, apperrors.DatabaseError("failed to log effort", err).WithOperation("UpsertEffort")
	}

	s.logger.Info("Effort logged",
		zap.Int64("habit_id", form.HabitID),
		zap.String("date", form.Date.String()),
		zap.Float64("hours", form.Hours),
		zap.Bool("inserted", result.Inserted),
	)
	return result, nil
}
