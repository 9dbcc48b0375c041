package services

import (
	"errors"

	"go.uber.org/zap"

	apperrors "github.com/ajharbinger/habit-sprint-api/internal/errors"
	"github.com/ajharbinger/habit-sprint-api/internal/models"
	"github.com/ajharbinger/habit-sprint-api/internal/repository"
	"github.com/ajharbinger/habit-sprint-api/internal/scoring"
)

// sprintServiceImpl implements SprintService
type sprintServiceImpl struct {
	repos  *repository.Repositories
	engine *scoring.Engine
	logger *zap.Logger
}

// newSprintService creates a new sprint service implementation
func newSprintService(repos *repository.Repositories, logger *zap.Logger) SprintService {
	return &sprintServiceImpl{
		repos:  repos,
		engine: scoring.NewEngine(),
		logger: logger,
	}
}

// Create persists a sprint and its habit specifications in one
// transaction; a failure on any row leaves nothing behind. Weights,
// date ordering and target hours are stored as submitted, unvalidated.
func (s *sprintServiceImpl) Create(form *models.SprintForm) (*models.CreateSprintResult, error) {
	result := &models.CreateSprintResult{
		HabitIDs: make(map[string]int64),
	}

	err := s.repos.Tx.WithTransaction(func(repos *repository.Repositories) error {
		sprint := &models.Sprint{
			Name:      form.Name,
			StartDate: form.StartDate,
			EndDate:   form.EndDate,
		}
		if err := repos.Sprint.Create(sprint); err != nil {
			return err
		}

		for _, habitForm := range form.Habits {
			habit := &models.Habit{
				SprintID:    sprint.ID,
				Name:        habitForm.Name,
				Weight:      habitForm.Weight,
				TargetHours: habitForm.TargetHours,
			}
			if err := repos.Habit.Create(habit); err != nil {
				return err
			}
			// Duplicate habit names: every row persists, the map keeps
			// the last assigned id for the name.
			result.HabitIDs[habitForm.Name] = habit.ID
		}

		result.SprintID = sprint.ID
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create sprint", zap.String("name", form.Name), zap.Error(err))
		return nil, apperrors.DatabaseError("failed to create sprint", err).WithOperation("CreateSprint")
	}

	s.logger.Info("Sprint created",
		zap.Int64("sprint_id", result.SprintID),
		zap.Int("habits", len(form.Habits)),
	)
	return result, nil
}

// Get retrieves a sprint with its habits and computed daily scores.
func (s *sprintServiceImpl) Get(id int64) (*models.SprintDetail, error) {
	sprint, err := s.repos.Sprint.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Sprint not found", err).WithOperation("GetSprint")
		}
		return nil, apperrors.DatabaseError("failed to get sprint", err).WithOperation("GetSprint")
	}

	habits, err := s.repos.Habit.GetBySprint(id)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to get habits", err).WithOperation("GetSprint")
	}
	if habits == nil {
		habits = []models.Habit{}
	}

	efforts, err := s.repos.Effort.GetScoringInputs(id)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to get effort logs", err).WithOperation("GetSprint")
	}

	days, err := s.engine.DailyScores(sprint.StartDate, sprint.EndDate, efforts)
	if err != nil {
		s.logger.Error("Failed to score sprint", zap.Int64("sprint_id", id), zap.Error(err))
		if errors.Is(err, scoring.ErrZeroTargetHours) {
			return nil, apperrors.Arithmetic("failed to compute daily scores", err).WithOperation("GetSprint")
		}
		return nil, apperrors.InternalError("failed to compute daily scores", err).WithOperation("GetSprint")
	}

	return &models.SprintDetail{
		ID:        sprint.ID,
		Name:      sprint.Name,
		StartDate: sprint.StartDate,
		EndDate:   sprint.EndDate,
		Habits:    habits,
		Days:      days,
	}, nil
}

// DailyEfforts reports the hours logged per habit on a single date.
// Habits without a log for the date report zero hours. A sprint with no
// habits is indistinguishable from an absent sprint here; both are
// NotFound, matching the delete side which treats both as success.
func (s *sprintServiceImpl) DailyEfforts(sprintID int64, date models.Date) ([]models.DailyEffort, error) {
	habits, err := s.repos.Habit.GetBySprint(sprintID)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to get habits", err).WithOperation("DailyEfforts")
	}
	if len(habits) == 0 {
		return nil, apperrors.NotFound("Sprint not found or has no habits", nil).WithOperation("DailyEfforts")
	}

	efforts := make([]models.DailyEffort, 0, len(habits))
	for _, habit := range habits {
		hours := 0.0
		log, err := s.repos.Effort.GetByHabitAndDate(habit.ID, date)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.DatabaseError("failed to get effort log", err).WithOperation("DailyEfforts")
		}
		if log != nil {
			hours = log.Hours
		}

		efforts = append(efforts, models.DailyEffort{
			HabitName: habit.Name,
			HabitID:   habit.ID,
			Hours:     hours,
		})
	}

	return efforts, nil
}

// Delete removes the sprint and everything it owns, in dependency
// order, inside one transaction. Deleting an absent sprint succeeds
// silently.
func (s *sprintServiceImpl) Delete(id int64) error {
	err := s.repos.Tx.WithTransaction(func(repos *repository.Repositories) error {
		if err := repos.Effort.DeleteBySprint(id); err != nil {
			return err
		}
		if err := repos.Habit.DeleteBySprint(id); err != nil {
			return err
		}
		return repos.Sprint.Delete(id)
	})
	if err != nil {
		s.logger.Error("Failed to delete sprint", zap.Int64("sprint_id", id), zap.Error(err))
		return apperrors.DatabaseError("failed to delete sprint", err).WithOperation("DeleteSprint")
	}

	s.logger.Info("Sprint deleted", zap.Int64("sprint_id", id))
	return nil
}
