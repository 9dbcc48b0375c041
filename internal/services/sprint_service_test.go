package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/ajharbinger/habit-sprint-api/internal/errors"
	"github.com/ajharbinger/habit-sprint-api/internal/models"
	"github.com/ajharbinger/habit-sprint-api/internal/repository"
	"github.com/ajharbinger/habit-sprint-api/internal/scoring"
)

// mockStore is an in-memory implementation of all three repositories
// plus the transaction manager. Transactions are simulated by snapshot
// and restore on error, which is enough to assert all-or-nothing
// behavior at the service level.
type mockStore struct {
	sprints map[int64]models.Sprint
	habits  map[int64]models.Habit
	efforts map[int64]models.EffortLog
	nextID  int64

	// when set, WithTransaction hands these to the callback instead of
	// the default wiring; lets tests inject failing repositories
	txRepos *repository.Repositories
}

func newMockStore() *mockStore {
	return &mockStore{
		sprints: make(map[int64]models.Sprint),
		habits:  make(map[int64]models.Habit),
		efforts: make(map[int64]models.EffortLog),
		nextID:  1,
	}
}

func (m *mockStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *mockStore) repositories() *repository.Repositories {
	return &repository.Repositories{
		Sprint: m,
		Habit:  habitRepo{m},
		Effort: effortRepo{m},
		Tx:     m,
	}
}

// TransactionManager

func (m *mockStore) WithTransaction(fn func(repos *repository.Repositories) error) error {
	sprints := snapshot(m.sprints)
	habits := snapshot(m.habits)
	efforts := snapshot(m.efforts)
	nextID := m.nextID

	repos := m.txRepos
	if repos == nil {
		repos = m.repositories()
	}

	if err := fn(repos); err != nil {
		m.sprints, m.habits, m.efforts, m.nextID = sprints, habits, efforts, nextID
		return err
	}
	return nil
}

func snapshot[V any](in map[int64]V) map[int64]V {
	out := make(map[int64]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// SprintRepository

func (m *mockStore) Create(sprint *models.Sprint) error {
	sprint.ID = m.id()
	sprint.CreatedAt = time.Now().UTC()
	m.sprints[sprint.ID] = *sprint
	return nil
}

func (m *mockStore) GetByID(id int64) (*models.Sprint, error) {
	sprint, ok := m.sprints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sprint, nil
}

func (m *mockStore) Delete(id int64) error {
	delete(m.sprints, id)
	return nil
}

// HabitRepository; Create collides with SprintRepository.Create, so
// the habitRepo wrapper below maps it onto CreateHabit

func (m *mockStore) CreateHabit(habit *models.Habit) error {
	habit.ID = m.id()
	m.habits[habit.ID] = *habit
	return nil
}

func (m *mockStore) GetBySprint(sprintID int64) ([]models.Habit, error) {
	var habits []models.Habit
	for id := int64(1); id < m.nextID; id++ {
		if habit, ok := m.habits[id]; ok && habit.SprintID == sprintID {
			habits = append(habits, habit)
		}
	}
	return habits, nil
}

func (m *mockStore) DeleteBySprint(sprintID int64) error {
	for id, habit := range m.habits {
		if habit.SprintID == sprintID {
			delete(m.habits, id)
		}
	}
	return nil
}

// EffortRepository

func (m *mockStore) Upsert(habitID int64, date models.Date, hours float64) (*repository.UpsertResult, error) {
	for id, log := range m.efforts {
		if log.HabitID == habitID && log.Date.String() == date.String() {
			log.Hours = hours
			m.efforts[id] = log
			return &repository.UpsertResult{ID: id, Inserted: false}, nil
		}
	}
	log := models.EffortLog{
		ID:        m.id(),
		HabitID:   habitID,
		Date:      date,
		Hours:     hours,
		CreatedAt: time.Now().UTC(),
	}
	m.efforts[log.ID] = log
	return &repository.UpsertResult{ID: log.ID, Inserted: true}, nil
}

func (m *mockStore) GetByHabitAndDate(habitID int64, date models.Date) (*models.EffortLog, error) {
	for _, log := range m.efforts {
		if log.HabitID == habitID && log.Date.String() == date.String() {
			found := log
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockStore) GetScoringInputs(sprintID int64) ([]scoring.HabitEffort, error) {
	var efforts []scoring.HabitEffort
	for _, log := range m.efforts {
		habit, ok := m.habits[log.HabitID]
		if !ok || habit.SprintID != sprintID {
			continue
		}
		efforts = append(efforts, scoring.HabitEffort{
			HabitID:     habit.ID,
			Date:        log.Date,
			Hours:       log.Hours,
			Weight:      habit.Weight,
			TargetHours: habit.TargetHours,
		})
	}
	return efforts, nil
}

func (m *mockStore) DeleteEffortsBySprint(sprintID int64) error {
	for id, log := range m.efforts {
		if habit, ok := m.habits[log.HabitID]; ok && habit.SprintID == sprintID {
			delete(m.efforts, id)
		}
	}
	return nil
}

// habitRepo and effortRepo disambiguate the methods whose names collide
// between the repository interfaces.

type habitRepo struct{ *mockStore }

func (r habitRepo) Create(habit *models.Habit) error { return r.CreateHabit(habit) }

type effortRepo struct{ *mockStore }

func (r effortRepo) DeleteBySprint(sprintID int64) error { return r.DeleteEffortsBySprint(sprintID) }

func newTestServices(store *mockStore) (*Services, *repository.Repositories) {
	repos := store.repositories()
	return &Services{
		Sprint: newSprintService(repos, zap.NewNop()),
		Effort: newEffortService(repos, zap.NewNop()),
	}, repos
}

func createTestSprint(t *testing.T, svcs *Services) *models.CreateSprintResult {
	t.Helper()
	result, err := svcs.Sprint.Create(&models.SprintForm{
		Name:      "Q1",
		StartDate: models.NewDate(2024, time.January, 1),
		EndDate:   models.NewDate(2024, time.January, 3),
		Habits: []models.HabitForm{
			{Name: "Read", Weight: 50, TargetHours: 2},
		},
	})
	require.NoError(t, err)
	return result
}

func TestSprintService_CreateAssignsIdentities(t *testing.T) {
	svcs, _ := newTestServices(newMockStore())

	result, err := svcs.Sprint.Create(&models.SprintForm{
		Name:      "Q1",
		StartDate: models.NewDate(2024, time.January, 1),
		EndDate:   models.NewDate(2024, time.January, 3),
		Habits: []models.HabitForm{
			{Name: "Read", Weight: 50, TargetHours: 2},
			{Name: "Exercise", Weight: 50, TargetHours: 1},
		},
	})
	require.NoError(t, err)

	assert.NotZero(t, result.SprintID)
	assert.Len(t, result.HabitIDs, 2)
	assert.NotZero(t, result.HabitIDs["Read"])
	assert.NotZero(t, result.HabitIDs["Exercise"])
}

func TestSprintService_CreateDuplicateHabitNames(t *testing.T) {
	store := newMockStore()
	svcs, _ := newTestServices(store)

	result, err := svcs.Sprint.Create(&models.SprintForm{
		Name:      "Dupes",
		StartDate: models.NewDate(2024, time.January, 1),
		EndDate:   models.NewDate(2024, time.January, 1),
		Habits: []models.HabitForm{
			{Name: "Read", Weight: 10, TargetHours: 1},
			{Name: "Read", Weight: 20, TargetHours: 2},
		},
	})
	require.NoError(t, err)

	// Both rows persist; the mapping keeps the later id
	assert.Len(t, store.habits, 2)
	assert.Len(t, result.HabitIDs, 1)

	var lastID int64
	for id := range store.habits {
		if id > lastID {
			lastID = id
		}
	}
	assert.Equal(t, lastID, result.HabitIDs["Read"])
}

func TestSprintService_GetComputesDays(t *testing.T) {
	svcs, _ := newTestServices(newMockStore())
	created := createTestSprint(t, svcs)
	habitID := created.HabitIDs["Read"]

	_, err := svcs.Effort.Upsert(&models.EffortForm{
		HabitID: habitID,
		Date:    models.NewDate(2024, time.January, 1),
		Hours:   1,
	})
	require.NoError(t, err)

	detail, err := svcs.Sprint.Get(created.SprintID)
	require.NoError(t, err)

	require.Len(t, detail.Days, 3)
	require.NotNil(t, detail.Days[0])
	assert.Equal(t, 25.0, *detail.Days[0])
	assert.Nil(t, detail.Days[1])
	assert.Nil(t, detail.Days[2])
	assert.Len(t, detail.Habits, 1)
	assert.Equal(t, "Q1", detail.Name)
}

func TestSprintService_GetNotFound(t *testing.T) {
	svcs, _ := newTestServices(newMockStore())

	_, err := svcs.Sprint.Get(12345)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, "Sprint not found", appErr.Message)
}

func TestSprintService_GetZeroTargetHoursFails(t *testing.T) {
	svcs, _ := newTestServices(newMockStore())

	created, err := svcs.Sprint.Create(&models.SprintForm{
		Name:      "Broken",
		StartDate: models.NewDate(2024, time.January, 1),
		EndDate:   models.NewDate(2024, time.January, 1),
		Habits: []models.HabitForm{
			{Name: "Read", Weight: 50, TargetHours: 0},
		},
	})
	require.NoError(t, err)

	_, err = svcs.Effort.Upsert(&models.EffortForm{
		HabitID: created.HabitIDs["Read"],
		Date:    models.NewDate(2024, time.January, 1),
		Hours:   1,
	})
	require.NoError(t, err)

	_, err = svcs.Sprint.Get(created.SprintID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeArithmetic, appErr.Code)
}

func TestEffortService_UpsertIdempotence(t *testing.T) {
	store := newMockStore()
	svcs, _ := newTestServices(store)
	created := createTestSprint(t, svcs)
	habitID := created.HabitIDs["Read"]
	date := models.NewDate(2024, time.January, 2)

	first, err := svcs.Effort.Upsert(&models.EffortForm{HabitID: habitID, Date: date, Hours: 3})
	require.NoError(t, err)
	assert.True(t, first.Inserted)

	second, err := svcs.Effort.Upsert(&models.EffortForm{HabitID: habitID, Date: date, Hours: 3})
	require.NoError(t, err)
	assert.False(t, second.Inserted)
	assert.Equal(t, first.ID, second.ID)

	// exactly one row for (habit, date)
	count := 0
	for _, log := range store.efforts {
		if log.HabitID == habitID && log.Date.String() == date.String() {
			count++
			assert.Equal(t, 3.0, log.Hours)
		}
	}
	assert.Equal(t, 1, count)
}

func TestEffortService_UpsertOverwrite(t *testing.T) {
	store := newMockStore()
	svcs, _ := newTestServices(store)
	created := createTestSprint(t, svcs)
	habitID := created.HabitIDs["Read"]
	date := models.NewDate(2024, time.January, 2)

	first, err := svcs.Effort.Upsert(&models.EffortForm{HabitID: habitID, Date: date, Hours: 3})
	require.NoError(t, err)

	second, err := svcs.Effort.Upsert(&models.EffortForm{HabitID: habitID, Date: date, Hours: 5})
	require.NoError(t, err)
	assert.False(t, second.Inserted)
	assert.Equal(t, first.ID, second.ID)

	log, err := store.GetByHabitAndDate(habitID, date)
	require.NoError(t, err)
	assert.Equal(t, 5.0, log.Hours)
}

func TestSprintService_DailyEfforts(t *testing.T) {
	svcs, _ := newTestServices(newMockStore())
	created := createTestSprint(t, svcs)
	habitID := created.HabitIDs["Read"]
	date := models.NewDate(2024, time.January, 2)

	// no log yet: hours reported as explicit zero
	efforts, err := svcs.Sprint.DailyEfforts(created.SprintID, date)
	require.NoError(t, err)
	require.Len(t, efforts, 1)
	assert.Equal(t, habitID, efforts[0].HabitID)
	assert.Equal(t, "Read", efforts[0].HabitName)
	assert.Equal(t, 0.0, efforts[0].Hours)

	_, err = svcs.Effort.Upsert(&models.EffortForm{HabitID: habitID, Date: date, Hours: 1.5})
	require.NoError(t, err)

	efforts, err = svcs.Sprint.DailyEfforts(created.SprintID, date)
	require.NoError(t, err)
	require.Len(t, efforts, 1)
	assert.Equal(t, 1.5, efforts[0].Hours)
}

func TestSprintService_DailyEffortsNotFound(t *testing.T) {
	svcs, _ := newTestServices(newMockStore())

	_, err := svcs.Sprint.DailyEfforts(999, models.NewDate(2024, time.January, 1))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, "Sprint not found or has no habits", appErr.Message)
}

func TestSprintService_DeleteCascades(t *testing.T) {
	store := newMockStore()
	svcs, _ := newTestServices(store)
	created := createTestSprint(t, svcs)
	habitID := created.HabitIDs["Read"]

	_, err := svcs.Effort.Upsert(&models.EffortForm{
		HabitID: habitID,
		Date:    models.NewDate(2024, time.January, 1),
		Hours:   2,
	})
	require.NoError(t, err)

	require.NoError(t, svcs.Sprint.Delete(created.SprintID))

	assert.Empty(t, store.sprints)
	assert.Empty(t, store.habits)
	assert.Empty(t, store.efforts)

	_, err = svcs.Sprint.Get(created.SprintID)
	require.Error(t, err)
}

func TestSprintService_DeleteAbsentSprintSucceeds(t *testing.T) {
	svcs, _ := newTestServices(newMockStore())

	assert.NoError(t, svcs.Sprint.Delete(424242))
}

// failingHabitRepo fails every habit insert to force a mid-transaction error.
type failingHabitRepo struct {
	habitRepo
}

func (r failingHabitRepo) Create(habit *models.Habit) error {
	return errors.New("boom")
}

func TestSprintService_CreateRollsBackOnFailure(t *testing.T) {
	store := newMockStore()
	repos := store.repositories()
	repos.Habit = failingHabitRepo{habitRepo{store}}
	store.txRepos = repos
	svc := newSprintService(repos, zap.NewNop())

	_, err := svc.Create(&models.SprintForm{
		Name:      "Doomed",
		StartDate: models.NewDate(2024, time.January, 1),
		EndDate:   models.NewDate(2024, time.January, 2),
		Habits: []models.HabitForm{
			{Name: "Read", Weight: 50, TargetHours: 2},
		},
	})
	require.Error(t, err)

	// the sprint row must not survive the failed habit insert
	assert.Empty(t, store.sprints)
	assert.Empty(t, store.habits)
}
