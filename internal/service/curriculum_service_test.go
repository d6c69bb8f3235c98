package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillport/institute-api/internal/models"
	appErrors "github.com/skillport/institute-api/pkg/errors"
)

type mockCurriculumRepo struct {
	modules     map[string]*models.Module
	quizzes     map[string]*models.Quiz
	assignments map[string]*models.Assignment
	seq         int
}

func newMockCurriculumRepo() *mockCurriculumRepo {
	return &mockCurriculumRepo{
		modules:     map[string]*models.Module{},
		quizzes:     map[string]*models.Quiz{},
		assignments: map[string]*models.Assignment{},
	}
}

func (m *mockCurriculumRepo) nextID() string {
	m.seq++
	return fmt.Sprintf("cur-%d", m.seq)
}

func (m *mockCurriculumRepo) ListModules(_ context.Context, courseID string) ([]models.Module, error) {
	var out []models.Module
	for _, mod := range m.modules {
		if courseID == "" || mod.CourseID == courseID {
			out = append(out, *mod)
		}
	}
	return out, nil
}

func (m *mockCurriculumRepo) FindModule(_ context.Context, id string) (*models.Module, error) {
	mod, ok := m.modules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *mod
	return &clone, nil
}

func (m *mockCurriculumRepo) CreateModule(_ context.Context, module *models.Module) error {
	module.ID = m.nextID()
	module.CreatedAt = time.Now()
	m.modules[module.ID] = module
	return nil
}

func (m *mockCurriculumRepo) UpdateModule(_ context.Context, module *models.Module) error {
	m.modules[module.ID] = module
	return nil
}

func (m *mockCurriculumRepo) DeleteModule(_ context.Context, id string) (bool, error) {
	if _, ok := m.modules[id]; !ok {
		return false, nil
	}
	delete(m.modules, id)
	return true, nil
}

func (m *mockCurriculumRepo) ListQuizzes(_ context.Context, courseID string) ([]models.Quiz, error) {
	var out []models.Quiz
	for _, q := range m.quizzes {
		if courseID == "" || q.CourseID == courseID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (m *mockCurriculumRepo) FindQuiz(_ context.Context, id string) (*models.Quiz, error) {
	q, ok := m.quizzes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *q
	return &clone, nil
}

func (m *mockCurriculumRepo) CreateQuiz(_ context.Context, quiz *models.Quiz) error {
	quiz.ID = m.nextID()
	quiz.CreatedAt = time.Now()
	m.quizzes[quiz.ID] = quiz
	return nil
}

func (m *mockCurriculumRepo) UpdateQuiz(_ context.Context, quiz *models.Quiz) error {
	m.quizzes[quiz.ID] = quiz
	return nil
}

func (m *mockCurriculumRepo) DeleteQuiz(_ context.Context, id string) (bool, error) {
	if _, ok := m.quizzes[id]; !ok {
		return false, nil
	}
	delete(m.quizzes, id)
	return true, nil
}

func (m *mockCurriculumRepo) ListAssignments(_ context.Context, courseID string) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range m.assignments {
		if courseID == "" || a.CourseID == courseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockCurriculumRepo) FindAssignment(_ context.Context, id string) (*models.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *a
	return &clone, nil
}

func (m *mockCurriculumRepo) CreateAssignment(_ context.Context, assignment *models.Assignment) error {
	assignment.ID = m.nextID()
	assignment.CreatedAt = time.Now()
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockCurriculumRepo) UpdateAssignment(_ context.Context, assignment *models.Assignment) error {
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockCurriculumRepo) DeleteAssignment(_ context.Context, id string) (bool, error) {
	if _, ok := m.assignments[id]; !ok {
		return false, nil
	}
	delete(m.assignments, id)
	return true, nil
}

func TestCurriculumServiceModuleLifecycle(t *testing.T) {
	repo := newMockCurriculumRepo()
	svc := NewCurriculumService(repo, nil, nil)

	module, err := svc.CreateModule(context.Background(), ModuleRequest{
		CourseID:        "crs-1",
		Title:           "HTML & CSS Foundations",
		Description:     "Markup and layout basics",
		Position:        1,
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	require.NotEmpty(t, module.ID)
	require.Equal(t, "crs-1", module.CourseID)

	updated, err := svc.UpdateModule(context.Background(), module.ID, ModuleRequest{
		CourseID:        "crs-1",
		Title:           "HTML, CSS & Flexbox",
		Position:        1,
		DurationMinutes: 120,
	})
	require.NoError(t, err)
	require.Equal(t, "HTML, CSS & Flexbox", updated.Title)
	require.Equal(t, 120, updated.DurationMinutes)

	listed, err := svc.ListModules(context.Background(), "crs-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, svc.DeleteModule(context.Background(), module.ID))

	listed, err = svc.ListModules(context.Background(), "crs-1")
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestCurriculumServiceCreateModuleValidation(t *testing.T) {
	svc := NewCurriculumService(newMockCurriculumRepo(), nil, nil)

	_, err := svc.CreateModule(context.Background(), ModuleRequest{Title: "Orphan module"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCurriculumServiceUpdateModuleNotFound(t *testing.T) {
	svc := NewCurriculumService(newMockCurriculumRepo(), nil, nil)

	_, err := svc.UpdateModule(context.Background(), "missing", ModuleRequest{
		CourseID: "crs-1",
		Title:    "Anything",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCurriculumServiceDeleteModuleNotFound(t *testing.T) {
	svc := NewCurriculumService(newMockCurriculumRepo(), nil, nil)

	err := svc.DeleteModule(context.Background(), "missing")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCurriculumServiceQuizPassingScoreBounds(t *testing.T) {
	repo := newMockCurriculumRepo()
	svc := NewCurriculumService(repo, nil, nil)

	_, err := svc.CreateQuiz(context.Background(), QuizRequest{
		CourseID:     "crs-1",
		Title:        "Final Exam",
		Questions:    40,
		PassingScore: 120,
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	quiz, err := svc.CreateQuiz(context.Background(), QuizRequest{
		CourseID:        "crs-1",
		Title:           "Final Exam",
		Questions:       40,
		PassingScore:    60,
		DurationMinutes: 45,
	})
	require.NoError(t, err)
	require.Equal(t, 60, quiz.PassingScore)
}

func TestCurriculumServiceAssignmentDueDate(t *testing.T) {
	repo := newMockCurriculumRepo()
	svc := NewCurriculumService(repo, nil, nil)

	due := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	assignment, err := svc.CreateAssignment(context.Background(), AssignmentRequest{
		CourseID:    "crs-1",
		Title:       "Portfolio Project",
		Description: "Build and deploy a personal site",
		DueDate:     &due,
		MaxScore:    100,
	})
	require.NoError(t, err)
	require.NotNil(t, assignment.DueDate)
	require.True(t, assignment.DueDate.Equal(due))

	updated, err := svc.UpdateAssignment(context.Background(), assignment.ID, AssignmentRequest{
		CourseID: "crs-1",
		Title:    "Portfolio Project",
		MaxScore: 100,
	})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)

	require.NoError(t, svc.DeleteAssignment(context.Background(), assignment.ID))
	err = svc.DeleteAssignment(context.Background(), assignment.ID)
	require.Error(t, err)
}
