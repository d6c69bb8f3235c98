package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/models"
	appErrors "github.com/skillport/institute-api/pkg/errors"
)

type mockInstructorRepo struct {
	instructors map[string]models.Instructor
	nextID      int
}

func (m *mockInstructorRepo) List(ctx context.Context, status string, page, size int) ([]models.Instructor, int, error) {
	var list []models.Instructor
	for _, i := range m.instructors {
		if status != "" && i.Status != status {
			continue
		}
		list = append(list, i)
	}
	return list, len(list), nil
}

func (m *mockInstructorRepo) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	if i, ok := m.instructors[id]; ok {
		return &i, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInstructorRepo) Create(ctx context.Context, instructor *models.Instructor) error {
	if m.instructors == nil {
		m.instructors = make(map[string]models.Instructor)
	}
	m.nextID++
	instructor.ID = fmt.Sprintf("ins-%d", m.nextID)
	m.instructors[instructor.ID] = *instructor
	return nil
}

func (m *mockInstructorRepo) Update(ctx context.Context, instructor *models.Instructor) error {
	if _, ok := m.instructors[instructor.ID]; !ok {
		return sql.ErrNoRows
	}
	m.instructors[instructor.ID] = *instructor
	return nil
}

func (m *mockInstructorRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.instructors[id]; !ok {
		return false, nil
	}
	delete(m.instructors, id)
	return true, nil
}

func TestInstructorServiceCreate(t *testing.T) {
	repo := &mockInstructorRepo{}
	svc := NewInstructorService(repo, nil, zap.NewNop())

	instructor, err := svc.Create(context.Background(), InstructorRequest{
		Name:    "Bilal Ahmed",
		Email:   "bilal@skillport.edu",
		Status:  "active",
		Courses: []string{"crs-1", "crs-2"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, instructor.ID)
	assert.Len(t, instructor.Courses, 2)
}

func TestInstructorServiceCreateRequiresEmail(t *testing.T) {
	svc := NewInstructorService(&mockInstructorRepo{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), InstructorRequest{Name: "Bilal Ahmed", Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestInstructorServiceKeepsStaleCourseIDs(t *testing.T) {
	repo := &mockInstructorRepo{}
	svc := NewInstructorService(repo, nil, zap.NewNop())

	instructor, err := svc.Create(context.Background(), InstructorRequest{
		Name:    "Bilal Ahmed",
		Email:   "bilal@skillport.edu",
		Courses: []string{"crs-deleted"},
	})
	require.NoError(t, err)

	// Course references are opaque strings; a deleted course leaves a
	// stale ID behind and listing still succeeds.
	got, err := svc.Get(context.Background(), instructor.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"crs-deleted"}, []string(got.Courses))
}

func TestInstructorServiceUpdateNotFound(t *testing.T) {
	svc := NewInstructorService(&mockInstructorRepo{}, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), "ins-missing", InstructorRequest{Name: "X", Email: "x@skillport.edu"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInstructorServiceDeleteNotFound(t *testing.T) {
	svc := NewInstructorService(&mockInstructorRepo{}, nil, zap.NewNop())

	err := svc.Delete(context.Background(), "ins-missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
