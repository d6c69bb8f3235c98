package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/models"
	appErrors "github.com/skillport/institute-api/pkg/errors"
)

type mockCourseRepo struct {
	courses map[string]models.Course
	nextID  int
	listed  int
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	m.listed++
	var list []models.Course
	for _, c := range m.courses {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		list = append(list, c)
	}
	return list, len(list), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]models.Course)
	}
	m.nextID++
	course.ID = fmt.Sprintf("crs-%d", m.nextID)
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return sql.ErrNoRows
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.courses[id]; !ok {
		return false, nil
	}
	delete(m.courses, id)
	return true, nil
}

type memoryCache struct {
	entries map[string][]byte
	sets    int
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *memoryCache) Invalidate(ctx context.Context, pattern string) error {
	m.entries = nil
	return nil
}

func seededCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: map[string]models.Course{
		"crs-a": {ID: "crs-a", Title: "Web Development Bootcamp", Fee: 45000, Status: models.CourseStatusActive},
		"crs-b": {ID: "crs-b", Title: "Legacy COBOL", Fee: 9000, Status: models.CourseStatusInactive},
	}}
}

func TestCourseServiceCatalogFiltersActive(t *testing.T) {
	svc := NewCourseService(seededCourseRepo(), nil, nil, zap.NewNop())

	courses, cacheHit, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, courses, 1)
	assert.Equal(t, "crs-a", courses[0].ID)
}

func TestCourseServiceCatalogUsesCache(t *testing.T) {
	repo := seededCourseRepo()
	cache := &memoryCache{}
	svc := NewCourseService(repo, NewCatalogCacheHelper(cache, time.Minute), nil, zap.NewNop())

	_, hit, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, repo.listed)

	courses, hit, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, repo.listed, "second call must be served from cache")
	assert.Len(t, courses, 1)
}

func TestCourseServiceCreateInvalidatesCatalogCache(t *testing.T) {
	repo := seededCourseRepo()
	cache := &memoryCache{}
	svc := NewCourseService(repo, NewCatalogCacheHelper(cache, time.Minute), nil, zap.NewNop())

	_, _, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	_, err = svc.Create(context.Background(), CourseRequest{Title: "Data Engineering", Fee: 60000, Status: "active"})
	require.NoError(t, err)
	assert.Empty(t, cache.entries)
}

func TestCourseServiceCreateValidates(t *testing.T) {
	svc := NewCourseService(seededCourseRepo(), nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CourseRequest{Title: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceUpdateNotFound(t *testing.T) {
	svc := NewCourseService(seededCourseRepo(), nil, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), "crs-missing", CourseRequest{Title: "Renamed"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceUpdateDoesNotTouchEnrollmentSnapshots(t *testing.T) {
	courseRepo := seededCourseRepo()
	enrollRepo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"ENR-493027": {ID: "ENR-493027", CourseID: "crs-a", CourseTitle: "Web Development Bootcamp", Fees: 45000},
	}}
	svc := NewCourseService(courseRepo, nil, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), "crs-a", CourseRequest{Title: "Renamed Bootcamp", Fee: 99000, Status: "active"})
	require.NoError(t, err)

	snapshot := enrollRepo.enrollments["ENR-493027"]
	assert.Equal(t, "Web Development Bootcamp", snapshot.CourseTitle)
	assert.Equal(t, int64(45000), snapshot.Fees)
}

func TestCourseServiceDelete(t *testing.T) {
	repo := seededCourseRepo()
	svc := NewCourseService(repo, nil, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "crs-a"))

	err := svc.Delete(context.Background(), "crs-a")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
