package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/skillport/institute-api/internal/models"
)

func courseRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "duration", "credits", "fee",
		"awarding_body", "entry_requirements", "status", "image", "created_at", "updated_at",
	}).AddRow(
		"crs-1", "Web Development Bootcamp", "Full-stack track", "6 months", 24, int64(45000),
		"Skillport", "Intermediate or above", models.CourseStatusActive, "", now, now,
	)
}

func TestCourseRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("SELECT .* FROM courses WHERE status = \\$1 ORDER BY title ASC LIMIT 100 OFFSET 0").
		WithArgs(models.CourseStatusActive).
		WillReturnRows(courseRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE status = $1")).
		WithArgs(models.CourseStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{
		Status:    models.CourseStatusActive,
		PageSize:  100,
		SortBy:    "title",
		SortOrder: "ASC",
	})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("SELECT .* FROM courses WHERE id = \\$1").
		WithArgs("crs-missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "crs-missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateAssignsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{Title: "Data Engineering", Fee: 60000}
	require.NoError(t, repo.Create(context.Background(), course))
	require.NotEmpty(t, course.ID)
	require.Equal(t, models.CourseStatusActive, course.Status)
	require.False(t, course.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("crs-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("crs-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "crs-1")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), "crs-1")
	require.NoError(t, err)
	require.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
