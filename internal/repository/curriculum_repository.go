package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillport/institute-api/internal/models"
)

// CurriculumRepository persists the course content entities: modules,
// quizzes and assignments. They share a flat create/list/update/delete
// lifecycle with no cross-entity integrity checks.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository constructs the repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// ListModules returns modules, optionally scoped to a course.
func (r *CurriculumRepository) ListModules(ctx context.Context, courseID string) ([]models.Module, error) {
	query := `SELECT id, course_id, title, description, position, duration_minutes, created_at FROM modules`
	var args []interface{}
	if courseID != "" {
		query += " WHERE course_id = $1"
		args = append(args, courseID)
	}
	query += " ORDER BY position ASC, created_at ASC"
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, args...); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return modules, nil
}

// FindModule returns a module by ID.
func (r *CurriculumRepository) FindModule(ctx context.Context, id string) (*models.Module, error) {
	const query = `SELECT id, course_id, title, description, position, duration_minutes, created_at FROM modules WHERE id = $1`
	var module models.Module
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		return nil, err
	}
	return &module, nil
}

// CreateModule persists a new module.
func (r *CurriculumRepository) CreateModule(ctx context.Context, module *models.Module) error {
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	if module.CreatedAt.IsZero() {
		module.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO modules (id, course_id, title, description, position, duration_minutes, created_at)
        VALUES (:id, :course_id, :title, :description, :position, :duration_minutes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, module); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

// UpdateModule rewrites a module's mutable fields.
func (r *CurriculumRepository) UpdateModule(ctx context.Context, module *models.Module) error {
	const query = `UPDATE modules SET course_id = :course_id, title = :title, description = :description, position = :position, duration_minutes = :duration_minutes WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, module); err != nil {
		return fmt.Errorf("update module: %w", err)
	}
	return nil
}

// DeleteModule removes a module permanently.
func (r *CurriculumRepository) DeleteModule(ctx context.Context, id string) (bool, error) {
	return r.deleteByID(ctx, "modules", id)
}

// ListQuizzes returns quizzes, optionally scoped to a course.
func (r *CurriculumRepository) ListQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error) {
	query := `SELECT id, course_id, title, questions, passing_score, duration_minutes, created_at FROM quizzes`
	var args []interface{}
	if courseID != "" {
		query += " WHERE course_id = $1"
		args = append(args, courseID)
	}
	query += " ORDER BY created_at ASC"
	var quizzes []models.Quiz
	if err := r.db.SelectContext(ctx, &quizzes, query, args...); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// FindQuiz returns a quiz by ID.
func (r *CurriculumRepository) FindQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	const query = `SELECT id, course_id, title, questions, passing_score, duration_minutes, created_at FROM quizzes WHERE id = $1`
	var quiz models.Quiz
	if err := r.db.GetContext(ctx, &quiz, query, id); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// CreateQuiz persists a new quiz.
func (r *CurriculumRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO quizzes (id, course_id, title, questions, passing_score, duration_minutes, created_at)
        VALUES (:id, :course_id, :title, :questions, :passing_score, :duration_minutes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, quiz); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

// UpdateQuiz rewrites a quiz's mutable fields.
func (r *CurriculumRepository) UpdateQuiz(ctx context.Context, quiz *models.Quiz) error {
	const query = `UPDATE quizzes SET course_id = :course_id, title = :title, questions = :questions, passing_score = :passing_score, duration_minutes = :duration_minutes WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, quiz); err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	return nil
}

// DeleteQuiz removes a quiz permanently.
func (r *CurriculumRepository) DeleteQuiz(ctx context.Context, id string) (bool, error) {
	return r.deleteByID(ctx, "quizzes", id)
}

// ListAssignments returns assignments, optionally scoped to a course.
func (r *CurriculumRepository) ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	query := `SELECT id, course_id, title, description, due_date, max_score, created_at FROM assignments`
	var args []interface{}
	if courseID != "" {
		query += " WHERE course_id = $1"
		args = append(args, courseID)
	}
	query += " ORDER BY created_at ASC"
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindAssignment returns an assignment by ID.
func (r *CurriculumRepository) FindAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	const query = `SELECT id, course_id, title, description, due_date, max_score, created_at FROM assignments WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateAssignment persists a new assignment.
func (r *CurriculumRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (id, course_id, title, description, due_date, max_score, created_at)
        VALUES (:id, :course_id, :title, :description, :due_date, :max_score, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// UpdateAssignment rewrites an assignment's mutable fields.
func (r *CurriculumRepository) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	const query = `UPDATE assignments SET course_id = :course_id, title = :title, description = :description, due_date = :due_date, max_score = :max_score WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes an assignment permanently.
func (r *CurriculumRepository) DeleteAssignment(ctx context.Context, id string) (bool, error) {
	return r.deleteByID(ctx, "assignments", id)
}

func (r *CurriculumRepository) deleteByID(ctx context.Context, table, id string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete from %s result: %w", table, err)
	}
	return affected > 0, nil
}
