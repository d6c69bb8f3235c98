package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/models"
	appErrors "github.com/skillport/institute-api/pkg/errors"
)

type curriculumRepository interface {
	ListModules(ctx context.Context, courseID string) ([]models.Module, error)
	FindModule(ctx context.Context, id string) (*models.Module, error)
	CreateModule(ctx context.Context, module *models.Module) error
	UpdateModule(ctx context.Context, module *models.Module) error
	DeleteModule(ctx context.Context, id string) (bool, error)

	ListQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error)
	FindQuiz(ctx context.Context, id string) (*models.Quiz, error)
	CreateQuiz(ctx context.Context, quiz *models.Quiz) error
	UpdateQuiz(ctx context.Context, quiz *models.Quiz) error
	DeleteQuiz(ctx context.Context, id string) (bool, error)

	ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error)
	FindAssignment(ctx context.Context, id string) (*models.Assignment, error)
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	UpdateAssignment(ctx context.Context, assignment *models.Assignment) error
	DeleteAssignment(ctx context.Context, id string) (bool, error)
}

// ModuleRequest is the admin payload for course modules.
type ModuleRequest struct {
	CourseID        string `json:"course_id" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	Position        int    `json:"position" validate:"gte=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
}

// QuizRequest is the admin payload for quizzes.
type QuizRequest struct {
	CourseID        string `json:"course_id" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Questions       int    `json:"questions" validate:"gte=0"`
	PassingScore    int    `json:"passing_score" validate:"gte=0,lte=100"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
}

// AssignmentRequest is the admin payload for assignments.
type AssignmentRequest struct {
	CourseID    string     `json:"course_id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	MaxScore    int        `json:"max_score" validate:"gte=0"`
}

// CurriculumService manages course content entities. Like the rest of
// the admin store it performs no referential checks against courses.
type CurriculumService struct {
	repo      curriculumRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCurriculumService constructs CurriculumService.
func NewCurriculumService(repo curriculumRepository, validate *validator.Validate, logger *zap.Logger) *CurriculumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{repo: repo, validator: validate, logger: logger}
}

// ListModules returns modules, optionally filtered by course.
func (s *CurriculumService) ListModules(ctx context.Context, courseID string) ([]models.Module, error) {
	modules, err := s.repo.ListModules(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}
	return modules, nil
}

// CreateModule adds a module.
func (s *CurriculumService) CreateModule(ctx context.Context, req ModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}
	module := &models.Module{
		CourseID:        req.CourseID,
		Title:           req.Title,
		Description:     req.Description,
		Position:        req.Position,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.repo.CreateModule(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create module")
	}
	return module, nil
}

// UpdateModule rewrites a module. A stale ID maps to NOT_FOUND.
func (s *CurriculumService) UpdateModule(ctx context.Context, id string, req ModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}
	module, err := s.repo.FindModule(ctx, id)
	if err != nil {
		return nil, s.mapFindErr(err, "module not found")
	}
	module.CourseID = req.CourseID
	module.Title = req.Title
	module.Description = req.Description
	module.Position = req.Position
	module.DurationMinutes = req.DurationMinutes
	if err := s.repo.UpdateModule(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update module")
	}
	return module, nil
}

// DeleteModule removes a module.
func (s *CurriculumService) DeleteModule(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteModule(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete module")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "module not found")
	}
	return nil
}

// ListQuizzes returns quizzes, optionally filtered by course.
func (s *CurriculumService) ListQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error) {
	quizzes, err := s.repo.ListQuizzes(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list quizzes")
	}
	return quizzes, nil
}

// CreateQuiz adds a quiz.
func (s *CurriculumService) CreateQuiz(ctx context.Context, req QuizRequest) (*models.Quiz, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quiz payload")
	}
	quiz := &models.Quiz{
		CourseID:        req.CourseID,
		Title:           req.Title,
		Questions:       req.Questions,
		PassingScore:    req.PassingScore,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create quiz")
	}
	return quiz, nil
}

// UpdateQuiz rewrites a quiz. A stale ID maps to NOT_FOUND.
func (s *CurriculumService) UpdateQuiz(ctx context.Context, id string, req QuizRequest) (*models.Quiz, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quiz payload")
	}
	quiz, err := s.repo.FindQuiz(ctx, id)
	if err != nil {
		return nil, s.mapFindErr(err, "quiz not found")
	}
	quiz.CourseID = req.CourseID
	quiz.Title = req.Title
	quiz.Questions = req.Questions
	quiz.PassingScore = req.PassingScore
	quiz.DurationMinutes = req.DurationMinutes
	if err := s.repo.UpdateQuiz(ctx, quiz); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update quiz")
	}
	return quiz, nil
}

// DeleteQuiz removes a quiz.
func (s *CurriculumService) DeleteQuiz(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteQuiz(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete quiz")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
	}
	return nil
}

// ListAssignments returns assignments, optionally filtered by course.
func (s *CurriculumService) ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	assignments, err := s.repo.ListAssignments(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// CreateAssignment adds an assignment.
func (s *CurriculumService) CreateAssignment(ctx context.Context, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	assignment := &models.Assignment{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxScore:    req.MaxScore,
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// UpdateAssignment rewrites an assignment. A stale ID maps to NOT_FOUND.
func (s *CurriculumService) UpdateAssignment(ctx context.Context, id string, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	assignment, err := s.repo.FindAssignment(ctx, id)
	if err != nil {
		return nil, s.mapFindErr(err, "assignment not found")
	}
	assignment.CourseID = req.CourseID
	assignment.Title = req.Title
	assignment.Description = req.Description
	assignment.DueDate = req.DueDate
	assignment.MaxScore = req.MaxScore
	if err := s.repo.UpdateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return assignment, nil
}

// DeleteAssignment removes an assignment.
func (s *CurriculumService) DeleteAssignment(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteAssignment(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	return nil
}

func (s *CurriculumService) mapFindErr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
}
