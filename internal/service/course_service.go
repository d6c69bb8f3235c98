package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/models"
	appErrors "github.com/skillport/institute-api/pkg/errors"
)

const catalogCacheKey = "catalog:courses:active"

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CourseRequest is the admin create/update payload.
type CourseRequest struct {
	Title             string `json:"title" validate:"required"`
	Description       string `json:"description"`
	Duration          string `json:"duration"`
	Credits           int    `json:"credits" validate:"gte=0"`
	Fee               int64  `json:"fee" validate:"gte=0"`
	AwardingBody      string `json:"awarding_body"`
	EntryRequirements string `json:"entry_requirements"`
	Status            string `json:"status" validate:"omitempty,oneof=active inactive"`
	Image             string `json:"image"`
}

// CourseService manages the catalog: admin CRUD plus the cached public
// listing the enrollment wizard starts from.
type CourseService struct {
	repo      courseRepository
	cache     *CatalogCacheHelper
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, cache *CatalogCacheHelper, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Catalog returns active courses for the public site. Cache hit state
// is reported so the handler can surface it in response metadata.
func (s *CourseService) Catalog(ctx context.Context) ([]models.Course, bool, error) {
	if s.cache != nil {
		var cached []models.Course
		if err := s.cache.Get(ctx, catalogCacheKey, &cached); err == nil {
			return cached, true, nil
		}
	}

	courses, _, err := s.repo.List(ctx, models.CourseFilter{Status: models.CourseStatusActive, PageSize: 100, SortBy: "title", SortOrder: "ASC"})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, catalogCacheKey, courses); err != nil {
			s.logger.Warn("failed to cache catalog", zap.Error(err))
		}
	}
	return courses, false, nil
}

// List returns courses with pagination metadata for the admin screen.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a catalog entry.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		Title:             req.Title,
		Description:       req.Description,
		Duration:          req.Duration,
		Credits:           req.Credits,
		Fee:               req.Fee,
		AwardingBody:      req.AwardingBody,
		EntryRequirements: req.EntryRequirements,
		Status:            models.CourseStatus(req.Status),
		Image:             req.Image,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// Update rewrites a course. A stale ID maps to NOT_FOUND; existing
// enrollments keep their snapshotted title and fee either way.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Title = req.Title
	course.Description = req.Description
	course.Duration = req.Duration
	course.Credits = req.Credits
	course.Fee = req.Fee
	course.AwardingBody = req.AwardingBody
	course.EntryRequirements = req.EntryRequirements
	if req.Status != "" {
		course.Status = models.CourseStatus(req.Status)
	}
	course.Image = req.Image
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// Delete removes a course immediately and irreversibly. Instructors
// referencing it keep the stale ID; no cascade or block is attempted.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, catalogCacheKey); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
