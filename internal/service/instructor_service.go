package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/models"
	appErrors "github.com/skillport/institute-api/pkg/errors"
)

type instructorRepository interface {
	List(ctx context.Context, status string, page, size int) ([]models.Instructor, int, error)
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	Create(ctx context.Context, instructor *models.Instructor) error
	Update(ctx context.Context, instructor *models.Instructor) error
	Delete(ctx context.Context, id string) (bool, error)
}

// InstructorRequest is the admin create/update payload. Course IDs are
// stored as given; referential integrity against the catalog is not
// enforced, so a listed course may no longer exist.
type InstructorRequest struct {
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone"`
	Specialization string   `json:"specialization"`
	Experience     string   `json:"experience"`
	Qualification  string   `json:"qualification"`
	Bio            string   `json:"bio"`
	Status         string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Rating         float64  `json:"rating" validate:"gte=0,lte=5"`
	Students       int      `json:"students" validate:"gte=0"`
	Courses        []string `json:"courses"`
}

// InstructorService manages instructor profiles.
type InstructorService struct {
	repo      instructorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstructorService constructs InstructorService.
func NewInstructorService(repo instructorRepository, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, validator: validate, logger: logger}
}

// List returns instructors with pagination metadata.
func (s *InstructorService) List(ctx context.Context, status string, page, size int) ([]models.Instructor, *models.Pagination, error) {
	instructors, total, err := s.repo.List(ctx, status, page, size)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return instructors, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one instructor by ID.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	return instructor, nil
}

// Create adds an instructor profile.
func (s *InstructorService) Create(ctx context.Context, req InstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor := &models.Instructor{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Qualification:  req.Qualification,
		Bio:            req.Bio,
		Status:         req.Status,
		Rating:         req.Rating,
		Students:       req.Students,
		Courses:        pq.StringArray(req.Courses),
	}
	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return instructor, nil
}

// Update rewrites an instructor profile. A stale ID maps to NOT_FOUND.
func (s *InstructorService) Update(ctx context.Context, id string, req InstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	instructor.Name = req.Name
	instructor.Email = req.Email
	instructor.Phone = req.Phone
	instructor.Specialization = req.Specialization
	instructor.Experience = req.Experience
	instructor.Qualification = req.Qualification
	instructor.Bio = req.Bio
	if req.Status != "" {
		instructor.Status = req.Status
	}
	instructor.Rating = req.Rating
	instructor.Students = req.Students
	instructor.Courses = pq.StringArray(req.Courses)
	if err := s.repo.Update(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update instructor")
	}
	return instructor, nil
}

// Delete removes an instructor immediately and irreversibly.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete instructor")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
	}
	return nil
}
