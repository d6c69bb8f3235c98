package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/dto"
	"github.com/skillport/institute-api/internal/models"
	appErrors "github.com/skillport/institute-api/pkg/errors"
)

// Deliberately simple patterns, matching the legacy front-end checks.
var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{11}$`)
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	MarkVoucherGenerated(ctx context.Context, id string, stage models.EnrollmentStage) error
	MarkSlipUploaded(ctx context.Context, id string, stage models.EnrollmentStage) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// enrollmentNotifier receives fire-and-forget lifecycle events. Callers
// never block on, or fail because of, notification delivery.
type enrollmentNotifier interface {
	EnrollmentSubmitted(enrollment *models.Enrollment)
	PaymentSlipReceived(enrollment *models.Enrollment, slip *models.PaymentSlip)
}

// EnrollmentService owns the enrollment wizard session: step-1 form
// submission and record retrieval for the later steps.
type EnrollmentService struct {
	repo     enrollmentRepository
	courses  courseReader
	notifier enrollmentNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, notifier enrollmentNotifier, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, notifier: notifier, logger: logger, now: time.Now}
}

// SubmitForm validates the step-1 payload and creates the enrollment
// record with a snapshot of the selected course. On any validation
// failure it returns a field-keyed error and persists nothing.
func (s *EnrollmentService) SubmitForm(ctx context.Context, req dto.EnrollmentFormRequest) (*models.Enrollment, error) {
	fields := map[string]string{}
	if req.FullName == "" {
		fields["full_name"] = "full name is required"
	}
	if !emailPattern.MatchString(req.Email) {
		fields["email"] = "a valid email address is required"
	}
	if !phonePattern.MatchString(req.Phone) {
		fields["phone"] = "phone number must be exactly 11 digits"
	}
	if !models.ValidLevel(models.StudyLevel(req.Level)) {
		fields["level"] = "level must be one of Matric, Intermediate or Advanced"
	}
	if req.CourseID == "" {
		fields["course_id"] = "a course must be selected"
	}
	if len(fields) > 0 {
		return nil, appErrors.FieldErrors(fields)
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.Status != models.CourseStatusActive {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "course is not open for enrollment")
	}

	now := s.now().UTC()
	enrollment := &models.Enrollment{
		ID:             newEnrollmentID(now),
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Level:          models.StudyLevel(req.Level),
		CourseID:       course.ID,
		CourseTitle:    course.Title,
		Fees:           course.Fee,
		EnrollmentDate: now,
		Stage:          models.StageVoucher,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	if s.notifier != nil {
		s.notifier.EnrollmentSubmitted(enrollment)
	}
	s.logger.Info("enrollment created",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("course_id", enrollment.CourseID),
	)
	return enrollment, nil
}

// Get returns the enrollment record, used to resume the wizard after a
// reload. An unknown ID maps to NOT_FOUND so the client can redirect
// back to the catalog.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// List returns enrollments with pagination metadata for admin review.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return enrollments, pagination, nil
}

// newEnrollmentID derives the reference from the last six digits of the
// creation time in epoch milliseconds, e.g. ENR-493027. Kept for
// compatibility with references already printed on issued vouchers.
func newEnrollmentID(now time.Time) string {
	return fmt.Sprintf("ENR-%06d", now.UnixMilli()%1_000_000)
}
