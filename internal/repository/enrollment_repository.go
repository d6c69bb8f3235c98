package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/skillport/institute-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollment records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = "id, full_name, email, phone, level, course_id, course_title, fees, enrollment_date, stage, voucher_generated, payment_slip_uploaded"

// List returns enrollments for the admin listing.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	base := "FROM enrollments"
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Stage != "" {
		conditions = append(conditions, fmt.Sprintf("stage = $%d", len(args)+1))
		args = append(args, filter.Stage)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"enrollment_date": "enrollment_date",
		"full_name":       "full_name",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "enrollment_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", enrollmentColumns, base+clause, orderBy, order, size, offset)

	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE id = $1", enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (id, full_name, email, phone, level, course_id, course_title, fees, enrollment_date, stage, voucher_generated, payment_slip_uploaded)
        VALUES (:id, :full_name, :email, :phone, :level, :course_id, :course_title, :fees, :enrollment_date, :stage, :voucher_generated, :payment_slip_uploaded)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// MarkVoucherGenerated flips voucher_generated on and advances the
// stage. The flag only ever moves to TRUE; there is no reverse update
// anywhere in the codebase, which keeps it monotonic.
func (r *EnrollmentRepository) MarkVoucherGenerated(ctx context.Context, id string, stage models.EnrollmentStage) error {
	const query = `UPDATE enrollments SET voucher_generated = TRUE, stage = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, stage); err != nil {
		return fmt.Errorf("mark voucher generated: %w", err)
	}
	return nil
}

// MarkSlipUploaded flips payment_slip_uploaded on and moves the record
// to its terminal stage. Monotonic for the same reason as above.
func (r *EnrollmentRepository) MarkSlipUploaded(ctx context.Context, id string, stage models.EnrollmentStage) error {
	const query = `UPDATE enrollments SET payment_slip_uploaded = TRUE, stage = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, stage); err != nil {
		return fmt.Errorf("mark slip uploaded: %w", err)
	}
	return nil
}
