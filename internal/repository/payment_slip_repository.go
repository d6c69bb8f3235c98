package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillport/institute-api/internal/models"
)

// PaymentSlipRepository handles persistence of payment-slip metadata.
type PaymentSlipRepository struct {
	db *sqlx.DB
}

// NewPaymentSlipRepository constructs the repository.
func NewPaymentSlipRepository(db *sqlx.DB) *PaymentSlipRepository {
	return &PaymentSlipRepository{db: db}
}

const slipColumns = "id, enrollment_id, file_name, file_size, mime_type, file_path, remarks, uploaded_at"

// Create persists a new payment-slip record. Slips are write-once.
func (r *PaymentSlipRepository) Create(ctx context.Context, slip *models.PaymentSlip) error {
	if slip.ID == "" {
		slip.ID = uuid.NewString()
	}
	if slip.UploadedAt.IsZero() {
		slip.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payment_slips (id, enrollment_id, file_name, file_size, mime_type, file_path, remarks, uploaded_at)
        VALUES (:id, :enrollment_id, :file_name, :file_size, :mime_type, :file_path, :remarks, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slip); err != nil {
		return fmt.Errorf("create payment slip: %w", err)
	}
	return nil
}

// FindByID returns a slip by its ID.
func (r *PaymentSlipRepository) FindByID(ctx context.Context, id string) (*models.PaymentSlip, error) {
	query := fmt.Sprintf("SELECT %s FROM payment_slips WHERE id = $1", slipColumns)
	var slip models.PaymentSlip
	if err := r.db.GetContext(ctx, &slip, query, id); err != nil {
		return nil, err
	}
	return &slip, nil
}

// FindByEnrollment returns the slip attached to an enrollment, if any.
func (r *PaymentSlipRepository) FindByEnrollment(ctx context.Context, enrollmentID string) (*models.PaymentSlip, error) {
	query := fmt.Sprintf("SELECT %s FROM payment_slips WHERE enrollment_id = $1 ORDER BY uploaded_at DESC LIMIT 1", slipColumns)
	var slip models.PaymentSlip
	if err := r.db.GetContext(ctx, &slip, query, enrollmentID); err != nil {
		return nil, err
	}
	return &slip, nil
}

// List returns slips for admin review, newest first.
func (r *PaymentSlipRepository) List(ctx context.Context, page, size int) ([]models.PaymentSlip, int, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM payment_slips ORDER BY uploaded_at DESC LIMIT %d OFFSET %d", slipColumns, size, offset)
	var slips []models.PaymentSlip
	if err := r.db.SelectContext(ctx, &slips, query); err != nil {
		return nil, 0, fmt.Errorf("list payment slips: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM payment_slips"); err != nil {
		return nil, 0, fmt.Errorf("count payment slips: %w", err)
	}
	return slips, total, nil
}
