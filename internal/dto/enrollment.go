package dto

import (
	"time"

	"github.com/skillport/institute-api/internal/models"
)

// EnrollmentFormRequest is the step-1 wizard payload.
type EnrollmentFormRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Level    string `json:"level"`
	CourseID string `json:"course_id"`
}

// VoucherView is a display-only projection of an enrollment's payment
// reference. It is not a payment instrument; payment happens by manual
// bank transfer against the printed details.
type VoucherView struct {
	EnrollmentID  string                 `json:"enrollment_id"`
	StudentName   string                 `json:"student_name"`
	CourseTitle   string                 `json:"course_title"`
	Fees          int64                  `json:"fees"`
	BankName      string                 `json:"bank_name"`
	AccountTitle  string                 `json:"account_title"`
	AccountNumber string                 `json:"account_number"`
	IssuedAt      time.Time              `json:"issued_at"`
	DueDate       time.Time              `json:"due_date"`
	Stage         models.EnrollmentStage `json:"stage"`
}

// PaymentSlipResponse confirms a stored upload and reports the final
// wizard state.
type PaymentSlipResponse struct {
	Slip  *models.PaymentSlip    `json:"slip"`
	Stage models.EnrollmentStage `json:"stage"`
}
