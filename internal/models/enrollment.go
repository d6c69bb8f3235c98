package models

import "time"

// EnrollmentStage tracks progress through the enrollment wizard.
// Transitions are forward-only: FORM → VOUCHER → UPLOAD → DONE.
type EnrollmentStage string

// Wizard stages.
const (
	StageForm    EnrollmentStage = "FORM"
	StageVoucher EnrollmentStage = "VOUCHER"
	StageUpload  EnrollmentStage = "UPLOAD"
	StageDone    EnrollmentStage = "DONE"
)

// StudyLevel is the applicant's prior education level.
type StudyLevel string

// Accepted study levels.
const (
	LevelMatric       StudyLevel = "Matric"
	LevelIntermediate StudyLevel = "Intermediate"
	LevelAdvanced     StudyLevel = "Advanced"
)

// ValidLevel reports whether the given value is an accepted study level.
func ValidLevel(level StudyLevel) bool {
	switch level {
	case LevelMatric, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Enrollment is one applicant's record through the wizard. Course title
// and fee are snapshotted at creation; later catalog edits do not
// affect an existing enrollment. VoucherGenerated and
// PaymentSlipUploaded are monotonic: once true they are never reset.
type Enrollment struct {
	ID                  string          `db:"id" json:"id"`
	FullName            string          `db:"full_name" json:"full_name"`
	Email               string          `db:"email" json:"email"`
	Phone               string          `db:"phone" json:"phone"`
	Level               StudyLevel      `db:"level" json:"level"`
	CourseID            string          `db:"course_id" json:"course_id"`
	CourseTitle         string          `db:"course_title" json:"course_title"`
	Fees                int64           `db:"fees" json:"fees"`
	EnrollmentDate      time.Time       `db:"enrollment_date" json:"enrollment_date"`
	Stage               EnrollmentStage `db:"stage" json:"stage"`
	VoucherGenerated    bool            `db:"voucher_generated" json:"voucher_generated"`
	PaymentSlipUploaded bool            `db:"payment_slip_uploaded" json:"payment_slip_uploaded"`
}

// EnrollmentFilter provides filters for admin enrollment listings.
type EnrollmentFilter struct {
	CourseID  string
	Stage     EnrollmentStage
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
