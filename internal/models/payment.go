package models

import "time"

// PaymentSlip records one uploaded proof-of-payment file. Immutable
// once written; there is no update or replace operation.
type PaymentSlip struct {
	ID           string    `db:"id" json:"id"`
	EnrollmentID string    `db:"enrollment_id" json:"enrollment_id"`
	FileName     string    `db:"file_name" json:"file_name"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	FilePath     string    `db:"file_path" json:"-"`
	Remarks      string    `db:"remarks" json:"remarks,omitempty"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploaded_at"`
}
