package models

import "time"

// CourseStatus marks whether a course is open for enrollment.
type CourseStatus string

// Possible course statuses.
const (
	CourseStatusActive   CourseStatus = "active"
	CourseStatusInactive CourseStatus = "inactive"
)

// Course is a catalog entry managed by admins. The fee is stored in the
// smallest currency unit (whole rupees, no decimals).
type Course struct {
	ID                string       `db:"id" json:"id"`
	Title             string       `db:"title" json:"title"`
	Description       string       `db:"description" json:"description"`
	Duration          string       `db:"duration" json:"duration"`
	Credits           int          `db:"credits" json:"credits"`
	Fee               int64        `db:"fee" json:"fee"`
	AwardingBody      string       `db:"awarding_body" json:"awarding_body"`
	EntryRequirements string       `db:"entry_requirements" json:"entry_requirements"`
	Status            CourseStatus `db:"status" json:"status"`
	Image             string       `db:"image" json:"image,omitempty"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updated_at"`
}

// CourseFilter provides filters for listing courses.
type CourseFilter struct {
	Status    CourseStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
