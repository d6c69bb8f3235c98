package models

import (
	"time"

	"github.com/lib/pq"
)

// Instructor is a staff profile managed by admins. Courses holds plain
// course IDs; deleting a referenced course does not touch this list, so
// stale IDs can remain (matching the legacy behaviour).
type Instructor struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	Phone          string         `db:"phone" json:"phone"`
	Specialization string         `db:"specialization" json:"specialization"`
	Experience     string         `db:"experience" json:"experience"`
	Qualification  string         `db:"qualification" json:"qualification"`
	Bio            string         `db:"bio" json:"bio"`
	Status         string         `db:"status" json:"status"`
	Rating         float64        `db:"rating" json:"rating"`
	Students       int            `db:"students" json:"students"`
	Courses        pq.StringArray `db:"courses" json:"courses"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
