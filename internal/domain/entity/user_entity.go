package entity

import (
	"time"
)

// User is the aggregate root for accounts. Rating and CompletedJobs are
// written only by the rating aggregator; ActivePublications counts the
// user's own postings currently in active status.
//
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID                 string
	Email              string
	Password           string
	FullName           string
	Phone              string
	Bio                string
	AvatarURL          string
	Rating             float64
	CompletedJobs      int
	ActivePublications int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
