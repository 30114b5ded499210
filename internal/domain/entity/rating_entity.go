package entity

import (
	"time"
)

// Rating is an append-only score a job owner gives the hired worker once the
// job is completed. JobTitle and RaterName are denormalized for display.
type Rating struct {
	ID        string
	JobID     string
	JobTitle  string
	WorkerID  string
	RaterID   string
	RaterName string
	Score     int
	Comment   string
	CreatedAt time.Time
}
