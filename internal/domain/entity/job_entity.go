package entity

import (
	"time"
)

// JobStatus is the posting lifecycle state. It only moves forward:
// active -> in-progress -> completed.
type JobStatus string

const (
	JobStatusActive     JobStatus = "active"
	JobStatusInProgress JobStatus = "in-progress"
	JobStatusCompleted  JobStatus = "completed"
)

// JobType distinguishes one-off requests from recurring services.
type JobType string

const (
	JobTypeOneTime   JobType = "one-time"
	JobTypeRecurring JobType = "recurring"
)

// Job is a posted service request. Owner* fields are a denormalized snapshot
// of the owner's profile taken at publish time, so feed cards render without
// an extra user lookup.
type Job struct {
	ID                 string
	OwnerID            string
	OwnerName          string
	OwnerRating        float64
	OwnerCompletedJobs int
	Title              string
	Description        string
	Category           string
	Price              int64
	Location           string
	Images             []string
	Status             JobStatus
	Type               JobType
	PreferredDate      string
	HiredWorkerID      string
	HiredWorkerName    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	HiredAt            *time.Time
	CompletedAt        *time.Time
}
