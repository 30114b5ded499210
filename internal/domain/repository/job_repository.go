package repository

import (
	"context"
	"time"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
)

// JobFilter narrows job listings. Zero values mean "no filter".
type JobFilter struct {
	Status   entity.JobStatus
	Category string
	OwnerID  string
}

// JobRepository defines the storage operations for postings. Status
// transitions use conditional writes: the update applies only when the stored
// status still equals the expected one, so a stale client loses the race
// instead of clobbering a newer state.
type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	List(ctx context.Context, f JobFilter) ([]entity.Job, error)

	// MarkInProgress moves an active job to in-progress, recording the hired
	// worker and hire time. Returns false when the job was not active.
	MarkInProgress(ctx context.Context, jobID, workerID, workerName string, hiredAt time.Time) (bool, error)

	// MarkCompleted moves an in-progress job to completed. Returns false when
	// the job was not in-progress.
	MarkCompleted(ctx context.Context, jobID string, completedAt time.Time) (bool, error)

	// DeleteActive removes a job only while it is still active. Returns false
	// when the job no longer exists or has advanced.
	DeleteActive(ctx context.Context, jobID string) (bool, error)

	// AddImage appends an uploaded image URL to the job's gallery.
	AddImage(ctx context.Context, jobID, url string) error
}
