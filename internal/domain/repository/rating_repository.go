package repository

import (
	"context"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
)

// RatingRepository defines the storage operations for ratings. Ratings are
// append-only; at most one exists per job.
type RatingRepository interface {
	Create(ctx context.Context, r *entity.Rating) error
	ExistsForJob(ctx context.Context, jobID string) (bool, error)
	ListForWorker(ctx context.Context, workerID string) ([]entity.Rating, error)
}
