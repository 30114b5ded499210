package repository

import (
	"context"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
)

// UserRepository defines the storage operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error

	// ApplyRating atomically writes the recomputed aggregate rating and
	// completed-jobs count for a worker.
	ApplyRating(ctx context.Context, workerID string, rating float64, completedJobs int) error

	// AddActivePublications adjusts the active-publications counter by delta,
	// clamped at zero.
	AddActivePublications(ctx context.Context, userID string, delta int) error
}
