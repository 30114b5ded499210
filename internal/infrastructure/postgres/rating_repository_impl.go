package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/apperr"
)

type RatingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

func (r *RatingRepository) Create(ctx context.Context, rt *entity.Rating) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO ratings (job_id, job_title, worker_id, rater_id, rater_name, score, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, rt.JobID, rt.JobTitle, rt.WorkerID, rt.RaterID, rt.RaterName, rt.Score, rt.Comment)

	if err := row.Scan(&rt.ID, &rt.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.InvalidState("job %s is already rated", rt.JobID)
		}
		return apperr.Transient(err)
	}
	return nil
}

func (r *RatingRepository) ExistsForJob(ctx context.Context, jobID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM ratings WHERE job_id = $1)
	`, jobID).Scan(&exists)
	if err != nil {
		return false, apperr.Transient(err)
	}
	return exists, nil
}

func (r *RatingRepository) ListForWorker(ctx context.Context, workerID string) ([]entity.Rating, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, job_id, job_title, worker_id, rater_id, rater_name, score, comment, created_at
		FROM ratings
		WHERE worker_id = $1
		ORDER BY created_at DESC
	`, workerID)
	if err != nil {
		return nil, apperr.Transient(err)
	}
	defer rows.Close()

	var out []entity.Rating
	for rows.Next() {
		var rt entity.Rating
		if err := rows.Scan(&rt.ID, &rt.JobID, &rt.JobTitle, &rt.WorkerID, &rt.RaterID,
			&rt.RaterName, &rt.Score, &rt.Comment, &rt.CreatedAt); err != nil {
			return nil, apperr.Transient(err)
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient(err)
	}
	return out, nil
}

var _ repository.RatingRepository = (*RatingRepository)(nil)
