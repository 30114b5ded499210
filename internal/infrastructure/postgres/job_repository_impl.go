package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/apperr"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const jobColumns = `id, owner_id, owner_name, owner_rating, owner_completed_jobs,
		title, description, category, price, location, images, status, job_type,
		preferred_date, COALESCE(hired_worker_id::text, ''), hired_worker_name,
		created_at, updated_at, hired_at, completed_at`

func (r *JobRepository) Create(ctx context.Context, j *entity.Job) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (owner_id, owner_name, owner_rating, owner_completed_jobs,
			title, description, category, price, location, images, job_type, preferred_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, status, created_at, updated_at
	`, j.OwnerID, j.OwnerName, j.OwnerRating, j.OwnerCompletedJobs,
		j.Title, j.Description, j.Category, j.Price, j.Location, j.Images,
		j.Type, j.PreferredDate)

	if err := row.Scan(&j.ID, &j.Status, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	j := &entity.Job{}
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	if err := scanJob(row, j); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("job %s", id)
		}
		return nil, apperr.Transient(err)
	}
	return j, nil
}

func scanJob(row pgx.Row, j *entity.Job) error {
	return row.Scan(&j.ID, &j.OwnerID, &j.OwnerName, &j.OwnerRating, &j.OwnerCompletedJobs,
		&j.Title, &j.Description, &j.Category, &j.Price, &j.Location, &j.Images,
		&j.Status, &j.Type, &j.PreferredDate, &j.HiredWorkerID, &j.HiredWorkerName,
		&j.CreatedAt, &j.UpdatedAt, &j.HiredAt, &j.CompletedAt)
}

func (r *JobRepository) List(ctx context.Context, f repository.JobFilter) ([]entity.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND status = $` + itoa(len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		q += ` AND category = $` + itoa(len(args))
	}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		q += ` AND owner_id = $` + itoa(len(args))
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, apperr.Transient(err)
	}
	defer rows.Close()

	var jobs []entity.Job
	for rows.Next() {
		var j entity.Job
		if err := scanJob(rows, &j); err != nil {
			return nil, apperr.Transient(err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient(err)
	}
	return jobs, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// MarkInProgress advances active -> in-progress only when the stored status is
// still active, so the first hire wins and a stale client gets false back.
func (r *JobRepository) MarkInProgress(ctx context.Context, jobID, workerID, workerName string, hiredAt time.Time) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE jobs
		SET status = $1, hired_worker_id = $2, hired_worker_name = $3,
			hired_at = $4, updated_at = now()
		WHERE id = $5 AND status = $6
	`, entity.JobStatusInProgress, workerID, workerName, hiredAt, jobID, entity.JobStatusActive)
	if err != nil {
		return false, apperr.Transient(err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *JobRepository) MarkCompleted(ctx context.Context, jobID string, completedAt time.Time) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE jobs
		SET status = $1, completed_at = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`, entity.JobStatusCompleted, completedAt, jobID, entity.JobStatusInProgress)
	if err != nil {
		return false, apperr.Transient(err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *JobRepository) DeleteActive(ctx context.Context, jobID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM jobs WHERE id = $1 AND status = $2
	`, jobID, entity.JobStatusActive)
	if err != nil {
		return false, apperr.Transient(err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *JobRepository) AddImage(ctx context.Context, jobID, url string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE jobs SET images = array_append(images, $1), updated_at = now()
		WHERE id = $2
	`, url, jobID)
	if err != nil {
		return apperr.Transient(err)
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("job %s", jobID)
	}
	return nil
}

var _ repository.JobRepository = (*JobRepository)(nil)
