package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/apperr"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, full_name, phone, bio, avatar_url,
		rating, completed_jobs, active_publications, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, phone, bio, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.FullName, u.Phone, u.Bio, u.AvatarURL)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, field, value string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+field+` = $1
	`, value)

	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user %s", value)
		}
		return nil, apperr.Transient(err)
	}
	return u, nil
}

func scanUser(row pgx.Row, u *entity.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Phone, &u.Bio,
		&u.AvatarURL, &u.Rating, &u.CompletedJobs, &u.ActivePublications,
		&u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET full_name = $1, phone = $2, bio = $3, avatar_url = $4, updated_at = $5
		WHERE id = $6
	`, u.FullName, u.Phone, u.Bio, u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return apperr.Transient(err)
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("user %s", u.ID)
	}
	return nil
}

func (r *UserRepository) ApplyRating(ctx context.Context, workerID string, rating float64, completedJobs int) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET rating = $1, completed_jobs = $2, updated_at = now()
		WHERE id = $3
	`, rating, completedJobs, workerID)
	if err != nil {
		return apperr.Transient(err)
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("user %s", workerID)
	}
	return nil
}

func (r *UserRepository) AddActivePublications(ctx context.Context, userID string, delta int) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET active_publications = GREATEST(active_publications + $1, 0), updated_at = now()
		WHERE id = $2
	`, delta, userID)
	if err != nil {
		return apperr.Transient(err)
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("user %s", userID)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
