package application

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
	"github.com/chambanica/chambanica-api/internal/domain/repository"
	"github.com/chambanica/chambanica-api/pkg/apperr"
	"github.com/chambanica/chambanica-api/pkg/helpers"
	"github.com/chambanica/chambanica-api/pkg/notify"
)

const workerStatsTTL = 5 * time.Minute

func workerStatsKey(workerID string) string { return "stats:worker:" + workerID }

// WorkerStats is the public reputation summary for one worker.
type WorkerStats struct {
	WorkerID      string          `json:"worker_id"`
	Rating        float64         `json:"rating"`
	CompletedJobs int             `json:"completed_jobs"`
	Histogram     [5]int          `json:"histogram"`
	Recent        []entity.Rating `json:"recent"`
}

// RatingService maintains each worker's reputation as an incremental
// average: the stored rating and completed-jobs count are enough to fold in
// the next score without rescanning history.
type RatingService struct {
	Ratings   repository.RatingRepository
	Jobs      repository.JobRepository
	Users     repository.UserRepository
	Redis     *redis.Client
	Publisher *helpers.RabbitPublisher
	Logger    *logrus.Logger
}

func NewRatingService(ratings repository.RatingRepository, jobs repository.JobRepository, users repository.UserRepository, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger) *RatingService {
	return &RatingService{
		Ratings:   ratings,
		Jobs:      jobs,
		Users:     users,
		Redis:     rdb,
		Publisher: pub,
		Logger:    logger,
	}
}

// RateWorker records the owner's score for the hired worker of a completed
// job and folds it into the worker's aggregate. At most one rating exists per
// job.
func (s *RatingService) RateWorker(ctx context.Context, actorID, jobID string, score int, comment string) (*entity.Rating, error) {
	if score < 1 || score > 5 {
		return nil, apperr.Validation("score must be between 1 and 5")
	}
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != actorID {
		return nil, apperr.PermissionDenied("only the owner can rate for job %s", jobID)
	}
	if job.Status != entity.JobStatusCompleted {
		return nil, apperr.InvalidState("job %s is not completed", jobID)
	}
	if job.HiredWorkerID == "" {
		return nil, apperr.InvalidState("job %s has no hired worker", jobID)
	}
	exists, err := s.Ratings.ExistsForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.InvalidState("job %s is already rated", jobID)
	}

	worker, err := s.Users.GetByID(ctx, job.HiredWorkerID)
	if err != nil {
		return nil, err
	}

	rating := &entity.Rating{
		JobID:     jobID,
		JobTitle:  job.Title,
		WorkerID:  worker.ID,
		RaterID:   actorID,
		RaterName: job.OwnerName,
		Score:     score,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.Ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	newCount := worker.CompletedJobs + 1
	newAvg := round2((worker.Rating*float64(worker.CompletedJobs) + float64(score)) / float64(newCount))
	if err := s.Users.ApplyRating(ctx, worker.ID, newAvg, newCount); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisDel(ctx, s.Redis, workerStatsKey(worker.ID)); err != nil {
			s.Logger.WithError(err).WithField("worker_id", worker.ID).Warn("stats cache invalidation failed")
		}
	}

	s.Logger.WithFields(logrus.Fields{
		"job_id":    jobID,
		"worker_id": worker.ID,
		"score":     score,
		"rating":    newAvg,
	}).Info("worker rated")

	enqueueNotification(ctx, s.Publisher, s.Users, s.Logger, worker.ID, notify.Job{
		Event: notify.EventWorkerRated,
		Data: map[string]any{
			"rater_name": rating.RaterName,
			"job_title":  job.Title,
			"score":      score,
		},
	})
	return rating, nil
}

// ListForWorker returns a worker's received ratings, newest first.
func (s *RatingService) ListForWorker(ctx context.Context, workerID string) ([]entity.Rating, error) {
	return s.Ratings.ListForWorker(ctx, workerID)
}

// WorkerStats returns the aggregate plus a score histogram and the most
// recent ratings, cached briefly in redis.
func (s *RatingService) WorkerStats(ctx context.Context, workerID string) (*WorkerStats, error) {
	key := workerStatsKey(workerID)
	if s.Redis != nil {
		var cached WorkerStats
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	worker, err := s.Users.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.Ratings.ListForWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	stats := &WorkerStats{
		WorkerID:      workerID,
		Rating:        worker.Rating,
		CompletedJobs: worker.CompletedJobs,
	}
	for _, r := range ratings {
		if r.Score >= 1 && r.Score <= 5 {
			stats.Histogram[r.Score-1]++
		}
	}
	if len(ratings) > 10 {
		ratings = ratings[:10]
	}
	stats.Recent = ratings

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, stats, workerStatsTTL); err != nil {
			s.Logger.WithError(err).WithField("worker_id", workerID).Warn("stats cache write failed")
		}
	}
	return stats, nil
}

// round2 rounds half away from zero to two decimals, matching how the stored
// aggregates were historically computed.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
