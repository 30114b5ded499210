package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chambanica/chambanica-api/pkg/apperr"
)

// completedJob drives a job through publish -> hire -> complete so it is
// ready to rate.
func completedJob(t *testing.T, e *testEnv, ownerID, workerID string) string {
	t.Helper()
	ctx := context.Background()
	job := e.addJob(ownerID, "Trabajo terminado", "Limpieza")
	_, err := e.jobSvc.Hire(ctx, ownerID, job.ID, workerID)
	require.NoError(t, err)
	_, err = e.jobSvc.Complete(ctx, ownerID, job.ID)
	require.NoError(t, err)
	return job.ID
}

func TestRateWorkerAggregates(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	ctx := context.Background()

	// Existing reputation: 4.8 across 12 jobs; a 5 lands at 4.82.
	require.NoError(t, e.users.ApplyRating(ctx, worker.ID, 4.8, 12))

	jobID := completedJob(t, e, owner.ID, worker.ID)
	rating, err := e.ratingSvc.RateWorker(ctx, owner.ID, jobID, 5, "Excelente trabajo")
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Score)
	assert.Equal(t, worker.ID, rating.WorkerID)
	assert.Equal(t, owner.FullName, rating.RaterName)

	after, _ := e.users.GetByID(ctx, worker.ID)
	assert.Equal(t, 4.82, after.Rating)
	assert.Equal(t, 13, after.CompletedJobs)
}

func TestRateWorkerFirstRating(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Jorge")
	ctx := context.Background()

	jobID := completedJob(t, e, owner.ID, worker.ID)
	_, err := e.ratingSvc.RateWorker(ctx, owner.ID, jobID, 4, "")
	require.NoError(t, err)

	after, _ := e.users.GetByID(ctx, worker.ID)
	assert.Equal(t, 4.0, after.Rating)
	assert.Equal(t, 1, after.CompletedJobs)
}

func TestRateWorkerStaysWithinScale(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	ctx := context.Background()

	scores := []int{5, 1, 3, 5, 2, 4, 5, 1}
	for _, score := range scores {
		jobID := completedJob(t, e, owner.ID, worker.ID)
		_, err := e.ratingSvc.RateWorker(ctx, owner.ID, jobID, score, "")
		require.NoError(t, err)

		after, _ := e.users.GetByID(ctx, worker.ID)
		assert.GreaterOrEqual(t, after.Rating, 1.0)
		assert.LessOrEqual(t, after.Rating, 5.0)
	}

	after, _ := e.users.GetByID(ctx, worker.ID)
	assert.Equal(t, len(scores), after.CompletedJobs)
}

func TestRateWorkerPreconditions(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	outsider := e.addUser("Pedro")
	ctx := context.Background()

	active := e.addJob(owner.ID, "Aún activo", "Pintura")
	_, err := e.ratingSvc.RateWorker(ctx, owner.ID, active.ID, 5, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	inProgress := e.addJob(owner.ID, "En curso", "Pintura")
	_, err = e.jobSvc.Hire(ctx, owner.ID, inProgress.ID, worker.ID)
	require.NoError(t, err)
	_, err = e.ratingSvc.RateWorker(ctx, owner.ID, inProgress.ID, 5, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	jobID := completedJob(t, e, owner.ID, worker.ID)

	_, err = e.ratingSvc.RateWorker(ctx, outsider.ID, jobID, 5, "")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	for _, score := range []int{0, -1, 6} {
		_, err := e.ratingSvc.RateWorker(ctx, owner.ID, jobID, score, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}

	_, err = e.ratingSvc.RateWorker(ctx, owner.ID, "missing", 5, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRateWorkerOncePerJob(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	ctx := context.Background()

	jobID := completedJob(t, e, owner.ID, worker.ID)
	_, err := e.ratingSvc.RateWorker(ctx, owner.ID, jobID, 5, "")
	require.NoError(t, err)

	_, err = e.ratingSvc.RateWorker(ctx, owner.ID, jobID, 1, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// The aggregate only moved once.
	after, _ := e.users.GetByID(ctx, worker.ID)
	assert.Equal(t, 5.0, after.Rating)
	assert.Equal(t, 1, after.CompletedJobs)
}

func TestWorkerStatsHistogram(t *testing.T) {
	e := newTestEnv()
	owner := e.addUser("María")
	worker := e.addUser("Carlos")
	ctx := context.Background()

	for _, score := range []int{5, 5, 4, 2} {
		jobID := completedJob(t, e, owner.ID, worker.ID)
		_, err := e.ratingSvc.RateWorker(ctx, owner.ID, jobID, score, "")
		require.NoError(t, err)
	}

	stats, err := e.ratingSvc.WorkerStats(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.CompletedJobs)
	assert.Equal(t, [5]int{0, 1, 0, 1, 2}, stats.Histogram)
	assert.Len(t, stats.Recent, 4)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 4.82, round2((4.8*12+5)/13))
	assert.Equal(t, 4.5, round2(4.5))
	assert.Equal(t, 0.01, round2(0.005))
	assert.Equal(t, 3.33, round2(10.0/3))
}
