package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
)

func jobAt(id, category string, created time.Time) entity.Job {
	return entity.Job{ID: id, Category: category, CreatedAt: created}
}

func ids(jobs []entity.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestRankJobsPreferredFirstThenNewest(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	jobs := []entity.Job{
		jobAt("old-plumbing", "Plomería", base),
		jobAt("new-cleaning", "Limpieza", base.Add(3*time.Hour)),
		jobAt("new-plumbing", "Plomería", base.Add(2*time.Hour)),
		jobAt("old-cleaning", "Limpieza", base.Add(time.Hour)),
	}

	ranked := RankJobs(jobs, []string{"Plomería"})
	assert.Equal(t, []string{"new-plumbing", "old-plumbing", "new-cleaning", "old-cleaning"}, ids(ranked))
}

func TestRankJobsNoPreferencesIsPureRecency(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	jobs := []entity.Job{
		jobAt("b", "Limpieza", base.Add(time.Hour)),
		jobAt("a", "Plomería", base.Add(2*time.Hour)),
		jobAt("c", "Electricidad", base),
	}

	for _, prefs := range [][]string{nil, {}} {
		ranked := RankJobs(jobs, prefs)
		assert.Equal(t, []string{"a", "b", "c"}, ids(ranked))
	}
}

func TestRankJobsIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	jobs := []entity.Job{
		jobAt("a", "Plomería", base.Add(time.Hour)),
		jobAt("b", "Limpieza", base.Add(2*time.Hour)),
		jobAt("c", "Plomería", base),
	}

	once := RankJobs(jobs, []string{"Plomería"})
	twice := RankJobs(once, []string{"Plomería"})
	assert.Equal(t, ids(once), ids(twice))
}

func TestRankJobsZeroTimestampSortsOldest(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	jobs := []entity.Job{
		jobAt("missing-ts", "Limpieza", time.Time{}),
		jobAt("dated", "Limpieza", base),
	}

	ranked := RankJobs(jobs, nil)
	assert.Equal(t, []string{"dated", "missing-ts"}, ids(ranked))
}

func TestRankJobsDoesNotModifyInput(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	jobs := []entity.Job{
		jobAt("a", "Plomería", base),
		jobAt("b", "Limpieza", base.Add(time.Hour)),
	}

	_ = RankJobs(jobs, []string{"Plomería"})
	assert.Equal(t, []string{"a", "b"}, ids(jobs))
}
