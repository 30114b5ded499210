package application

import (
	"sort"

	"github.com/chambanica/chambanica-api/internal/domain/entity"
)

// RankJobs orders a feed for a viewer: jobs in one of the viewer's preferred
// categories come first, then everything else; within each partition newest
// first. The sort is stable, so equal timestamps keep their incoming order,
// and ranking an already-ranked slice is a no-op. A zero CreatedAt (missing
// or unparseable in the store) sorts as older than any real timestamp.
//
// The input slice is not modified.
func RankJobs(jobs []entity.Job, preferred []string) []entity.Job {
	out := make([]entity.Job, len(jobs))
	copy(out, jobs)

	prefSet := make(map[string]bool, len(preferred))
	for _, c := range preferred {
		prefSet[c] = true
	}

	sort.SliceStable(out, func(i, j int) bool {
		if len(prefSet) > 0 {
			pi, pj := prefSet[out[i].Category], prefSet[out[j].Category]
			if pi != pj {
				return pi
			}
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
