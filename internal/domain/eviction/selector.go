package eviction

import (
	"sort"
	"time"

	"go-artifact-cleanup/internal/domain/models"
)

var epoch = time.Unix(0, 0).UTC()

func createdOrEpoch(createdAt *time.Time) time.Time {
	if createdAt == nil {
		return epoch
	}
	return *createdAt
}

// SortByCreatedDate returns a copy of artifacts ordered oldest first.
// Artifacts without a creation time sort as if created at the Unix epoch.
// Equal timestamps keep their input order.
func SortByCreatedDate(artifacts []models.Artifact) []models.Artifact {
	sorted := make([]models.Artifact, len(artifacts))
	copy(sorted, artifacts)

	sort.SliceStable(sorted, func(i, j int) bool {
		return createdOrEpoch(sorted[i].CreatedAt).Before(createdOrEpoch(sorted[j].CreatedAt))
	})
	return sorted
}

// AgeInDays returns the floor of the days elapsed between createdAt and now.
// A createdAt after now gives a negative age.
func AgeInDays(createdAt *time.Time, now time.Time) int {
	const day = 24 * time.Hour
	elapsed := now.Sub(createdOrEpoch(createdAt))
	days := elapsed / day
	if elapsed%day < 0 {
		days--
	}
	return int(days)
}

// SelectToDelete picks the oldest artifacts whose removal brings currentSize
// down to limit or below. Selection is by age only: it stops as soon as the
// remaining size fits, without looking for a smaller or cheaper set.
func SelectToDelete(artifacts []models.Artifact, currentSize, limit int64) []models.Artifact {
	if !IsOverLimit(currentSize, limit) {
		return []models.Artifact{}
	}

	selected := make([]models.Artifact, 0)
	remaining := currentSize
	for _, a := range SortByCreatedDate(artifacts) {
		if remaining <= limit {
			break
		}
		selected = append(selected, a)
		remaining -= a.SizeInBytes
	}
	return selected
}

// Selection is the eviction decision for one inventory snapshot.
type Selection struct {
	Stats        models.Stats
	LimitBytes   int64
	WasOverLimit bool
	ToDelete     []models.Artifact
}

// Plan computes the stats, over-limit flag and deletion candidates for artifacts.
// It returns ErrInconsistentSelection when an id repeats or when usage is over
// the limit but nothing could be selected.
func Plan(artifacts []models.Artifact, limit int64) (Selection, error) {
	seen := make(map[int64]struct{}, len(artifacts))
	for _, a := range artifacts {
		if _, dup := seen[a.ID]; dup {
			return Selection{LimitBytes: limit, ToDelete: []models.Artifact{}}, &DuplicateArtifactError{ID: a.ID}
		}
		seen[a.ID] = struct{}{}
	}

	stats := ComputeStats(artifacts)
	sel := Selection{
		Stats:        stats,
		LimitBytes:   limit,
		WasOverLimit: IsOverLimit(stats.TotalSizeBytes, limit),
		ToDelete:     []models.Artifact{},
	}
	if !sel.WasOverLimit {
		return sel, nil
	}

	sel.ToDelete = SelectToDelete(artifacts, stats.TotalSizeBytes, limit)
	if len(sel.ToDelete) == 0 {
		return sel, &ConsistencyError{
			Count:      stats.Count,
			TotalBytes: stats.TotalSizeBytes,
			LimitBytes: limit,
		}
	}
	return sel, nil
}
