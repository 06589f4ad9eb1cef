package eviction

import (
	"fmt"

	"go-artifact-cleanup/internal/domain/models"
)

// BuildSummary folds deletion outcomes into a CleanupSummary. Failures keep the
// order in which they appear in outcomes; retained is passed through untouched.
func BuildSummary(initial models.Stats, outcomes []models.DeletionOutcome, retained []models.Artifact) models.CleanupSummary {
	var (
		deleted int
		freed   int64
	)
	failures := make([]models.DeletionOutcome, 0)

	for _, o := range outcomes {
		if o.Succeeded {
			deleted++
			freed += o.Artifact.SizeInBytes
			continue
		}
		failures = append(failures, o)
	}

	return models.CleanupSummary{
		InitialStats:   initial,
		DeletedCount:   deleted,
		FreedBytes:     freed,
		FinalSizeBytes: initial.TotalSizeBytes - freed,
		Failures:       failures,
		Retained:       retained,
	}
}

// PartitionRetained returns the artifacts of original that were not successfully
// deleted, in their original order. Selected artifacts whose deletion failed are retained.
func PartitionRetained(original []models.Artifact, outcomes []models.DeletionOutcome) []models.Artifact {
	deleted := make(map[int64]struct{}, len(outcomes))
	for _, o := range outcomes {
		if o.Succeeded {
			deleted[o.Artifact.ID] = struct{}{}
		}
	}

	retained := make([]models.Artifact, 0, len(original))
	for _, a := range original {
		if _, ok := deleted[a.ID]; !ok {
			retained = append(retained, a)
		}
	}
	return retained
}

// VerifyPartition checks that the retained artifacts of summary and the
// successful outcomes are disjoint and together cover exactly original.
func VerifyPartition(original []models.Artifact, summary models.CleanupSummary, outcomes []models.DeletionOutcome) error {
	seen := make(map[int64]string, len(original))

	for _, a := range summary.Retained {
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: artifact %d retained twice", ErrPartitionMismatch, a.ID)
		}
		seen[a.ID] = "retained"
	}
	for _, o := range outcomes {
		if !o.Succeeded {
			continue
		}
		if where, dup := seen[o.Artifact.ID]; dup {
			return fmt.Errorf("%w: artifact %d deleted but also %s", ErrPartitionMismatch, o.Artifact.ID, where)
		}
		seen[o.Artifact.ID] = "deleted"
	}

	if len(seen) != len(original) {
		return fmt.Errorf("%w: %d accounted for, %d in inventory", ErrPartitionMismatch, len(seen), len(original))
	}
	for _, a := range original {
		if _, ok := seen[a.ID]; !ok {
			return fmt.Errorf("%w: artifact %d is unaccounted for", ErrPartitionMismatch, a.ID)
		}
	}
	return nil
}
