package eviction

import (
	"testing"
	"time"

	"go-artifact-cleanup/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummary(t *testing.T) {
	a1 := models.Artifact{ID: 1, Name: "a1", SizeInBytes: 100}
	a2 := models.Artifact{ID: 2, Name: "a2", SizeInBytes: 100}
	initial := models.Stats{Count: 2, TotalSizeBytes: 200, TotalSizeGB: ToGB(200)}

	outcomes := []models.DeletionOutcome{
		{Artifact: a1, Succeeded: true},
		{Artifact: a2, Succeeded: false, ErrorMessage: "forbidden"},
	}
	retained := []models.Artifact{a2}

	summary := BuildSummary(initial, outcomes, retained)

	assert.Equal(t, initial, summary.InitialStats)
	assert.Equal(t, 1, summary.DeletedCount)
	assert.Equal(t, int64(100), summary.FreedBytes)
	assert.Equal(t, int64(100), summary.FinalSizeBytes)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, int64(2), summary.Failures[0].Artifact.ID)
	assert.Equal(t, "forbidden", summary.Failures[0].ErrorMessage)
	assert.Equal(t, retained, summary.Retained)
}

func TestBuildSummaryKeepsFailureOrder(t *testing.T) {
	outcomes := []models.DeletionOutcome{
		{Artifact: models.Artifact{ID: 4, SizeInBytes: 1}, ErrorMessage: "a"},
		{Artifact: models.Artifact{ID: 2, SizeInBytes: 5}, Succeeded: true},
		{Artifact: models.Artifact{ID: 9, SizeInBytes: 1}, ErrorMessage: "b"},
		{Artifact: models.Artifact{ID: 1, SizeInBytes: 1}, ErrorMessage: "c"},
	}

	summary := BuildSummary(models.Stats{Count: 4, TotalSizeBytes: 8}, outcomes, nil)

	assert.Equal(t, []int64{4, 9, 1}, []int64{
		summary.Failures[0].Artifact.ID,
		summary.Failures[1].Artifact.ID,
		summary.Failures[2].Artifact.ID,
	})
	assert.Equal(t, int64(3), summary.FinalSizeBytes)
}

func TestBuildSummaryNoOutcomes(t *testing.T) {
	initial := models.Stats{Count: 1, TotalSizeBytes: 42}
	summary := BuildSummary(initial, nil, []models.Artifact{{ID: 1, SizeInBytes: 42}})

	assert.Equal(t, 0, summary.DeletedCount)
	assert.Equal(t, int64(0), summary.FreedBytes)
	assert.Equal(t, int64(42), summary.FinalSizeBytes)
	assert.NotNil(t, summary.Failures)
	assert.Empty(t, summary.Failures)
}

func TestPartitionRetained(t *testing.T) {
	original := []models.Artifact{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	outcomes := []models.DeletionOutcome{
		{Artifact: models.Artifact{ID: 1}, Succeeded: true},
		{Artifact: models.Artifact{ID: 3}, Succeeded: false, ErrorMessage: "boom"},
	}

	retained := PartitionRetained(original, outcomes)

	assert.Equal(t, []int64{2, 3, 4}, ids(retained))
}

func TestVerifyPartition(t *testing.T) {
	original := []models.Artifact{{ID: 1}, {ID: 2}, {ID: 3}}
	outcomes := []models.DeletionOutcome{
		{Artifact: models.Artifact{ID: 1}, Succeeded: true},
		{Artifact: models.Artifact{ID: 2}, ErrorMessage: "nope"},
	}

	tests := []struct {
		name     string
		retained []models.Artifact
		outcomes []models.DeletionOutcome
		wantErr  bool
	}{
		{name: "valid partition", retained: []models.Artifact{{ID: 2}, {ID: 3}}, outcomes: outcomes},
		{name: "missing artifact", retained: []models.Artifact{{ID: 2}}, outcomes: outcomes, wantErr: true},
		{name: "deleted and retained", retained: []models.Artifact{{ID: 1}, {ID: 2}, {ID: 3}}, outcomes: outcomes, wantErr: true},
		{name: "retained twice", retained: []models.Artifact{{ID: 2}, {ID: 2}, {ID: 3}}, outcomes: outcomes, wantErr: true},
		{name: "unknown artifact", retained: []models.Artifact{{ID: 2}, {ID: 3}, {ID: 8}}, outcomes: outcomes, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPartition(original, models.CleanupSummary{Retained: tt.retained}, tt.outcomes)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPartitionMismatch)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// Jan/Feb/Mar artifacts of 100 bytes, limit 250: only the January artifact goes.
func TestEvictionPipeline(t *testing.T) {
	jan := models.Artifact{ID: 1, Name: "jan", SizeInBytes: 100, CreatedAt: at(2024, time.January, 15)}
	feb := models.Artifact{ID: 2, Name: "feb", SizeInBytes: 100, CreatedAt: at(2024, time.February, 15)}
	mar := models.Artifact{ID: 3, Name: "mar", SizeInBytes: 100, CreatedAt: at(2024, time.March, 15)}
	inventory := []models.Artifact{mar, jan, feb}

	sel, err := Plan(inventory, 250)
	require.NoError(t, err)
	require.Equal(t, []models.Artifact{jan}, sel.ToDelete)

	outcomes := []models.DeletionOutcome{{Artifact: jan, Succeeded: true}}
	retained := PartitionRetained(inventory, outcomes)
	summary := BuildSummary(sel.Stats, outcomes, retained)

	assert.Equal(t, 1, summary.DeletedCount)
	assert.Equal(t, int64(100), summary.FreedBytes)
	assert.Equal(t, int64(200), summary.FinalSizeBytes)
	assert.ElementsMatch(t, []models.Artifact{feb, mar}, summary.Retained)
	assert.NoError(t, VerifyPartition(inventory, summary, outcomes))
}
