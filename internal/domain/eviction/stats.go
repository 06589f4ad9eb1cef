package eviction

import (
	"fmt"
	"math"

	"go-artifact-cleanup/internal/domain/models"
)

// BytesPerGB is the binary gigabyte used for every size limit.
const BytesPerGB = 1 << 30

// TotalSize sums the size of all artifacts.
func TotalSize(artifacts []models.Artifact) int64 {
	var total int64
	for _, a := range artifacts {
		total += a.SizeInBytes
	}
	return total
}

// ComputeStats returns count and size of the given set.
func ComputeStats(artifacts []models.Artifact) models.Stats {
	total := TotalSize(artifacts)
	return models.Stats{
		Count:          len(artifacts),
		TotalSizeBytes: total,
		TotalSizeGB:    ToGB(total),
	}
}

func ToGB(bytes int64) float64 {
	return float64(bytes) / BytesPerGB
}

// GBToBytes converts a configured limit in GB to bytes, truncating fractional
// bytes. Limits too large for an int64 saturate at math.MaxInt64.
func GBToBytes(gb float64) int64 {
	bytes := gb * BytesPerGB
	if bytes >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(bytes)
}

// MaxGB is the largest limit GBToBytes represents exactly.
const MaxGB = float64(math.MaxInt64) / BytesPerGB

// FormatGB renders a GB value with exactly two decimals.
func FormatGB(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// IsOverLimit reports whether size exceeds limit. A size equal to the limit is within budget.
func IsOverLimit(size, limit int64) bool {
	return size > limit
}
