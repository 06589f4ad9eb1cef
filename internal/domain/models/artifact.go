package models

import "time"

// Artifact is a single stored workflow artifact as reported by the inventory source.
type Artifact struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	SizeInBytes int64      `json:"size_in_bytes"`
	CreatedAt   *time.Time `json:"created_at,omitempty"` // nil when the provider did not report it
}

// Stats is a point-in-time snapshot of an artifact set
type Stats struct {
	Count          int     `json:"count"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	TotalSizeGB    float64 `json:"total_size_gb"`
}

// DeletionOutcome records the result of one deletion attempt.
type DeletionOutcome struct {
	Artifact     Artifact `json:"artifact"`
	Succeeded    bool     `json:"succeeded"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// CleanupSummary is the accounting of a finished cleanup run.
//
// FinalSizeBytes is always InitialStats.TotalSizeBytes - FreedBytes.
type CleanupSummary struct {
	InitialStats   Stats             `json:"initial_stats"`
	DeletedCount   int               `json:"deleted_count"`
	FreedBytes     int64             `json:"freed_bytes"`
	FinalSizeBytes int64             `json:"final_size_bytes"`
	Failures       []DeletionOutcome `json:"failures"`
	Retained       []Artifact        `json:"retained"`
}
