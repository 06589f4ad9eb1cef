package models

import "time"

// RunReport wraps a CleanupSummary with the context of the run that produced it.
type RunReport struct {
	ID           string         `json:"id"`
	Repository   string         `json:"repository"`
	DryRun       bool           `json:"dry_run"`
	WasOverLimit bool           `json:"was_over_limit"`
	LimitBytes   int64          `json:"limit_bytes"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	Duration     time.Duration  `json:"duration"`
	Deleted      []Artifact     `json:"deleted"`
	Summary      CleanupSummary `json:"summary"`
}
