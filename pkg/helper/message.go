// pkg/helper/message.go
package helper

import (
	"fmt"
	"time"
)

// CleanupMessage carries the fields rendered into the run notification.
type CleanupMessage struct {
	Repository   string
	DryRun       bool
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	TimeZone     string
	WasOverLimit bool
	LimitGB      string
	InitialCount int
	InitialGB    string
	Deleted      int
	FreedGB      string
	FinalGB      string
	Failed       int
}

// FormatCleanupMessage formats the cleanup notification message with emojis
func FormatCleanupMessage(m CleanupMessage) string {
	mode := ""
	if m.DryRun {
		mode = " (dry run)"
	}

	return fmt.Sprintf(`🔄 Artifact cleanup completed%s on:
%s

⏱ Time Information:
Started: %s
Finished: %s
Duration: %s

📊 Results:
🔹 Artifacts: %d (%s GB, limit %s GB, over limit: %t)
✅ Deleted: %d
💾 Freed: %s GB
📦 Final size: %s GB
⚠️ Failed: %d`,
		mode,
		m.Repository,
		FormatTimestamp(m.StartTime, m.TimeZone),
		FormatTimestamp(m.EndTime, m.TimeZone),
		m.Duration.Round(time.Second),
		m.InitialCount,
		m.InitialGB,
		m.LimitGB,
		m.WasOverLimit,
		m.Deleted,
		m.FreedGB,
		m.FinalGB,
		m.Failed)
}
