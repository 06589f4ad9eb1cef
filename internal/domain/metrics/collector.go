package metrics

import "time"

type MetricsCollector interface {
	AddArtifactsDeleted(count int)
	AddDeleteFailures(count int)
	AddBytesFreed(bytes int64)
	SetStorageUsage(bytes, limit int64)
	ObserveCleanupDuration(duration time.Duration)
	SetLastCleanupTime(timestamp time.Time)
	IncCleanupErrors()

	IncHttpRequests(path, method string, status int)
	IncHttpTimeout(path, method string)
	IncHttpError(path, method string, status int, errorType string)
}
