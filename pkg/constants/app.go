package constants

import "time"

const (
	ServiceName     = "artifact-cleanup"
	ConfigPath      = "/etc/artifact-cleanup/.env"
	APIVersion      = "v1"
	ShutdownTimeout = 60 * time.Second
	CleanupTimeout  = 30 * time.Minute

	DefaultDeleteConcurrency = 5
	DefaultHistoryPageSize   = 20
	MaxHistoryPageSize       = 100
)
