package notification

import "context"

// Notifier delivers a plain-text run report to an external channel.
type Notifier interface {
	SendNotification(ctx context.Context, message string) error
}
