package notification

// Notifier delivers a human-readable message about a finished cleanup run.
type Notifier interface {
	SendNotification(message string) error
}
