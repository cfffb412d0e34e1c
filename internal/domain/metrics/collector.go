package metrics

import "time"

// MetricsCollector records operational metrics of the cleanup service.
type MetricsCollector interface {
	IncComponentsRemoved()
	IncDeleteFailures()
	AddComponentsKept(n int)
	IncRepositoriesSkipped()
	ObserveCleanupDuration(duration time.Duration)
	SetLastCleanupTime(timestamp time.Time)
	IncCleanupErrors()

	IncHttpRequests(path, method string, status int)
	IncHttpTimeout(path, method string)
	IncHttpError(path, method string, status int, errorType string)
}
