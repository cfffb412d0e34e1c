package constants

import "time"

const (
	ServiceName     = "nexus-cleanup"
	ConfigPath      = "/etc/nexus-cleanup/.env"
	DefaultLogPath  = "/var/log/nexus-cleanup"
	DefaultDBPath   = "/var/lib/nexus-cleanup/results.db"
	APIVersion      = "v1"
	ShutdownTimeout = 5 * time.Second
	CleanupTimeout  = 2 * time.Hour
)
