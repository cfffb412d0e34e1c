// pkg/helper/message.go
package helper

import (
	"fmt"
	"time"
)

// FormatCleanupMessage formats the cleanup notification message
func FormatCleanupMessage(
	hostInfo string,
	dryRun bool,
	startTime time.Time,
	endTime time.Time,
	duration time.Duration,
	repositories int,
	seen int,
	removed int,
	failed int,
	bytesRemoved int64,
) string {
	mode := "Removal"
	if dryRun {
		mode = "Dry Run"
	}
	return fmt.Sprintf(`🔄 Nexus cleanup completed (%s) on:
%s

⏱ Time Information:
Started: %s
Finished: %s
Duration: %s

📊 Results:
🔹 Repositories scanned: %d
🔹 Components seen: %d
✅ Removed: %d (%s)
⚠️ Failed: %d`,
		mode,
		hostInfo,
		startTime.Format("2006-01-02 15:04:05 MST"),
		endTime.Format("2006-01-02 15:04:05 MST"),
		duration.Round(time.Second),
		repositories,
		seen,
		removed,
		FormatSize(bytesRemoved),
		failed)
}
