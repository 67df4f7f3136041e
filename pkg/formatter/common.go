package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// printTimestamp prints the run timestamp and duration
func printTimestamp(w io.Writer, startedAt time.Time, duration time.Duration) {
	fmt.Fprintf(w, "Run time: %s (completed in %.2f seconds)\n",
		startedAt.Format("2006-01-02 15:04:05"),
		duration.Seconds())
}

// launchedAgo renders a launch time relative to now, e.g. "3 days ago"
func launchedAgo(unknown bool, launched time.Time) string {
	if unknown {
		return "Unknown"
	}
	return humanize.Time(launched)
}
