package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/treesum-dev/treesum/internal/stats"
)

// FormatBytes returns a human-readable byte count (IEC units).
func FormatBytes(b int64) string {
	if b < 0 {
		b = 0
	}
	return humanize.IBytes(uint64(b))
}

// FormatCount formats an integer with comma separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatRate formats a bytes-per-second rate as a human-readable string.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}
	return humanize.IBytes(uint64(bytesPerSec)) + "/s"
}

// FormatETA formats a duration as a human-readable ETA string.
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return "--"
	}
	return FormatDuration(d)
}

// FormatDuration formats elapsed time concisely.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// CompletionSummary renders the final one-line build summary.
func CompletionSummary(s stats.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "hashed %s files (%s) in %s",
		FormatCount(s.FilesHashed), FormatBytes(s.BytesHashed), FormatDuration(s.Elapsed))
	if s.FilesFailed > 0 {
		fmt.Fprintf(&b, ", %s unreadable", FormatCount(s.FilesFailed))
	}
	if s.FilesSkipped > 0 {
		fmt.Fprintf(&b, ", %s skipped", FormatCount(s.FilesSkipped))
	}
	return b.String()
}
