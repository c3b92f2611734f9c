// Package formatters renders sizes and durations for console and terminal output.
package formatters

import (
	"fmt"
	"time"
)

const unit = 1024

// FormatBytes renders a byte count with a binary unit, e.g. "12 B" or "1.5 KiB".
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + FormatBytes(-bytes)
	}

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration renders a duration rounded for display: milliseconds below a
// second, tenths of a second below a minute, and whole seconds above.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

// FormatCount renders n followed by singular or singular+"s".
func FormatCount(n int, singular string) string {
	if n == 1 {
		return "1 " + singular
	}

	return fmt.Sprintf("%d %ss", n, singular)
}
