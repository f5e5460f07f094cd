package schedule

import (
	"fmt"
	"time"
)

// FormatDuration renders whole minutes the way the dashboard shows them,
// e.g. "45min", "1h", "1h05min". Anything under a minute is "<1min".
func FormatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes < 1 {
		return "<1min"
	}
	hours, minutes := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dmin", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh%02dmin", hours, minutes)
	}
}
