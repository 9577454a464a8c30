package helpers

import (
	"fmt"
	"time"
)

// TimeRemaining formats $d using its two largest units: "2d 3h", "4h 12m" or "35m".
// Negative durations are treated as zero.
func TimeRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	minutes := int(d / time.Minute)
	days := minutes / (24 * 60)
	hours := (minutes / 60) % 24
	minutes %= 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
