package request

import (
	"fmt"
	"time"
)

// FormatAge renders a request timestamp as a relative age label for the staff
// dashboard. Pure: depends only on the two instants. A future timestamp
// (clock skew) clamps to "just now" rather than producing a negative count.
func FormatAge(ts, now time.Time) string {
	elapsed := now.Sub(ts)
	if elapsed < 0 {
		elapsed = 0
	}

	secs := int(elapsed / time.Second)
	switch {
	case secs < 10:
		return "just now"
	case secs < 60:
		return fmt.Sprintf("%d secs ago", secs)
	case secs < 3600:
		return fmt.Sprintf("%d mins ago", secs/60)
	default:
		hrs := secs / 3600
		if hrs == 1 {
			return "1 hr ago"
		}
		return fmt.Sprintf("%d hrs ago", hrs)
	}
}
