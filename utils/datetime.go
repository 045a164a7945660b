package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate renders a stored date in the long en-US form,
// e.g. 2024-06-01 -> "Saturday, June 1, 2024". Display only.
func FormatDate(date time.Time) string {
	return date.Format("Monday, January 2, 2006")
}

// FormatTime converts a stored HH:MM[:SS] value to a 12-hour clock,
// e.g. "19:30:00" -> "7:30 PM". Seconds are ignored. Anything else is an
// error so corrupted rows are not silently shown as midnight.
func FormatTime(value string) (string, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("format time %q: expected HH:MM[:SS]", value)
	}

	layout := "15:04"
	if len(parts) == 3 {
		layout = "15:04:05"
		// fractional seconds are dropped along with the seconds
		if sec, _, found := strings.Cut(parts[2], "."); found {
			value = parts[0] + ":" + parts[1] + ":" + sec
		}
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return "", fmt.Errorf("format time %q: %w", value, err)
	}
	return t.Format("3:04 PM"), nil
}
