package utils

import (
	"strings"
	"time"
)

const DisplayLayout = "02.01.2006 15:04"

// ParseAsOf parses the upstream "time_last_update_utc" value,
// e.g. "Tue, 18 Feb 2025 00:02:31 +0000".
func ParseAsOf(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC1123Z, raw)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC1123, raw)
}

// FormatAsOf renders an as-of timestamp in loc. Blank input gives "" and
// input that does not parse is returned unchanged.
func FormatAsOf(raw string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	t, err := ParseAsOf(raw)
	if err != nil {
		return raw
	}

	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayLayout)
}
