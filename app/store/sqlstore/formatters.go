package sqlstore

import "time"

// timeLayout has a fixed width so that stored timestamps sort as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimeForDB formats a time for storage, always in UTC
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTimeFromDB parses a stored timestamp
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
