package models

import "time"

// TimeLayout is the stored timestamp format: UTC, millisecond precision,
// fixed width so that lexical order matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
