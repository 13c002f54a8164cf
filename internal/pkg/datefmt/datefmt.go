package datefmt

import (
	"fmt"
	"time"
)

const (
	DateLayout     = "Jan 02, 2006"
	DateTimeLayout = "Jan 02, 2006 15:04"
	TimeLayout     = "15:04"
	InputLayout    = "2006-01-02"

	// Missing is rendered for absent or unparsable values.
	Missing = "-"
)

func format(t time.Time, layout string) string {
	if t.IsZero() {
		return Missing
	}
	return t.Local().Format(layout)
}

func Date(t time.Time) string     { return format(t, DateLayout) }
func DateTime(t time.Time) string { return format(t, DateTimeLayout) }
func Time(t time.Time) string     { return format(t, TimeLayout) }

// OptionalTime formats a nullable timestamp as a time of day.
func OptionalTime(t *time.Time) string {
	if t == nil {
		return Missing
	}
	return Time(*t)
}

// Duration renders d as hours and minutes, or Missing when d is not positive.
func Duration(d time.Duration) string {
	if d <= 0 {
		return Missing
	}
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
}

// ISO reformats an RFC 3339 string with layout, or returns Missing when it does not parse.
func ISO(s, layout string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Missing
	}
	return format(t, layout)
}

// Today is now's local date as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.Local().Format(InputLayout)
}
