package schedule

import "time"

// ResolveWeekday converts a calendar date into the two weekday codings found
// in stored working blocks. The primary index is ISO style, Monday=0 through
// Sunday=6. The fallback index is the platform convention, Sunday=0 through
// Saturday=6, kept because historical rows were written in either coding.
func ResolveWeekday(date time.Time) (primary, fallback int) {
	fallback = int(date.Weekday())
	primary = (fallback + 6) % 7
	return primary, fallback
}
