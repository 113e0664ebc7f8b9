package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinuteOfDay is a time of day expressed as minutes since midnight.
// All slot arithmetic is integer math on this type, so there is no
// rounding ambiguity and no timezone component.
type MinuteOfDay int

// ParseMinuteOfDay accepts "HH:MM" or "HH:MM:SS" (seconds are dropped).
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}

	return MinuteOfDay(h*60 + m), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func (m MinuteOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *MinuteOfDay) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	v, err := ParseMinuteOfDay(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// SchedulingPeriod is one continuous span during which a doctor accepts
// appointments. A doctor may own several, overlapping or not; the store
// does not guarantee non-overlap.
type SchedulingPeriod struct {
	ID          int64
	DoctorID    int64
	StartDate   time.Time // calendar date, midnight UTC
	EndDate     time.Time // inclusive
	SlotMinutes int       // appointment duration; <= 0 means unusable data
	Active      bool
}

// Contains reports whether the calendar date falls inside [StartDate, EndDate].
func (p SchedulingPeriod) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// WorkingBlock is a recurring weekly interval within a period during which
// the doctor is available. Weekday is coded in one of two conventions,
// ISO Monday=0 or platform Sunday=0; stored data mixes both.
type WorkingBlock struct {
	ID        int64
	PeriodID  int64
	Weekday   int
	StartTime MinuteOfDay
	EndTime   MinuteOfDay
}

// DateOnly normalizes a timestamp to its calendar date at midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
