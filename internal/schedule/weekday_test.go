package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveWeekday_FullCycle(t *testing.T) {
	// 2025-06-01 is a Sunday
	sunday := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		offset       int
		name         string
		wantPrimary  int
		wantFallback int
	}{
		{0, "Sunday", 6, 0},
		{1, "Monday", 0, 1},
		{2, "Tuesday", 1, 2},
		{3, "Wednesday", 2, 3},
		{4, "Thursday", 3, 4},
		{5, "Friday", 4, 5},
		{6, "Saturday", 5, 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			primary, fallback := ResolveWeekday(sunday.AddDate(0, 0, tc.offset))
			assert.Equal(t, tc.wantPrimary, primary)
			assert.Equal(t, tc.wantFallback, fallback)
		})
	}
}

func TestResolveWeekday_ConventionRelation(t *testing.T) {
	// primary must always equal (fallback+6) mod 7, over any 7-day window
	start := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		primary, fallback := ResolveWeekday(d)
		assert.Equal(t, (fallback+6)%7, primary)
		assert.Equal(t, int(d.Weekday()), fallback)
	}
}
