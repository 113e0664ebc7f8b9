package schedule

import (
	"context"
	"errors"
	"time"
)

var ErrPeriodNotFound = errors.New("scheduling period not found")

// Repository contains the read-only schedule queries needed by the engine.
// Implementations must return ErrPeriodNotFound for empty single-row lookups;
// any other error is treated as an infrastructure failure and propagated.
type Repository interface {
	// FindPeriodContaining returns the doctor's active period whose date range
	// contains the given date, preferring the most recent end date.
	FindPeriodContaining(ctx context.Context, doctorID int64, date time.Time) (*SchedulingPeriod, error)

	// FindLatestPeriod returns the doctor's most recent active period
	// regardless of date containment.
	FindLatestPeriod(ctx context.Context, doctorID int64) (*SchedulingPeriod, error)

	// FindLatestPeriodWithBlocks returns the doctor's most recent active
	// period that has at least one working block.
	FindLatestPeriodWithBlocks(ctx context.Context, doctorID int64) (*SchedulingPeriod, error)

	// FindLatestPeriodAny returns the doctor's most recent period including
	// inactive ones. Used as the last resort when resolving durations.
	FindLatestPeriodAny(ctx context.Context, doctorID int64) (*SchedulingPeriod, error)

	// FindWorkingBlocks returns the period's blocks for one weekday code,
	// ordered by start time ascending. An empty slice is a valid result.
	FindWorkingBlocks(ctx context.Context, periodID int64, weekday int) ([]WorkingBlock, error)

	// FindBlockWeekdays returns the distinct weekday codes present among the
	// period's working blocks.
	FindBlockWeekdays(ctx context.Context, periodID int64) ([]int, error)

	// FindPeriodsOverlapping returns the doctor's active periods overlapping
	// [from, to], ordered by start date ascending.
	FindPeriodsOverlapping(ctx context.Context, doctorID int64, from, to time.Time) ([]SchedulingPeriod, error)
}
