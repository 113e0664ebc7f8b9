package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	msgNoSchedule     = "no active schedule found for this doctor"
	msgBadDuration    = "appointment duration on the schedule is invalid"
	msgNoWorkingBlock = "no working block registered for this doctor on this day"
	msgNoRangePeriods = "no active schedule found in the requested range"
)

// Engine computes bookable slots from scheduling periods and working blocks.
// It is a side-effect-free read pipeline; "no availability" outcomes are
// successful results carrying a message, never errors. Only repository
// failures propagate as errors.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// DayAvailability is the result of SlotsForDate. WeekdayUsed is the weekday
// code that actually matched working blocks (-1 when no period was found).
type DayAvailability struct {
	DoctorID        int64
	Date            time.Time
	DurationMinutes int
	WeekdayUsed     int
	Period          *SchedulingPeriod
	Slots           []MinuteOfDay
	Message         string
}

// SlotsForDate resolves which discrete start times are schedulable for the
// doctor on the given date. The lookup cascade is, in order: period
// containing the date, most recent active period, primary weekday coding,
// fallback weekday coding, and finally any other active period that has
// working blocks at all. Booked appointments are not filtered here; that is
// the booking ledger's concern at confirmation time.
func (e *Engine) SlotsForDate(ctx context.Context, doctorID int64, date time.Time) (*DayAvailability, error) {
	date = DateOnly(date)
	result := &DayAvailability{DoctorID: doctorID, Date: date, WeekdayUsed: -1}

	period, err := e.repo.FindPeriodContaining(ctx, doctorID, date)
	if errors.Is(err, ErrPeriodNotFound) {
		period, err = e.repo.FindLatestPeriod(ctx, doctorID)
	}
	if err != nil {
		if errors.Is(err, ErrPeriodNotFound) {
			result.Message = msgNoSchedule
			return result, nil
		}
		return nil, fmt.Errorf("find scheduling period: %w", err)
	}

	result.Period = period
	result.DurationMinutes = period.SlotMinutes
	if period.SlotMinutes <= 0 {
		result.DurationMinutes = 0
		result.Message = msgBadDuration
		return result, nil
	}

	primary, fallback := ResolveWeekday(date)

	blocks, used, err := e.blocksForDay(ctx, period.ID, primary, fallback)
	if err != nil {
		return nil, err
	}

	// No block under either coding: look for another active period of the
	// same doctor that has blocks at all and repeat the weekday lookup there.
	if len(blocks) == 0 {
		alt, err := e.repo.FindLatestPeriodWithBlocks(ctx, doctorID)
		if err != nil && !errors.Is(err, ErrPeriodNotFound) {
			return nil, fmt.Errorf("find alternate period: %w", err)
		}
		if alt != nil {
			result.Period = alt
			result.DurationMinutes = alt.SlotMinutes

			blocks, used, err = e.blocksForDay(ctx, alt.ID, primary, fallback)
			if err != nil {
				return nil, err
			}
		}
	}

	result.WeekdayUsed = used
	if len(blocks) == 0 {
		result.Message = msgNoWorkingBlock
		return result, nil
	}

	for _, b := range blocks {
		result.Slots = append(result.Slots, GenerateSlots(b, result.DurationMinutes)...)
	}

	return result, nil
}

// blocksForDay tries the primary weekday coding first and retries with the
// fallback coding when the primary yields nothing. It reports which coding
// was queried last.
func (e *Engine) blocksForDay(ctx context.Context, periodID int64, primary, fallback int) ([]WorkingBlock, int, error) {
	blocks, err := e.repo.FindWorkingBlocks(ctx, periodID, primary)
	if err != nil {
		return nil, primary, fmt.Errorf("find working blocks: %w", err)
	}
	if len(blocks) > 0 {
		return blocks, primary, nil
	}

	blocks, err = e.repo.FindWorkingBlocks(ctx, periodID, fallback)
	if err != nil {
		return nil, fallback, fmt.Errorf("find working blocks: %w", err)
	}
	return blocks, fallback, nil
}

// DateRangeAvailability is the result of AvailableDates. Dates is sorted
// ascending and deduplicated.
type DateRangeAvailability struct {
	DoctorID int64
	From     time.Time
	To       time.Time
	Dates    []string
	Message  string
}

// AvailableDates returns the calendar dates in [from, to] on which the doctor
// has at least one working block, through any of their active periods. A date
// is admitted when either weekday coding of that date appears among a
// period's block weekdays.
func (e *Engine) AvailableDates(ctx context.Context, doctorID int64, from, to time.Time) (*DateRangeAvailability, error) {
	from, to = DateOnly(from), DateOnly(to)
	result := &DateRangeAvailability{DoctorID: doctorID, From: from, To: to}

	periods, err := e.repo.FindPeriodsOverlapping(ctx, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("find overlapping periods: %w", err)
	}
	if len(periods) == 0 {
		result.Message = msgNoRangePeriods
		return result, nil
	}

	seen := make(map[string]struct{})

	for _, p := range periods {
		weekdays, err := e.repo.FindBlockWeekdays(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("find block weekdays: %w", err)
		}
		if len(weekdays) == 0 {
			continue
		}

		codes := make(map[int]struct{}, len(weekdays))
		for _, w := range weekdays {
			codes[w] = struct{}{}
		}

		// Clip the period's own range to the requested window.
		rangeFrom, rangeTo := DateOnly(p.StartDate), DateOnly(p.EndDate)
		if from.After(rangeFrom) {
			rangeFrom = from
		}
		if to.Before(rangeTo) {
			rangeTo = to
		}
		if rangeFrom.After(rangeTo) {
			continue
		}

		for d := rangeFrom; !d.After(rangeTo); d = d.AddDate(0, 0, 1) {
			primary, fallback := ResolveWeekday(d)
			if _, ok := codes[primary]; ok {
				seen[FormatDate(d)] = struct{}{}
				continue
			}
			if _, ok := codes[fallback]; ok {
				seen[FormatDate(d)] = struct{}{}
			}
		}
	}

	result.Dates = make([]string, 0, len(seen))
	for d := range seen {
		result.Dates = append(result.Dates, d)
	}
	sort.Strings(result.Dates)

	return result, nil
}

// DurationResult carries the resolved appointment duration for a doctor.
type DurationResult struct {
	DoctorID        int64
	DurationMinutes int
	Period          *SchedulingPeriod
	Message         string
}

// AppointmentDuration resolves the appointment length for a doctor around a
// date: the active period containing the date wins, then the most recent
// active period, then the most recent period of any status.
func (e *Engine) AppointmentDuration(ctx context.Context, doctorID int64, date time.Time) (*DurationResult, error) {
	result := &DurationResult{DoctorID: doctorID}

	period, err := e.repo.FindPeriodContaining(ctx, doctorID, DateOnly(date))
	if errors.Is(err, ErrPeriodNotFound) {
		period, err = e.repo.FindLatestPeriod(ctx, doctorID)
	}
	if errors.Is(err, ErrPeriodNotFound) {
		period, err = e.repo.FindLatestPeriodAny(ctx, doctorID)
	}
	if err != nil {
		if errors.Is(err, ErrPeriodNotFound) {
			result.Message = msgNoSchedule
			return result, nil
		}
		return nil, fmt.Errorf("find scheduling period: %w", err)
	}

	result.Period = period
	result.DurationMinutes = period.SlotMinutes
	return result, nil
}
