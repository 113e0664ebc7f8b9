package schedule

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Fake repository --

var errRepoDown = errors.New("repository down")

type fakeScheduleRepo struct {
	periods []SchedulingPeriod
	blocks  map[int64][]WorkingBlock
	down    bool
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{blocks: make(map[int64][]WorkingBlock)}
}

func (f *fakeScheduleRepo) addPeriod(p SchedulingPeriod, blocks ...WorkingBlock) {
	f.periods = append(f.periods, p)
	for i := range blocks {
		blocks[i].PeriodID = p.ID
		f.blocks[p.ID] = append(f.blocks[p.ID], blocks[i])
	}
}

func sortPeriodsLatestFirst(periods []SchedulingPeriod) {
	sort.Slice(periods, func(i, j int) bool {
		if !periods[i].EndDate.Equal(periods[j].EndDate) {
			return periods[i].EndDate.After(periods[j].EndDate)
		}
		return periods[i].StartDate.After(periods[j].StartDate)
	})
}

func (f *fakeScheduleRepo) pickLatest(match func(SchedulingPeriod) bool) (*SchedulingPeriod, error) {
	if f.down {
		return nil, errRepoDown
	}
	var candidates []SchedulingPeriod
	for _, p := range f.periods {
		if match(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrPeriodNotFound
	}
	sortPeriodsLatestFirst(candidates)
	p := candidates[0]
	return &p, nil
}

func (f *fakeScheduleRepo) FindPeriodContaining(_ context.Context, doctorID int64, date time.Time) (*SchedulingPeriod, error) {
	return f.pickLatest(func(p SchedulingPeriod) bool {
		return p.DoctorID == doctorID && p.Active && p.Contains(date)
	})
}

func (f *fakeScheduleRepo) FindLatestPeriod(_ context.Context, doctorID int64) (*SchedulingPeriod, error) {
	return f.pickLatest(func(p SchedulingPeriod) bool {
		return p.DoctorID == doctorID && p.Active
	})
}

func (f *fakeScheduleRepo) FindLatestPeriodWithBlocks(_ context.Context, doctorID int64) (*SchedulingPeriod, error) {
	return f.pickLatest(func(p SchedulingPeriod) bool {
		return p.DoctorID == doctorID && p.Active && len(f.blocks[p.ID]) > 0
	})
}

func (f *fakeScheduleRepo) FindLatestPeriodAny(_ context.Context, doctorID int64) (*SchedulingPeriod, error) {
	return f.pickLatest(func(p SchedulingPeriod) bool {
		return p.DoctorID == doctorID
	})
}

func (f *fakeScheduleRepo) FindWorkingBlocks(_ context.Context, periodID int64, weekday int) ([]WorkingBlock, error) {
	if f.down {
		return nil, errRepoDown
	}
	var result []WorkingBlock
	for _, b := range f.blocks[periodID] {
		if b.Weekday == weekday {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (f *fakeScheduleRepo) FindBlockWeekdays(_ context.Context, periodID int64) ([]int, error) {
	if f.down {
		return nil, errRepoDown
	}
	seen := make(map[int]struct{})
	var result []int
	for _, b := range f.blocks[periodID] {
		if _, ok := seen[b.Weekday]; !ok {
			seen[b.Weekday] = struct{}{}
			result = append(result, b.Weekday)
		}
	}
	sort.Ints(result)
	return result, nil
}

func (f *fakeScheduleRepo) FindPeriodsOverlapping(_ context.Context, doctorID int64, from, to time.Time) ([]SchedulingPeriod, error) {
	if f.down {
		return nil, errRepoDown
	}
	var result []SchedulingPeriod
	for _, p := range f.periods {
		if p.DoctorID == doctorID && p.Active &&
			!DateOnly(p.StartDate).After(DateOnly(to)) &&
			!DateOnly(p.EndDate).Before(DateOnly(from)) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result, nil
}

// -- Helpers --

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func slotStrings(slots []MinuteOfDay) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return out
}

// -- SlotsForDate --

func TestSlotsForDate_MondayBlock(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-12-31"), SlotMinutes: 30, Active: true},
		WorkingBlock{ID: 10, Weekday: 0, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "09:00")},
	)
	engine := NewEngine(repo)

	// 2025-06-02 is a Monday
	res, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-02"))

	require.NoError(t, err)
	assert.Empty(t, res.Message)
	assert.Equal(t, 30, res.DurationMinutes)
	assert.Equal(t, 0, res.WeekdayUsed)
	require.NotNil(t, res.Period)
	assert.Equal(t, int64(1), res.Period.ID)
	assert.Equal(t, []string{"08:00", "08:30"}, slotStrings(res.Slots))
}

func TestSlotsForDate_FallbackWeekdayCoding(t *testing.T) {
	repo := newFakeScheduleRepo()
	// Block registered under the platform Sunday=0 coding: Monday is 1 there.
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-12-31"), SlotMinutes: 30, Active: true},
		WorkingBlock{ID: 10, Weekday: 1, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "09:00")},
	)
	engine := NewEngine(repo)

	res, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-02"))

	require.NoError(t, err)
	assert.Equal(t, 1, res.WeekdayUsed)
	assert.Equal(t, []string{"08:00", "08:30"}, slotStrings(res.Slots))
}

func TestSlotsForDate_NoPeriods(t *testing.T) {
	engine := NewEngine(newFakeScheduleRepo())

	res, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-02"))

	require.NoError(t, err, "missing schedule is a business outcome, not a failure")
	assert.Empty(t, res.Slots)
	assert.NotEmpty(t, res.Message)
	assert.Nil(t, res.Period)
	assert.Equal(t, -1, res.WeekdayUsed)
}

func TestSlotsForDate_ContainmentBeatsLatest(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-05-01"), SlotMinutes: 60, Active: true},
		WorkingBlock{ID: 10, Weekday: 1, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "12:00")},
	)
	repo.addPeriod(
		SchedulingPeriod{ID: 2, DoctorID: 7, StartDate: date(t, "2025-05-02"), EndDate: date(t, "2025-12-31"), SlotMinutes: 30, Active: true},
		WorkingBlock{ID: 20, Weekday: 1, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "09:00")},
	)
	engine := NewEngine(repo)

	// 2025-06-10 is a Tuesday, contained only by the second period
	res, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-10"))

	require.NoError(t, err)
	require.NotNil(t, res.Period)
	assert.Equal(t, int64(2), res.Period.ID)
	assert.Equal(t, 30, res.DurationMinutes)
	assert.Equal(t, []string{"08:00", "08:30"}, slotStrings(res.Slots))
}

func TestSlotsForDate_LatestPeriodFallback(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2024-01-01"), EndDate: date(t, "2024-06-30"), SlotMinutes: 20, Active: true},
		WorkingBlock{ID: 10, Weekday: 0, StartTime: mustMinute(t, "10:00"), EndTime: mustMinute(t, "11:00")},
	)
	repo.addPeriod(
		SchedulingPeriod{ID: 2, DoctorID: 7, StartDate: date(t, "2024-07-01"), EndDate: date(t, "2024-12-31"), SlotMinutes: 15, Active: true},
		WorkingBlock{ID: 20, Weekday: 0, StartTime: mustMinute(t, "10:00"), EndTime: mustMinute(t, "10:45")},
	)
	engine := NewEngine(repo)

	// Query date is after both periods ended: most recent active period wins.
	res, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-02"))

	require.NoError(t, err)
	require.NotNil(t, res.Period)
	assert.Equal(t, int64(2), res.Period.ID)
	assert.Equal(t, []string{"10:00", "10:15", "10:30"}, slotStrings(res.Slots))
}

func TestSlotsForDate_InvalidDuration(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-12-31"), SlotMinutes: 0, Active: true},
		WorkingBlock{ID: 10, Weekday: 0, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "09:00")},
	)
	engine := NewEngine(repo)

	res, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-02"))

	require.NoError(t, err, "bad schedule data is not a system fault")
	assert.Empty(t, res.Slots)
	assert.NotEmpty(t, res.Message)
	assert.Zero(t, res.DurationMinutes)
}

func TestSlotsForDate_AlternatePeriodFallback(t *testing.T) {
	repo := newFakeScheduleRepo()
	// The containing period has no blocks at all.
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-12-31"), SlotMinutes: 30, Active: true},
	)
	// Another active period does, with a different duration.
	repo.addPeriod(
		SchedulingPeriod{ID: 2, DoctorID: 7, StartDate: date(t, "2024-01-01"), EndDate: date(t, "2024-12-31"), SlotMinutes: 20, Active: true},
		WorkingBlock{ID: 20, Weekday: 0, StartTime: mustMinute(t, "09:00"), EndTime: mustMinute(t, "10:00")},
	)
	engine := NewEngine(repo)

	res, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-02"))

	require.NoError(t, err)
	require.NotNil(t, res.Period)
	assert.Equal(t, int64(2), res.Period.ID)
	assert.Equal(t, 20, res.DurationMinutes)
	assert.Equal(t, []string{"09:00", "09:20", "09:40"}, slotStrings(res.Slots))
}

func TestSlotsForDate_NoBlocksAnywhere(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-12-31"), SlotMinutes: 30, Active: true},
	)
	engine := NewEngine(repo)

	res, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-02"))

	require.NoError(t, err)
	assert.Empty(t, res.Slots)
	assert.Equal(t, "no working block registered for this doctor on this day", res.Message)
}

func TestSlotsForDate_MultipleBlocksInStartOrder(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-12-31"), SlotMinutes: 30, Active: true},
		WorkingBlock{ID: 11, Weekday: 0, StartTime: mustMinute(t, "15:00"), EndTime: mustMinute(t, "16:00")},
		WorkingBlock{ID: 10, Weekday: 0, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "09:00")},
	)
	engine := NewEngine(repo)

	res, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-02"))

	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "08:30", "15:00", "15:30"}, slotStrings(res.Slots))
}

func TestSlotsForDate_RepositoryFailurePropagates(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.down = true
	engine := NewEngine(repo)

	_, err := engine.SlotsForDate(context.Background(), 7, date(t, "2025-06-02"))

	require.Error(t, err, "infrastructure failure must not look like empty availability")
	assert.ErrorIs(t, err, errRepoDown)
}

// -- AvailableDates --

func TestAvailableDates_DualConventionAdmission(t *testing.T) {
	repo := newFakeScheduleRepo()
	// Block weekday code 0: Monday under ISO coding, Sunday under platform
	// coding. Both readings must admit their dates.
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-06"), EndDate: date(t, "2025-01-19"), SlotMinutes: 30, Active: true},
		WorkingBlock{ID: 10, Weekday: 0, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "09:00")},
	)
	engine := NewEngine(repo)

	res, err := engine.AvailableDates(context.Background(), 7, date(t, "2025-01-06"), date(t, "2025-01-19"))

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-06", "2025-01-12", "2025-01-13", "2025-01-19"}, res.Dates)
}

func TestAvailableDates_ClipsPeriodToRequestedRange(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-12-31"), SlotMinutes: 30, Active: true},
		WorkingBlock{ID: 10, Weekday: 0, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "09:00")},
	)
	engine := NewEngine(repo)

	res, err := engine.AvailableDates(context.Background(), 7, date(t, "2025-06-02"), date(t, "2025-06-08"))

	require.NoError(t, err)
	// Monday 06-02 via ISO coding, Sunday 06-08 via platform coding
	assert.Equal(t, []string{"2025-06-02", "2025-06-08"}, res.Dates)
}

func TestAvailableDates_SkipsPeriodsWithoutBlocks(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-06-01"), EndDate: date(t, "2025-06-30"), SlotMinutes: 30, Active: true},
	)
	engine := NewEngine(repo)

	res, err := engine.AvailableDates(context.Background(), 7, date(t, "2025-06-01"), date(t, "2025-06-30"))

	require.NoError(t, err)
	assert.Empty(t, res.Dates)
	assert.Empty(t, res.Message, "periods exist, they just have no blocks")
}

func TestAvailableDates_UnionAcrossPeriodsDeduped(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-06-01"), EndDate: date(t, "2025-06-15"), SlotMinutes: 30, Active: true},
		WorkingBlock{ID: 10, Weekday: 0, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "09:00")},
	)
	repo.addPeriod(
		SchedulingPeriod{ID: 2, DoctorID: 7, StartDate: date(t, "2025-06-08"), EndDate: date(t, "2025-06-30"), SlotMinutes: 30, Active: true},
		WorkingBlock{ID: 20, Weekday: 0, StartTime: mustMinute(t, "14:00"), EndTime: mustMinute(t, "15:00")},
	)
	engine := NewEngine(repo)

	first, err := engine.AvailableDates(context.Background(), 7, date(t, "2025-06-01"), date(t, "2025-06-30"))
	require.NoError(t, err)

	// Dates reachable through both periods appear once, the list is sorted.
	assert.Equal(t, sortedCopy(first.Dates), first.Dates)
	for i := 1; i < len(first.Dates); i++ {
		assert.NotEqual(t, first.Dates[i-1], first.Dates[i])
	}

	// Repeating the call yields the same result.
	second, err := engine.AvailableDates(context.Background(), 7, date(t, "2025-06-01"), date(t, "2025-06-30"))
	require.NoError(t, err)
	assert.Equal(t, first.Dates, second.Dates)
}

func TestAvailableDates_NoPeriodsInRange(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(
		SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2024-01-01"), EndDate: date(t, "2024-12-31"), SlotMinutes: 30, Active: true},
		WorkingBlock{ID: 10, Weekday: 0, StartTime: mustMinute(t, "08:00"), EndTime: mustMinute(t, "09:00")},
	)
	engine := NewEngine(repo)

	res, err := engine.AvailableDates(context.Background(), 7, date(t, "2025-06-01"), date(t, "2025-06-30"))

	require.NoError(t, err)
	assert.Empty(t, res.Dates)
	assert.NotEmpty(t, res.Message)
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

// -- AppointmentDuration --

func TestAppointmentDuration_Cascade(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.addPeriod(SchedulingPeriod{ID: 1, DoctorID: 7, StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-12-31"), SlotMinutes: 30, Active: true})
	repo.addPeriod(SchedulingPeriod{ID: 2, DoctorID: 8, StartDate: date(t, "2024-01-01"), EndDate: date(t, "2024-12-31"), SlotMinutes: 45, Active: true})
	repo.addPeriod(SchedulingPeriod{ID: 3, DoctorID: 9, StartDate: date(t, "2023-01-01"), EndDate: date(t, "2023-12-31"), SlotMinutes: 15, Active: false})
	engine := NewEngine(repo)

	// Containing period
	res, err := engine.AppointmentDuration(context.Background(), 7, date(t, "2025-06-02"))
	require.NoError(t, err)
	assert.Equal(t, 30, res.DurationMinutes)

	// No containing period: latest active
	res, err = engine.AppointmentDuration(context.Background(), 8, date(t, "2025-06-02"))
	require.NoError(t, err)
	assert.Equal(t, 45, res.DurationMinutes)

	// No active period at all: latest of any status
	res, err = engine.AppointmentDuration(context.Background(), 9, date(t, "2025-06-02"))
	require.NoError(t, err)
	assert.Equal(t, 15, res.DurationMinutes)

	// Unknown doctor: message, no error
	res, err = engine.AppointmentDuration(context.Background(), 99, date(t, "2025-06-02"))
	require.NoError(t, err)
	assert.Zero(t, res.DurationMinutes)
	assert.NotEmpty(t, res.Message)
}
