package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanPeriod(row pgx.Row) (*SchedulingPeriod, error) {
	var p SchedulingPeriod

	err := row.Scan(
		&p.ID,
		&p.DoctorID,
		&p.StartDate,
		&p.EndDate,
		&p.SlotMinutes,
		&p.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanBlock(row pgx.Row) (*WorkingBlock, error) {
	var b WorkingBlock
	var start, end int

	err := row.Scan(
		&b.ID,
		&b.PeriodID,
		&b.Weekday,
		&start,
		&end,
	)
	if err != nil {
		return nil, err
	}

	b.StartTime = MinuteOfDay(start)
	b.EndTime = MinuteOfDay(end)
	return &b, nil
}

// Interface methods

func (r *PgRepository) FindPeriodContaining(ctx context.Context, doctorID int64, date time.Time) (*SchedulingPeriod, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, start_date, end_date, slot_minutes, active
		FROM schedule_periods
		WHERE doctor_id = $1
		  AND active
		  AND $2::date BETWEEN start_date AND end_date
		ORDER BY end_date DESC, start_date DESC
		LIMIT 1
	`, doctorID, DateOnly(date))
	return scanPeriod(row)
}

func (r *PgRepository) FindLatestPeriod(ctx context.Context, doctorID int64) (*SchedulingPeriod, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, start_date, end_date, slot_minutes, active
		FROM schedule_periods
		WHERE doctor_id = $1
		  AND active
		ORDER BY end_date DESC, start_date DESC
		LIMIT 1
	`, doctorID)
	return scanPeriod(row)
}

func (r *PgRepository) FindLatestPeriodWithBlocks(ctx context.Context, doctorID int64) (*SchedulingPeriod, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT DISTINCT p.id, p.doctor_id, p.start_date, p.end_date, p.slot_minutes, p.active
		FROM schedule_periods p
		INNER JOIN working_blocks b ON b.period_id = p.id
		WHERE p.doctor_id = $1
		  AND p.active
		ORDER BY p.end_date DESC, p.start_date DESC
		LIMIT 1
	`, doctorID)
	return scanPeriod(row)
}

func (r *PgRepository) FindLatestPeriodAny(ctx context.Context, doctorID int64) (*SchedulingPeriod, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, start_date, end_date, slot_minutes, active
		FROM schedule_periods
		WHERE doctor_id = $1
		ORDER BY end_date DESC, start_date DESC
		LIMIT 1
	`, doctorID)
	return scanPeriod(row)
}

func (r *PgRepository) FindWorkingBlocks(ctx context.Context, periodID int64, weekday int) ([]WorkingBlock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, period_id, weekday, start_minute, end_minute
		FROM working_blocks
		WHERE period_id = $1 AND weekday = $2
		ORDER BY start_minute ASC
	`, periodID, weekday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WorkingBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) FindBlockWeekdays(ctx context.Context, periodID int64) ([]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT weekday
		FROM working_blocks
		WHERE period_id = $1
		ORDER BY weekday ASC
	`, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []int
	for rows.Next() {
		var w int
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		result = append(result, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) FindPeriodsOverlapping(ctx context.Context, doctorID int64, from, to time.Time) ([]SchedulingPeriod, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, start_date, end_date, slot_minutes, active
		FROM schedule_periods
		WHERE doctor_id = $1
		  AND active
		  AND start_date <= $3::date
		  AND end_date >= $2::date
		ORDER BY start_date ASC
	`, doctorID, DateOnly(from), DateOnly(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SchedulingPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
