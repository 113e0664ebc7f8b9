package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medagenda/hospital-appointment-scheduling/internal/schedule"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var name *string

	err := row.Scan(
		&p.ID,
		&p.NationalID,
		&name,
		&p.BirthDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	p.Name = name
	return &p, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var startMinute int

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.SpecialtyID,
		&a.Date,
		&startMinute,
		&a.DurationMinutes,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.StartTime = schedule.MinuteOfDay(startMinute)
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Interface methods

func (r *PgRepository) GetPatientByID(ctx context.Context, id int64) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, national_id, name, birth_date, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) FindPatientByCredentials(ctx context.Context, nationalID string, birthDate time.Time) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, national_id, name, birth_date, created_at, updated_at
		FROM patients
		WHERE national_id = $1 AND birth_date = $2::date
	`, nationalID, birthDate)
	return scanPatient(row)
}

func (r *PgRepository) FindForDoctorOnDate(ctx context.Context, doctorID int64, date time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, specialty_id, date, start_minute, duration_minutes, created_at
		FROM appointments
		WHERE doctor_id = $1 AND date = $2::date
		ORDER BY start_minute ASC
	`, doctorID, schedule.DateOnly(date))
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) FindForPatientOnDate(ctx context.Context, patientID int64, date time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, specialty_id, date, start_minute, duration_minutes, created_at
		FROM appointments
		WHERE patient_id = $1 AND date = $2::date
		ORDER BY start_minute ASC
	`, patientID, schedule.DateOnly(date))
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) HasAppointmentInSpecialty(ctx context.Context, patientID, specialtyID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE patient_id = $1 AND specialty_id = $2
		)
	`, patientID, specialtyID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgRepository) InsertAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, specialty_id, date, start_minute, duration_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, patient_id, doctor_id, specialty_id, date, start_minute, duration_minutes, created_at
	`, a.ID, a.PatientID, a.DoctorID, a.SpecialtyID, a.Date, int(a.StartTime), a.DurationMinutes)
	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, specialty_id, date, start_minute, duration_minutes, created_at
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) ListForPatient(ctx context.Context, patientID int64) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, specialty_id, date, start_minute, duration_minutes, created_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date ASC, start_minute ASC
	`, patientID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	var appID *uuid.UUID
	if ev.AppointmentID != nil {
		appID = ev.AppointmentID
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, appID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
