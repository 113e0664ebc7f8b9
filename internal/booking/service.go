package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/medagenda/hospital-appointment-scheduling/internal/config"
	redisclient "github.com/medagenda/hospital-appointment-scheduling/internal/redis"
	"github.com/medagenda/hospital-appointment-scheduling/internal/schedule"
)

const (
	EventAppointmentBooked    = "APPOINTMENT_BOOKED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
)

var (
	ErrSpecialtyAlreadyBooked = errors.New("patient already has an appointment in this specialty")
	ErrDateTooSoon            = errors.New("date is before the earliest bookable day")
	ErrDateTooFar             = errors.New("date is past the latest bookable day")
	ErrDoctorDayBusy          = errors.New("another booking for this doctor and day is in progress, please retry")
	ErrInvalidStartTime       = errors.New("start time is not valid")
)

// DurationResolver supplies the appointment length for a doctor around a
// date. Implemented by the availability engine.
type DurationResolver interface {
	AppointmentDuration(ctx context.Context, doctorID int64, date time.Time) (*schedule.DurationResult, error)
}

type Service struct {
	repo      Ledger
	durations DurationResolver
	locker    redisclient.Locker
	cfg       config.Config
	now       func() time.Time
}

func NewService(repo Ledger, durations DurationResolver, locker redisclient.Locker, cfg config.Config) *Service {
	return &Service{
		repo:      repo,
		durations: durations,
		locker:    locker,
		cfg:       cfg,
		now:       time.Now,
	}
}

type BookingRequest struct {
	PatientID       int64
	DoctorID        int64
	SpecialtyID     int64
	Date            time.Time
	StartTime       schedule.MinuteOfDay
	DurationMinutes int // 0 means resolve from the doctor's schedule
}

// Book confirms an appointment. The overlap check and the insert run inside
// a per-doctor-per-day distributed lock so two concurrent requests cannot
// both pass the check before either commits.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if _, err := s.repo.GetPatientByID(ctx, req.PatientID); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	date := schedule.DateOnly(req.Date)
	if err := s.checkBookingWindow(date); err != nil {
		return nil, err
	}

	taken, err := s.repo.HasAppointmentInSpecialty(ctx, req.PatientID, req.SpecialtyID)
	if err != nil {
		return nil, fmt.Errorf("check specialty appointments: %w", err)
	}
	if taken {
		return nil, ErrSpecialtyAlreadyBooked
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration, err = s.resolveDuration(ctx, req.DoctorID, date)
		if err != nil {
			return nil, err
		}
	}

	var created *Appointment

	err = s.locker.WithDoctorDayLock(ctx, req.DoctorID, date, func(lockCtx context.Context) error {
		candidate := Appointment{
			ID:              uuid.New(),
			PatientID:       req.PatientID,
			DoctorID:        req.DoctorID,
			SpecialtyID:     req.SpecialtyID,
			Date:            date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
		}

		if err := s.checkConflicts(lockCtx, candidate); err != nil {
			return err
		}

		appt, err := s.repo.InsertAppointment(lockCtx, candidate)
		if err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentBooked, map[string]any{
			"doctor_id":  req.DoctorID,
			"patient_id": req.PatientID,
			"date":       schedule.FormatDate(date),
			"start":      req.StartTime.String(),
			"duration":   duration,
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrDoctorDayBusy
		}
		return nil, err
	}

	return created, nil
}

// checkConflicts rejects the candidate when its half-open interval overlaps
// an existing appointment on the doctor's day, or one of the patient's own
// appointments that day with any doctor.
func (s *Service) checkConflicts(ctx context.Context, candidate Appointment) error {
	start, end := candidate.StartTime, candidate.EndTime()
	if end <= start {
		return ErrInvalidStartTime
	}

	doctorAppts, err := s.repo.FindForDoctorOnDate(ctx, candidate.DoctorID, candidate.Date)
	if err != nil {
		return fmt.Errorf("load doctor appointments: %w", err)
	}
	for _, a := range doctorAppts {
		if Overlaps(a.StartTime, a.EndTime(), start, end) {
			return &ConflictError{
				Kind:     ConflictDoctorBusy,
				DoctorID: candidate.DoctorID,
				Date:     candidate.Date,
				Start:    a.StartTime,
				End:      a.EndTime(),
			}
		}
	}

	patientAppts, err := s.repo.FindForPatientOnDate(ctx, candidate.PatientID, candidate.Date)
	if err != nil {
		return fmt.Errorf("load patient appointments: %w", err)
	}
	for _, a := range patientAppts {
		if Overlaps(a.StartTime, a.EndTime(), start, end) {
			return &ConflictError{
				Kind:     ConflictPatientBusy,
				DoctorID: a.DoctorID,
				Date:     candidate.Date,
				Start:    a.StartTime,
				End:      a.EndTime(),
			}
		}
	}

	return nil
}

func (s *Service) checkBookingWindow(date time.Time) error {
	today := schedule.DateOnly(s.now())
	if date.Before(today.AddDate(0, 0, s.cfg.BookingMinLeadDays)) {
		return ErrDateTooSoon
	}
	if date.After(today.AddDate(0, 0, s.cfg.BookingMaxLeadDays)) {
		return ErrDateTooFar
	}
	return nil
}

func (s *Service) resolveDuration(ctx context.Context, doctorID int64, date time.Time) (int, error) {
	res, err := s.durations.AppointmentDuration(ctx, doctorID, date)
	if err != nil {
		return 0, fmt.Errorf("resolve appointment duration: %w", err)
	}
	if res.DurationMinutes > 0 {
		return res.DurationMinutes, nil
	}
	return s.cfg.DefaultSlotMinutes, nil
}

// Cancel removes one of the patient's appointments. Requests for an
// appointment owned by a different patient are reported as not found.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, patientID int64) error {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return err
	}
	if appt.PatientID != patientID {
		return ErrAppointmentNotFound
	}

	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}

	s.logEvent(ctx, id, EventAppointmentCancelled, map[string]any{
		"patient_id": patientID,
	})

	return nil
}

// ListForPatient retrieves all appointments booked by a patient.
func (s *Service) ListForPatient(ctx context.Context, patientID int64) ([]Appointment, error) {
	appts, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments for patient: %w", err)
	}
	return appts, nil
}

// ValidatePatient identifies a patient by national ID and birth date. A
// mismatch is a normal negative outcome surfaced as ErrPatientNotFound.
func (s *Service) ValidatePatient(ctx context.Context, nationalID string, birthDate time.Time) (*Patient, error) {
	p, err := s.repo.FindPatientByCredentials(ctx, nationalID, schedule.DateOnly(birthDate))
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("validate patient: %w", err)
	}
	return p, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}
