package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Ledger contains all DB interactions needed by the booking service. It is
// the single source of truth for confirmed appointments.
type Ledger interface {
	GetPatientByID(ctx context.Context, id int64) (*Patient, error)

	// FindPatientByCredentials looks a patient up by national ID and birth
	// date, the pair used to identify patients at the start of the wizard.
	FindPatientByCredentials(ctx context.Context, nationalID string, birthDate time.Time) (*Patient, error)

	// For conflict checks
	FindForDoctorOnDate(ctx context.Context, doctorID int64, date time.Time) ([]Appointment, error)
	FindForPatientOnDate(ctx context.Context, patientID int64, date time.Time) ([]Appointment, error)
	HasAppointmentInSpecialty(ctx context.Context, patientID, specialtyID int64) (bool, error)

	// Creation and removal
	InsertAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	ListForPatient(ctx context.Context, patientID int64) ([]Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
