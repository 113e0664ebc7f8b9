package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/medagenda/hospital-appointment-scheduling/internal/schedule"
)

type Patient struct {
	ID         int64
	NationalID string
	Name       *string
	BirthDate  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Appointment is a committed reservation consuming part of a doctor's day.
type Appointment struct {
	ID              uuid.UUID
	PatientID       int64
	DoctorID        int64
	SpecialtyID     int64
	Date            time.Time // calendar date, midnight UTC
	StartTime       schedule.MinuteOfDay
	DurationMinutes int
	CreatedAt       time.Time
}

// EndTime is the exclusive end of the appointment's interval.
func (a Appointment) EndTime() schedule.MinuteOfDay {
	return a.StartTime + schedule.MinuteOfDay(a.DurationMinutes)
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
