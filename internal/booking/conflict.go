package booking

import (
	"fmt"
	"time"

	"github.com/medagenda/hospital-appointment-scheduling/internal/schedule"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Adjacent intervals do not overlap. The same test
// guards both doctor-side and patient-side double booking.
func Overlaps(aStart, aEnd, bStart, bEnd schedule.MinuteOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// ConflictKind distinguishes whose calendar the candidate collided with.
type ConflictKind string

const (
	ConflictDoctorBusy  ConflictKind = "doctor_busy"
	ConflictPatientBusy ConflictKind = "patient_busy"
)

// ConflictError is the typed rejection returned when a candidate booking
// overlaps an existing appointment. It names the doctor, date and the
// overlapping interval so the caller can show the user why.
type ConflictError struct {
	Kind     ConflictKind
	DoctorID int64
	Date     time.Time
	Start    schedule.MinuteOfDay
	End      schedule.MinuteOfDay
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: doctor %d on %s already has an appointment %s-%s",
		e.Kind, e.DoctorID, schedule.FormatDate(e.Date), e.Start, e.End)
}
