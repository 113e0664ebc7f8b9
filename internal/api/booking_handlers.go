package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medagenda/hospital-appointment-scheduling/internal/booking"
	redisclient "github.com/medagenda/hospital-appointment-scheduling/internal/redis"
	"github.com/medagenda/hospital-appointment-scheduling/internal/schedule"
)

func validatePatientHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidatePatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.NationalID == "" {
			writeError(w, http.StatusBadRequest, "missing_national_id", "national_id is required")
			return
		}

		birthDate, err := schedule.ParseDate(req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_birth_date", "birth_date must be YYYY-MM-DD")
			return
		}

		patient, err := svc.ValidatePatient(r.Context(), req.NationalID, birthDate)
		if err != nil {
			if errors.Is(err, booking.ErrPatientNotFound) {
				writeError(w, http.StatusNotFound, "patient_not_found", "no patient matches the given national id and birth date")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(patient))
	}
}

func bookAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.PatientID <= 0 || req.DoctorID <= 0 || req.SpecialtyID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_ids", "patient_id, doctor_id and specialty_id must be positive integers")
			return
		}

		date, err := schedule.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		startTime, err := schedule.ParseMinuteOfDay(req.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start_time", "start_time must be HH:MM")
			return
		}

		appt, err := svc.Book(r.Context(), booking.BookingRequest{
			PatientID:       req.PatientID,
			DoctorID:        req.DoctorID,
			SpecialtyID:     req.SpecialtyID,
			Date:            date,
			StartTime:       startTime,
			DurationMinutes: req.DurationMinutes,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func cancelAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		patientID, err := parseID(r.URL.Query().Get("patient_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a positive integer")
			return
		}

		if err := svc.Cancel(r.Context(), id, patientID); err != nil {
			if errors.Is(err, booking.ErrAppointmentNotFound) {
				writeError(w, http.StatusNotFound, "appointment_not_found", "no such appointment for this patient")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listAppointmentsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := parseID(r.URL.Query().Get("patient_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a positive integer")
			return
		}

		appts, err := svc.ListForPatient(r.Context(), patientID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			resp = append(resp, toAppointmentResponse(&appts[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	var conflict *booking.ConflictError

	switch {
	case errors.Is(err, booking.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, booking.ErrDateTooSoon):
		writeError(w, http.StatusBadRequest, "date_too_soon", err.Error())
	case errors.Is(err, booking.ErrDateTooFar):
		writeError(w, http.StatusBadRequest, "date_too_far", err.Error())
	case errors.Is(err, booking.ErrInvalidStartTime):
		writeError(w, http.StatusBadRequest, "invalid_start_time", err.Error())
	case errors.Is(err, booking.ErrSpecialtyAlreadyBooked):
		writeError(w, http.StatusConflict, "specialty_already_booked", err.Error())
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "slot_conflict",
			Details: conflict.Error(),
			Conflict: &ConflictDetails{
				Kind:     string(conflict.Kind),
				DoctorID: conflict.DoctorID,
				Date:     schedule.FormatDate(conflict.Date),
				Start:    conflict.Start.String(),
				End:      conflict.End.String(),
			},
		})
	case errors.Is(err, booking.ErrDoctorDayBusy),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "booking_in_progress", "another booking for this doctor and day is in progress, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func toPatientResponse(p *booking.Patient) PatientResponse {
	return PatientResponse{
		ID:         p.ID,
		NationalID: p.NationalID,
		Name:       p.Name,
		BirthDate:  schedule.FormatDate(p.BirthDate),
	}
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		SpecialtyID:     a.SpecialtyID,
		Date:            schedule.FormatDate(a.Date),
		StartTime:       a.StartTime.String(),
		DurationMinutes: a.DurationMinutes,
	}
}
