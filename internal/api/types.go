package api

import (
	"github.com/google/uuid"
)

type PeriodInfo struct {
	ID        int64  `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type DaySlotsResponse struct {
	DoctorID        int64       `json:"doctor_id"`
	Date            string      `json:"date"`
	DurationMinutes int         `json:"duration_minutes"`
	WeekdayUsed     *int        `json:"weekday_used,omitempty"`
	Period          *PeriodInfo `json:"period,omitempty"`
	Slots           []string    `json:"slots"`
	Message         string      `json:"message,omitempty"`
}

type AvailableDatesResponse struct {
	DoctorID int64    `json:"doctor_id"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Dates    []string `json:"available_dates"`
	Message  string   `json:"message,omitempty"`
}

type DurationResponse struct {
	DoctorID        int64       `json:"doctor_id"`
	DurationMinutes int         `json:"duration_minutes"`
	Period          *PeriodInfo `json:"period,omitempty"`
	Message         string      `json:"message,omitempty"`
}

type SpecialtyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DoctorResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SpecialtyID int64  `json:"specialty_id"`
}

type ValidatePatientRequest struct {
	NationalID string `json:"national_id"`
	BirthDate  string `json:"birth_date"`
}

type PatientResponse struct {
	ID         int64   `json:"id"`
	NationalID string  `json:"national_id"`
	Name       *string `json:"name"`
	BirthDate  string  `json:"birth_date"`
}

type BookAppointmentRequest struct {
	PatientID       int64  `json:"patient_id"`
	DoctorID        int64  `json:"doctor_id"`
	SpecialtyID     int64  `json:"specialty_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       int64     `json:"patient_id"`
	DoctorID        int64     `json:"doctor_id"`
	SpecialtyID     int64     `json:"specialty_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

type ConflictDetails struct {
	Kind     string `json:"kind"`
	DoctorID int64  `json:"doctor_id"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type ErrorResponse struct {
	Error    string           `json:"error"`
	Details  string           `json:"details,omitempty"`
	Conflict *ConflictDetails `json:"conflict,omitempty"`
}
