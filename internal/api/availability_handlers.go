package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medagenda/hospital-appointment-scheduling/internal/schedule"
)

func daySlotsHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := parseID(r.URL.Query().Get("doctor_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a positive integer")
			return
		}

		date, err := schedule.ParseDate(r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		avail, err := engine.SlotsForDate(r.Context(), doctorID, date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toDaySlotsResponse(avail))
	}
}

func availableDatesHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := parseID(r.URL.Query().Get("doctor_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a positive integer")
			return
		}

		from, err := schedule.ParseDate(r.URL.Query().Get("from"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_range", "from must be YYYY-MM-DD")
			return
		}
		to, err := schedule.ParseDate(r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_range", "to must be YYYY-MM-DD")
			return
		}

		avail, err := engine.AvailableDates(r.Context(), doctorID, from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := AvailableDatesResponse{
			DoctorID: avail.DoctorID,
			From:     schedule.FormatDate(avail.From),
			To:       schedule.FormatDate(avail.To),
			Dates:    avail.Dates,
			Message:  avail.Message,
		}
		if resp.Dates == nil {
			resp.Dates = []string{}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func appointmentDurationHandler(engine *schedule.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a positive integer")
			return
		}

		date := time.Now()
		if raw := r.URL.Query().Get("date"); raw != "" {
			date, err = schedule.ParseDate(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
				return
			}
		}

		res, err := engine.AppointmentDuration(r.Context(), doctorID, date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := DurationResponse{
			DoctorID:        res.DoctorID,
			DurationMinutes: res.DurationMinutes,
			Period:          toPeriodInfo(res.Period),
			Message:         res.Message,
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func toDaySlotsResponse(avail *schedule.DayAvailability) DaySlotsResponse {
	resp := DaySlotsResponse{
		DoctorID:        avail.DoctorID,
		Date:            schedule.FormatDate(avail.Date),
		DurationMinutes: avail.DurationMinutes,
		Period:          toPeriodInfo(avail.Period),
		Message:         avail.Message,
		Slots:           make([]string, 0, len(avail.Slots)),
	}

	if avail.WeekdayUsed >= 0 {
		used := avail.WeekdayUsed
		resp.WeekdayUsed = &used
	}

	for _, s := range avail.Slots {
		resp.Slots = append(resp.Slots, s.String())
	}

	return resp
}

func toPeriodInfo(p *schedule.SchedulingPeriod) *PeriodInfo {
	if p == nil {
		return nil
	}
	return &PeriodInfo{
		ID:        p.ID,
		StartDate: schedule.FormatDate(p.StartDate),
		EndDate:   schedule.FormatDate(p.EndDate),
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
