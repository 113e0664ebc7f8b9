package api

import (
	"net/http"

	"github.com/medagenda/hospital-appointment-scheduling/internal/catalog"
)

func listSpecialtiesHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specs, err := svc.ListSpecialties(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]SpecialtyResponse, 0, len(specs))
		for _, s := range specs {
			resp = append(resp, SpecialtyResponse{ID: s.ID, Name: s.Name})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func listDoctorsHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialtyID, err := parseID(r.URL.Query().Get("specialty_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_specialty_id", "specialty_id must be a positive integer")
			return
		}

		doctors, err := svc.ListDoctorsBySpecialty(r.Context(), specialtyID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			resp = append(resp, DoctorResponse{
				ID:          d.ID,
				Name:        d.Name,
				SpecialtyID: d.EffectiveSpecialtyID(),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
