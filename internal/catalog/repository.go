package catalog

import "context"

// Repository contains the read-only catalog queries backing the wizard's
// specialty and doctor pickers.
type Repository interface {
	// ListSpecialties returns the specialties with the given ids, ordered by id.
	ListSpecialties(ctx context.Context, ids []int64) ([]Specialty, error)

	// ListDoctorsBySpecialty returns doctors attached to a specialty through
	// either specialty column, ordered by name.
	ListDoctorsBySpecialty(ctx context.Context, specialtyID int64) ([]Doctor, error)
}
