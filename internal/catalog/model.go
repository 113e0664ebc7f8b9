package catalog

type Specialty struct {
	ID   int64
	Name string
}

// Doctor carries both specialty columns found in the source data;
// PrimarySpecialtyID wins when both are set.
type Doctor struct {
	ID                 int64
	Name               string
	SpecialtyID        *int64
	PrimarySpecialtyID *int64
}

// EffectiveSpecialtyID resolves the specialty a doctor is listed under.
func (d Doctor) EffectiveSpecialtyID() int64 {
	if d.PrimarySpecialtyID != nil {
		return *d.PrimarySpecialtyID
	}
	if d.SpecialtyID != nil {
		return *d.SpecialtyID
	}
	return 0
}
