package catalog

import (
	"context"
	"fmt"
)

// Service exposes the catalog reads, restricted to the configured specialty
// allow-list.
type Service struct {
	repo      Repository
	allowlist []int64
}

func NewService(repo Repository, allowlist []int64) *Service {
	return &Service{repo: repo, allowlist: allowlist}
}

func (s *Service) ListSpecialties(ctx context.Context) ([]Specialty, error) {
	specs, err := s.repo.ListSpecialties(ctx, s.allowlist)
	if err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return specs, nil
}

func (s *Service) ListDoctorsBySpecialty(ctx context.Context, specialtyID int64) ([]Doctor, error) {
	doctors, err := s.repo.ListDoctorsBySpecialty(ctx, specialtyID)
	if err != nil {
		return nil, fmt.Errorf("list doctors by specialty: %w", err)
	}
	return doctors, nil
}
