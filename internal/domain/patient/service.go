package patient

import (
	"context"
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FullName == "" {
		return apperr.Invalid("full_name is required")
	}
	if p.DateOfBirth.IsZero() || p.DateOfBirth.After(time.Now()) {
		return apperr.Invalid("date_of_birth must be in the past")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetByUser(ctx context.Context, userID int64) (*Patient, error) {
	return s.patients.GetByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.FullName == "" {
		return apperr.Invalid("full_name is required")
	}
	return s.patients.Update(ctx, p)
}

// Delete tombstones the patient. A repeat delete is not found: the first
// delete already removed the row from every query's view.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.patients.SoftDelete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}
