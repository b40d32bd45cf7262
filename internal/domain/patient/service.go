package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/hhm/maternity/internal/domain/errs"
	"github.com/hhm/maternity/pkg/rut"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) validate(p *Patient) error {
	if err := rut.Validate(p.RUT); err != nil {
		return errs.Validation("rut", err.Error())
	}
	p.RUT = rut.Normalize(p.RUT)
	if p.FirstName == "" {
		return errs.Validation("first_name", "is required")
	}
	if p.LastNamePaternal == "" {
		return errs.Validation("last_name_paternal", "is required")
	}
	if p.BirthDate.IsZero() {
		return errs.Validation("birth_date", "is required")
	}
	if age := p.Age(); age < 10 || age > 60 {
		return errs.Validationf("birth_date", "age must be between 10 and 60 years, got %d", age)
	}
	if p.MaritalStatus != nil && !validMaritalStatuses[*p.MaritalStatus] {
		return errs.Validationf("marital_status", "invalid value: %s", *p.MaritalStatus)
	}
	if p.Insurance != nil && !validInsurances[*p.Insurance] {
		return errs.Validationf("insurance", "invalid value: %s", *p.Insurance)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	if existing, err := s.patients.GetByRUT(ctx, p.RUT); err == nil && existing != nil {
		return errs.Invariant("a patient with rut %s already exists", p.RUT)
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetByRUT(ctx context.Context, r string) (*Patient, error) {
	return s.patients.GetByRUT(ctx, rut.Normalize(r))
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	current, err := s.patients.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	// RUT is the permanent identifier and cannot be changed after intake.
	p.RUT = current.RUT
	if err := s.validate(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, query, limit, offset)
}
