package clinic

import (
	"context"
	"fmt"
	"strings"
)

type PatientService struct {
	repo PatientRepository
}

func NewPatientService(repo PatientRepository) *PatientService {
	return &PatientService{repo: repo}
}

func (s *PatientService) List(ctx context.Context) ([]Patient, error) {
	patients, err := s.repo.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// Search matches the trimmed query against phone number or serial code.
func (s *PatientService) Search(ctx context.Context, query string) (string, []Patient, error) {
	q, err := searchTerm(query)
	if err != nil {
		return "", nil, err
	}
	patients, err := s.repo.SearchPatients(ctx, q)
	if err != nil {
		return "", nil, fmt.Errorf("search patients: %w", err)
	}
	return q, patients, nil
}

func (s *PatientService) GetByPhone(ctx context.Context, phone string) (*Patient, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, ErrMissingID
	}
	p, err := s.repo.GetPatientByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("get patient by phone: %w", err)
	}
	return p, nil
}

func (s *PatientService) Get(ctx context.Context, id string) (*Patient, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}
	p, err := s.repo.GetPatient(ctx, ParseRecordID(id))
	if err != nil {
		return nil, fmt.Errorf("get patient %s: %w", id, err)
	}
	return p, nil
}
