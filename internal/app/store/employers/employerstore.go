// Package employers is the gateway for employer organization CRUD.
package employers

import (
	"context"
	"fmt"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

// Store issues employer requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs an employer Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

// NewEmployer is the creation payload.
type NewEmployer struct {
	EmployerName string `json:"employer_name"`
	Description  string `json:"description,omitempty"`
	Website      string `json:"website,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type employerEnvelope struct {
	Status   string          `json:"status"`
	Employer models.Employer `json:"employer"`
}

// Create registers a new employer organization.
func (s *Store) Create(ctx context.Context, token string, in NewEmployer) (models.Employer, error) {
	var env employerEnvelope
	if err := s.api.Post(ctx, "/employers/", token, in, &env); err != nil {
		return models.Employer{}, fmt.Errorf("create employer: %w", err)
	}
	return env.Employer, nil
}

// Get fetches one employer by id.
func (s *Store) Get(ctx context.Context, token string, employerID int64) (models.Employer, error) {
	var e models.Employer
	if err := s.api.Get(ctx, fmt.Sprintf("/employers/%d", employerID), token, &e); err != nil {
		return models.Employer{}, fmt.Errorf("fetch employer %d: %w", employerID, err)
	}
	return e, nil
}

// List returns all employers.
func (s *Store) List(ctx context.Context, token string) ([]models.Employer, error) {
	var rows []models.Employer
	if err := s.api.Get(ctx, "/employers/", token, &rows); err != nil {
		return nil, fmt.Errorf("list employers: %w", err)
	}
	return rows, nil
}

// Update patches employer fields.
func (s *Store) Update(ctx context.Context, token string, employerID int64, in NewEmployer) error {
	if err := s.api.Patch(ctx, fmt.Sprintf("/employers/%d", employerID), token, in, nil); err != nil {
		return fmt.Errorf("update employer %d: %w", employerID, err)
	}
	return nil
}

// Delete removes an employer.
func (s *Store) Delete(ctx context.Context, token string, employerID int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/employers/%d", employerID), token, nil); err != nil {
		return fmt.Errorf("delete employer %d: %w", employerID, err)
	}
	return nil
}
