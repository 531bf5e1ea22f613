// Package applications is the gateway for gig applications and their status
// lifecycle. Withdraw, accept, reject, and shortlist are thin wrappers over
// the generic status patch; the backend enforces who may set which status.
package applications

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

// Store issues application requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs an application Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

type applyEnvelope struct {
	Status      string             `json:"status"`
	Application models.Application `json:"application"`
}

// Mine returns the token user's applications with joined gig fields.
func (s *Store) Mine(ctx context.Context, token string) ([]models.Application, error) {
	var rows []models.Application
	if err := s.api.Get(ctx, "/applications/", token, &rows); err != nil {
		return nil, fmt.Errorf("fetch my applications: %w", err)
	}
	return rows, nil
}

// ForGig returns the applicants for a gig with joined applicant fields.
// Employer-only; other callers get a 403 from the backend.
func (s *Store) ForGig(ctx context.Context, token string, gigID int64) ([]models.Application, error) {
	path := "/applications/?gig_id=" + strconv.FormatInt(gigID, 10)
	var rows []models.Application
	if err := s.api.Get(ctx, path, token, &rows); err != nil {
		return nil, fmt.Errorf("fetch applicants for gig %d: %w", gigID, err)
	}
	return rows, nil
}

// Apply creates an application for the token's user on a gig.
func (s *Store) Apply(ctx context.Context, token string, gigID int64) (models.Application, error) {
	body := map[string]any{"gig_id": gigID}
	var env applyEnvelope
	if err := s.api.Post(ctx, "/applications/", token, body, &env); err != nil {
		return models.Application{}, fmt.Errorf("apply to gig %d: %w", gigID, err)
	}
	return env.Application, nil
}

// SetStatus patches an application to the given status.
func (s *Store) SetStatus(ctx context.Context, token string, applicationID int64, status string) error {
	body := map[string]string{"status": status}
	path := fmt.Sprintf("/applications/%d", applicationID)
	if err := s.api.Patch(ctx, path, token, body, nil); err != nil {
		return fmt.Errorf("set application %d to %s: %w", applicationID, status, err)
	}
	return nil
}

// Withdraw marks the caller's application withdrawn. The record is kept so
// the history survives; the gig becomes available to apply to again.
func (s *Store) Withdraw(ctx context.Context, token string, applicationID int64) error {
	return s.SetStatus(ctx, token, applicationID, models.StatusWithdrawn)
}

// Accept marks an application accepted (employer only).
func (s *Store) Accept(ctx context.Context, token string, applicationID int64) error {
	return s.SetStatus(ctx, token, applicationID, models.StatusAccepted)
}

// Reject marks an application rejected (employer only).
func (s *Store) Reject(ctx context.Context, token string, applicationID int64) error {
	return s.SetStatus(ctx, token, applicationID, models.StatusRejected)
}

// Shortlist marks an application shortlisted (employer only).
func (s *Store) Shortlist(ctx context.Context, token string, applicationID int64) error {
	return s.SetStatus(ctx, token, applicationID, models.StatusShortlisted)
}

// Statuses returns the status master list.
func (s *Store) Statuses(ctx context.Context, token string) ([]string, error) {
	var names []string
	if err := s.api.Get(ctx, "/application-status/", token, &names); err != nil {
		return nil, fmt.Errorf("list application statuses: %w", err)
	}
	return names, nil
}
