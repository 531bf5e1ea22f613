// Package gigroles is the gateway for per-gig role requirements.
package gigroles

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

// Store issues gig-role requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs a gig-role Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

// NewGigRole is the creation payload for one role requirement.
type NewGigRole struct {
	GigID       int64   `json:"gig_id"`
	RoleName    string  `json:"role_name"`
	NeededCount int     `json:"needed_count"`
	PayAmount   float64 `json:"pay_amount"`
	PayCurrency string  `json:"pay_currency"`
	PayUnit     string  `json:"pay_unit"`
}

// ForGig returns the role requirements recorded for a gig.
//
// The backend answers 400 rather than an empty list when a gig has no role
// rows; that case is mapped to (nil, nil) here because an empty requirement
// set means the gig is unrestricted.
func (s *Store) ForGig(ctx context.Context, token string, gigID int64) ([]models.GigRole, error) {
	var rows []models.GigRole
	err := s.api.Get(ctx, fmt.Sprintf("/gigs-roles/%d", gigID), token, &rows)
	if err != nil {
		if backend.IsStatus(err, http.StatusBadRequest) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch roles for gig %d: %w", gigID, err)
	}
	return rows, nil
}

// Create records one role requirement on a gig.
func (s *Store) Create(ctx context.Context, token string, in NewGigRole) (models.GigRole, error) {
	var row models.GigRole
	if err := s.api.Post(ctx, "/gigs-roles/", token, in, &row); err != nil {
		return models.GigRole{}, fmt.Errorf("create gig role %q: %w", in.RoleName, err)
	}
	return row, nil
}

// Update patches the role requirements for a gig.
func (s *Store) Update(ctx context.Context, token string, gigID int64, in NewGigRole) error {
	if err := s.api.Patch(ctx, fmt.Sprintf("/gigs-roles/%d", gigID), token, in, nil); err != nil {
		return fmt.Errorf("update roles for gig %d: %w", gigID, err)
	}
	return nil
}

// Delete removes the role requirements for a gig.
func (s *Store) Delete(ctx context.Context, token string, gigID int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/gigs-roles/%d", gigID), token, nil); err != nil {
		return fmt.Errorf("delete roles for gig %d: %w", gigID, err)
	}
	return nil
}
