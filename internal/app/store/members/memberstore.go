// Package members is the gateway for employer membership: which users belong
// to which employer, under what member role.
package members

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

// ErrNoMembership is returned by Me when the user belongs to no employer.
// The backend signals this case with a 400.
var ErrNoMembership = errors.New("user has no employer membership")

// Store issues employer-member requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs a member Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

type memberEnvelope struct {
	Status string                `json:"status"`
	Member models.EmployerMember `json:"member"`
}

type memberListEnvelope struct {
	Status  string                  `json:"status"`
	Members []models.EmployerMember `json:"members"`
}

// Me returns the token user's employer membership, or ErrNoMembership.
func (s *Store) Me(ctx context.Context, token string) (models.EmployerMember, error) {
	var m models.EmployerMember
	if err := s.api.Get(ctx, "/employer-members/me", token, &m); err != nil {
		if backend.IsStatus(err, http.StatusBadRequest) {
			return models.EmployerMember{}, ErrNoMembership
		}
		return models.EmployerMember{}, fmt.Errorf("fetch my membership: %w", err)
	}
	return m, nil
}

// Create links the token's user to an employer with a member role.
func (s *Store) Create(ctx context.Context, token string, employerID int64, memberRole string) (models.EmployerMember, error) {
	body := map[string]any{"employer_id": employerID, "member_role": memberRole}
	var env memberEnvelope
	if err := s.api.Post(ctx, "/employer-members/", token, body, &env); err != nil {
		return models.EmployerMember{}, fmt.Errorf("create membership: %w", err)
	}
	return env.Member, nil
}

// Update changes the member role on an existing membership.
func (s *Store) Update(ctx context.Context, token string, employerID int64, memberRole string) error {
	body := map[string]any{"employer_id": employerID, "member_role": memberRole}
	if err := s.api.Patch(ctx, "/employer-members/", token, body, nil); err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

// Delete removes the token user's membership in an employer.
func (s *Store) Delete(ctx context.Context, token string, employerID int64) error {
	body := map[string]any{"employer_id": employerID}
	if err := s.api.Delete(ctx, "/employer-members/", token, body); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}

// ForEmployer lists the members of an employer.
func (s *Store) ForEmployer(ctx context.Context, token string, employerID int64) ([]models.EmployerMember, error) {
	path := "/employer-members/?employer_id=" + strconv.FormatInt(employerID, 10)
	var env memberListEnvelope
	if err := s.api.Get(ctx, path, token, &env); err != nil {
		return nil, fmt.Errorf("list members for employer %d: %w", employerID, err)
	}
	return env.Members, nil
}

// Types returns the member-role master list.
func (s *Store) Types(ctx context.Context, token string) ([]string, error) {
	var names []string
	if err := s.api.Get(ctx, "/member-types/", token, &names); err != nil {
		return nil, fmt.Errorf("list member types: %w", err)
	}
	return names, nil
}
