// Package roles is the gateway for the role master list and per-user role
// assignment.
package roles

import (
	"context"
	"fmt"

	"github.com/dancecollective/gigboard/internal/app/backend"
)

// Store issues role requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs a role Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

// List returns the role master list.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.api.Get(ctx, "/roles/", "", &names); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return names, nil
}

// Mine returns the roles held by the token's user.
func (s *Store) Mine(ctx context.Context, token string) ([]string, error) {
	var names []string
	if err := s.api.Get(ctx, "/users-roles/myroles", token, &names); err != nil {
		return nil, fmt.Errorf("fetch my roles: %w", err)
	}
	return names, nil
}

// Assign adds a role to a user.
func (s *Store) Assign(ctx context.Context, token string, userID int64, role string) error {
	body := map[string]any{"user_id": userID, "role_name": role}
	if err := s.api.Post(ctx, "/users-roles/roles", token, body, nil); err != nil {
		return fmt.Errorf("assign role %q: %w", role, err)
	}
	return nil
}

// Remove takes a role away from a user.
func (s *Store) Remove(ctx context.Context, token string, userID int64, role string) error {
	body := map[string]any{"user_id": userID, "role_name": role}
	if err := s.api.Delete(ctx, "/users-roles/roles", token, body); err != nil {
		return fmt.Errorf("remove role %q: %w", role, err)
	}
	return nil
}
