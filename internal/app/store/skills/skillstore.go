// Package skills is the gateway for the skill master list and per-user skill
// assignment.
package skills

import (
	"context"
	"fmt"

	"github.com/dancecollective/gigboard/internal/app/backend"
)

// Store issues skill requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs a skill Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

// List returns the skill master list.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.api.Get(ctx, "/skills/", "", &names); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return names, nil
}

// ForUser returns the skills held by a user.
func (s *Store) ForUser(ctx context.Context, token string, userID int64) ([]string, error) {
	var names []string
	path := fmt.Sprintf("/users-skills/%d/skills", userID)
	if err := s.api.Get(ctx, path, token, &names); err != nil {
		return nil, fmt.Errorf("fetch skills: %w", err)
	}
	return names, nil
}

// Assign adds a skill to a user.
func (s *Store) Assign(ctx context.Context, token string, userID int64, skill string) error {
	body := map[string]any{"user_id": userID, "skill_name": skill}
	if err := s.api.Post(ctx, "/users-skills/skills", token, body, nil); err != nil {
		return fmt.Errorf("assign skill %q: %w", skill, err)
	}
	return nil
}

// Remove takes a skill away from a user.
func (s *Store) Remove(ctx context.Context, token string, userID int64, skill string) error {
	body := map[string]any{"user_id": userID, "skill_name": skill}
	if err := s.api.Delete(ctx, "/users-skills/skills", token, body); err != nil {
		return fmt.Errorf("remove skill %q: %w", skill, err)
	}
	return nil
}
