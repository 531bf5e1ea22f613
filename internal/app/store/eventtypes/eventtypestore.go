// Package eventtypes is the gateway for the event-type master list used by
// the gig creation form.
package eventtypes

import (
	"context"
	"fmt"

	"github.com/dancecollective/gigboard/internal/app/backend"
)

// Store issues event-type requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs an event-type Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

// List returns the event-type names.
func (s *Store) List(ctx context.Context, token string) ([]string, error) {
	var names []string
	if err := s.api.Get(ctx, "/event-types/", token, &names); err != nil {
		return nil, fmt.Errorf("list event types: %w", err)
	}
	return names, nil
}
