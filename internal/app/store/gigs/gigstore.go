// Package gigs is the gateway for gig CRUD. List responses arrive wrapped in
// a {status, gigs} envelope; create responses in {status, gig}.
package gigs

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

// Store issues gig requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs a gig Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

// Filter narrows a gig list query. Zero values are omitted from the query
// string.
type Filter struct {
	EmployerID     int64
	TypeName       string
	PostedByUserID int64
}

// NewGig is the creation payload. The poster's user id comes from the token
// server-side, not from this payload.
type NewGig struct {
	GigName    string `json:"gig_name"`
	GigDate    string `json:"gig_date"`
	GigDetails string `json:"gig_details,omitempty"`
	TypeName   string `json:"type_name"`
	EmployerID int64  `json:"employer_id"`
}

// Changes holds the editable gig fields for a PATCH. Nil fields are left
// unchanged.
type Changes struct {
	GigName    *string `json:"gig_name,omitempty"`
	GigDate    *string `json:"gig_date,omitempty"`
	GigDetails *string `json:"gig_details,omitempty"`
	TypeName   *string `json:"type_name,omitempty"`
}

type gigEnvelope struct {
	Status string     `json:"status"`
	Gig    models.Gig `json:"gig"`
}

type gigListEnvelope struct {
	Status string       `json:"status"`
	Gigs   []models.Gig `json:"gigs"`
}

// List returns gigs matching the filter.
func (s *Store) List(ctx context.Context, token string, f Filter) ([]models.Gig, error) {
	q := url.Values{}
	if f.EmployerID != 0 {
		q.Set("employer_id", strconv.FormatInt(f.EmployerID, 10))
	}
	if f.TypeName != "" {
		q.Set("type_name", f.TypeName)
	}
	if f.PostedByUserID != 0 {
		q.Set("posted_by_user_id", strconv.FormatInt(f.PostedByUserID, 10))
	}

	path := "/gigs/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var env gigListEnvelope
	if err := s.api.Get(ctx, path, token, &env); err != nil {
		return nil, fmt.Errorf("list gigs: %w", err)
	}
	return env.Gigs, nil
}

// Create posts a new gig and returns the created record.
func (s *Store) Create(ctx context.Context, token string, in NewGig) (models.Gig, error) {
	var env gigEnvelope
	if err := s.api.Post(ctx, "/gigs/", token, in, &env); err != nil {
		return models.Gig{}, fmt.Errorf("create gig: %w", err)
	}
	return env.Gig, nil
}

// Update patches a gig. The backend rejects edits by anyone but the poster
// with a 403.
func (s *Store) Update(ctx context.Context, token string, gigID int64, ch Changes) error {
	if err := s.api.Patch(ctx, fmt.Sprintf("/gigs/%d", gigID), token, ch, nil); err != nil {
		return fmt.Errorf("update gig %d: %w", gigID, err)
	}
	return nil
}

// Delete removes a gig. Poster-only, like Update.
func (s *Store) Delete(ctx context.Context, token string, gigID int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/gigs/%d", gigID), token, nil); err != nil {
		return fmt.Errorf("delete gig %d: %w", gigID, err)
	}
	return nil
}
