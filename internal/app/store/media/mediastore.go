// Package media is the gateway for per-user media metadata and signed upload
// tickets. Files go directly from this app to Cloudinary; the backend only
// signs the upload and stores the resulting metadata.
package media

import (
	"context"
	"fmt"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

// Store issues media requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs a media Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

// Mine returns the token user's media records, one per kind.
func (s *Store) Mine(ctx context.Context, token string) (models.UserMedia, error) {
	var m models.UserMedia
	if err := s.api.Get(ctx, "/users/me/media", token, &m); err != nil {
		return models.UserMedia{}, fmt.Errorf("fetch my media: %w", err)
	}
	return m, nil
}

// Sign requests an upload ticket for one kind of media.
func (s *Store) Sign(ctx context.Context, token, kind string) (models.UploadTicket, error) {
	body := map[string]string{"kind": kind}
	var t models.UploadTicket
	if err := s.api.Post(ctx, "/uploads/cloudinary/sign", token, body, &t); err != nil {
		return models.UploadTicket{}, fmt.Errorf("sign %s upload: %w", kind, err)
	}
	return t, nil
}

// Save persists the metadata of an uploaded file, replacing any previous
// record of the same kind.
func (s *Store) Save(ctx context.Context, token string, item models.MediaItem) error {
	if err := s.api.Post(ctx, "/users/me/media", token, item, nil); err != nil {
		return fmt.Errorf("save %s metadata: %w", item.Kind, err)
	}
	return nil
}

// Delete removes the metadata record for one kind. The Cloudinary asset
// itself is left for the backend's cleanup job.
func (s *Store) Delete(ctx context.Context, token, kind string) error {
	if err := s.api.Delete(ctx, "/users/me/media/"+kind, token, nil); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}
