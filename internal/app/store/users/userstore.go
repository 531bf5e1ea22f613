// Package users is the gateway for account endpoints: registration, login,
// the canonical "me" profile, and account deletion.
package users

import (
	"context"
	"fmt"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

// Store issues user requests against the backend.
type Store struct {
	api *backend.Client
}

// New constructs a user Store.
func New(api *backend.Client) *Store {
	return &Store{api: api}
}

// NewUser is the registration payload.
type NewUser struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
	Password    string `json:"password"`
}

// Tokens is the login response pair. RefreshToken is stored but unused;
// the backend contract has no refresh endpoint wired into this client yet.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account and returns the created user view.
func (s *Store) Register(ctx context.Context, in NewUser) (models.User, error) {
	var u models.User
	if err := s.api.Post(ctx, "/users/register", "", in, &u); err != nil {
		return models.User{}, fmt.Errorf("register user: %w", err)
	}
	return u, nil
}

// Login exchanges credentials for tokens.
func (s *Store) Login(ctx context.Context, email, password string) (Tokens, error) {
	body := map[string]string{"email": email, "password": password}
	var t Tokens
	if err := s.api.Post(ctx, "/users/login", "", body, &t); err != nil {
		return Tokens{}, err
	}
	return t, nil
}

// Me returns the canonical profile for the token's user.
func (s *Store) Me(ctx context.Context, token string) (models.User, error) {
	var u models.User
	if err := s.api.Get(ctx, "/users/me", token, &u); err != nil {
		return models.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	return u, nil
}

// Delete removes the account. The backend cascades role, skill, and
// application records.
func (s *Store) Delete(ctx context.Context, token string, userID int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/users/%d", userID), token, nil); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
