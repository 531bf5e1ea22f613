// Package session orchestrates the sign-in lifecycle: login enrichment,
// the registration sequence, fetch-on-demand refresh of cached roles and
// skills, and active-role switching.
//
// The Manager builds auth.Session snapshots; persisting them to the cookie
// stays with auth.SessionManager so handlers decide when to write.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dancecollective/gigboard/internal/app/store/employers"
	"github.com/dancecollective/gigboard/internal/app/store/members"
	"github.com/dancecollective/gigboard/internal/app/store/roles"
	"github.com/dancecollective/gigboard/internal/app/store/skills"
	"github.com/dancecollective/gigboard/internal/app/store/users"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Manager composes the gateway stores behind the session operations.
type Manager struct {
	Users     *users.Store
	Roles     *roles.Store
	Skills    *skills.Store
	Employers *employers.Store
	Members   *members.Store
	Log       *zap.Logger
}

// NewManager constructs a session Manager.
func NewManager(u *users.Store, r *roles.Store, s *skills.Store, e *employers.Store, m *members.Store, logger *zap.Logger) *Manager {
	return &Manager{Users: u, Roles: r, Skills: s, Employers: e, Members: m, Log: logger}
}

// Login authenticates and builds a fully enriched session.
//
// Only the credential exchange itself can fail the login. Every enrichment
// step afterward (profile, roles, skills, employer membership) is best
// effort: a failure leaves that part of the session empty and the user
// signed in. skipEmployerLookup suppresses the membership call, used during
// registration before the membership exists.
func (m *Manager) Login(ctx context.Context, email, password string, skipEmployerLookup bool) (auth.Session, error) {
	tokens, err := m.Users.Login(ctx, email, password)
	if err != nil {
		return auth.Session{}, err
	}

	s := auth.Session{Token: tokens.AccessToken}

	me, err := m.Users.Me(ctx, s.Token)
	if err != nil {
		m.Log.Warn("profile fetch after login failed", zap.Error(err))
		s.User = models.User{Email: email}
		// Without a user id the session is unusable; still report the
		// login itself as failed so the form shows something actionable.
		return auth.Session{}, fmt.Errorf("fetch profile: %w", err)
	}
	s.User = me

	m.enrich(ctx, &s, skipEmployerLookup)
	return s, nil
}

// enrich fills roles, skills, and employer membership into s, swallowing
// every failure.
func (m *Manager) enrich(ctx context.Context, s *auth.Session, skipEmployerLookup bool) {
	g := new(errgroup.Group)
	var roleNames, skillNames []string

	g.Go(func() error {
		names, err := m.Roles.Mine(ctx, s.Token)
		if err != nil {
			m.Log.Warn("role fetch failed", zap.Int64("user_id", s.User.UserID), zap.Error(err))
			return nil
		}
		roleNames = names
		return nil
	})
	g.Go(func() error {
		names, err := m.Skills.ForUser(ctx, s.Token, s.User.UserID)
		if err != nil {
			m.Log.Warn("skill fetch failed", zap.Int64("user_id", s.User.UserID), zap.Error(err))
			return nil
		}
		skillNames = names
		return nil
	})
	_ = g.Wait()

	s.Roles = roleNames
	s.Skills = skillNames
	if s.ActiveRole == "" && len(s.Roles) > 0 {
		s.ActiveRole = s.Roles[0]
	}

	if skipEmployerLookup || !s.HasRole(models.RoleEmployer) {
		return
	}

	membership, err := m.Members.Me(ctx, s.Token)
	if err != nil {
		if err != members.ErrNoMembership {
			m.Log.Warn("membership fetch failed", zap.Int64("user_id", s.User.UserID), zap.Error(err))
		}
		return
	}
	s.User.EmployerID = membership.EmployerID
	s.User.MemberRole = membership.MemberRole
}

// Refresh re-fetches roles and skills for a hydrated session that is
// missing either, guarding against a partial persisted blob. It returns the
// possibly updated session and whether anything changed.
func (m *Manager) Refresh(ctx context.Context, s auth.Session) (auth.Session, bool) {
	if !s.SignedIn() || (len(s.Roles) > 0 && len(s.Skills) > 0) {
		return s, false
	}

	g := new(errgroup.Group)
	changed := false
	var roleNames, skillNames []string

	if len(s.Roles) == 0 {
		g.Go(func() error {
			names, err := m.Roles.Mine(ctx, s.Token)
			if err != nil {
				m.Log.Warn("role refresh failed", zap.Error(err))
				return nil
			}
			roleNames = names
			return nil
		})
	}
	if len(s.Skills) == 0 {
		g.Go(func() error {
			names, err := m.Skills.ForUser(ctx, s.Token, s.User.UserID)
			if err != nil {
				m.Log.Warn("skill refresh failed", zap.Error(err))
				return nil
			}
			skillNames = names
			return nil
		})
	}
	_ = g.Wait()

	if len(roleNames) > 0 {
		s.Roles = roleNames
		changed = true
	}
	if len(skillNames) > 0 {
		s.Skills = skillNames
		changed = true
	}
	if s.ActiveRole == "" && len(s.Roles) > 0 {
		s.ActiveRole = s.Roles[0]
		changed = true
	}
	return s, changed
}

// SetActiveRole switches the session's role lens. Roles the session does
// not hold are ignored.
func (m *Manager) SetActiveRole(s auth.Session, role string) (auth.Session, bool) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !s.HasRole(role) {
		return s, false
	}
	s.ActiveRole = role
	return s, true
}
