package session_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dancecollective/gigboard/internal/app/session"
	"github.com/dancecollective/gigboard/internal/app/store/employers"
	"github.com/dancecollective/gigboard/internal/app/store/members"
	"github.com/dancecollective/gigboard/internal/app/store/roles"
	"github.com/dancecollective/gigboard/internal/app/store/skills"
	"github.com/dancecollective/gigboard/internal/app/store/users"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/dancecollective/gigboard/internal/testutil"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) (*session.Manager, *testutil.Backend) {
	t.Helper()
	b := testutil.NewBackend(t)
	api := b.Client()
	m := session.NewManager(
		users.New(api),
		roles.New(api),
		skills.New(api),
		employers.New(api),
		members.New(api),
		zap.NewNop(),
	)
	return m, b
}

func TestLogin_PopulatesSession(t *testing.T) {
	m, b := newTestManager(t)
	b.UserRoles = []string{models.RoleDancer}
	b.UserSkills = []string{"ballet"}

	s, err := m.Login(context.Background(), "ada@example.com", "hunter22", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if s.Token != testutil.TestToken {
		t.Errorf("token: got %q", s.Token)
	}
	if s.User.UserID != 42 {
		t.Errorf("user id: got %d, want 42", s.User.UserID)
	}
	if len(s.Roles) != 1 || s.Roles[0] != models.RoleDancer {
		t.Errorf("roles: got %v", s.Roles)
	}
	if s.ActiveRole != models.RoleDancer {
		t.Errorf("active role: got %q, want dancer", s.ActiveRole)
	}
	if len(s.Skills) != 1 {
		t.Errorf("skills: got %v", s.Skills)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Login(context.Background(), "ada@example.com", "wrong", false)
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if err.Error() != "Invalid credentials" {
		t.Errorf("error message: got %q", err.Error())
	}
}

func TestLogin_RoleFetchFailureIsSwallowed(t *testing.T) {
	m, b := newTestManager(t)
	b.FailWith("GET", "/users-roles/myroles", http.StatusInternalServerError)

	s, err := m.Login(context.Background(), "ada@example.com", "hunter22", false)
	if err != nil {
		t.Fatalf("Login should survive role fetch failure, got %v", err)
	}
	if len(s.Roles) != 0 {
		t.Errorf("roles: got %v, want empty", s.Roles)
	}
	if !s.SignedIn() {
		t.Error("session should still be signed in")
	}
}

func TestLogin_EmployerMembershipMerged(t *testing.T) {
	m, b := newTestManager(t)
	b.UserRoles = []string{models.RoleEmployer}
	b.Membership = &models.EmployerMember{EmployerID: 7, MemberRole: "owner"}

	s, err := m.Login(context.Background(), "ada@example.com", "hunter22", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.User.EmployerID != 7 || s.User.MemberRole != "owner" {
		t.Errorf("membership not merged: %+v", s.User)
	}
}

func TestLogin_SkipEmployerLookup(t *testing.T) {
	m, b := newTestManager(t)
	b.UserRoles = []string{models.RoleEmployer}
	b.Membership = &models.EmployerMember{EmployerID: 7, MemberRole: "owner"}

	s, err := m.Login(context.Background(), "ada@example.com", "hunter22", true)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.User.EmployerID != 0 {
		t.Errorf("employer lookup should have been skipped, got employer_id %d", s.User.EmployerID)
	}
	if got := b.CallCount("GET", "/employer-members/me"); got != 0 {
		t.Errorf("membership endpoint called %d times, want 0", got)
	}
}

func TestLogin_NoMembershipIsNotAnError(t *testing.T) {
	m, b := newTestManager(t)
	b.UserRoles = []string{models.RoleEmployer}
	// Membership left nil: backend answers 400.

	s, err := m.Login(context.Background(), "ada@example.com", "hunter22", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.User.EmployerID != 0 {
		t.Errorf("employer id: got %d, want 0", s.User.EmployerID)
	}
}

func TestRefresh_PopulatesMissingRolesAndActiveRole(t *testing.T) {
	m, b := newTestManager(t)
	b.UserRoles = []string{models.RoleDancer, models.RoleEmployer}
	b.UserSkills = []string{"jazz"}

	hydrated := auth.Session{
		Token: testutil.TestToken,
		User:  models.User{UserID: 42, UserName: "Ada Test", Email: "ada@example.com"},
	}

	s, changed := m.Refresh(context.Background(), hydrated)
	if !changed {
		t.Fatal("Refresh should report a change")
	}
	if len(s.Roles) != 2 {
		t.Errorf("roles: got %v", s.Roles)
	}
	if s.ActiveRole != models.RoleDancer {
		t.Errorf("active role: got %q, want first fetched role", s.ActiveRole)
	}
	if len(s.Skills) != 1 {
		t.Errorf("skills: got %v", s.Skills)
	}
}

func TestRefresh_CompleteSessionUntouched(t *testing.T) {
	m, b := newTestManager(t)

	s := testutil.DancerSession()
	got, changed := m.Refresh(context.Background(), s)
	if changed {
		t.Error("Refresh should not change a complete session")
	}
	if got.ActiveRole != s.ActiveRole {
		t.Errorf("active role changed: %q", got.ActiveRole)
	}
	if b.CallCount("GET", "/users-roles/myroles") != 0 {
		t.Error("Refresh should not call the backend for a complete session")
	}
}

func TestRefresh_KeepsExistingActiveRole(t *testing.T) {
	m, b := newTestManager(t)
	b.UserRoles = []string{models.RoleDancer, models.RoleChoreographer}

	s := auth.Session{
		Token:      testutil.TestToken,
		User:       models.User{UserID: 42},
		ActiveRole: models.RoleChoreographer,
	}
	got, _ := m.Refresh(context.Background(), s)
	if got.ActiveRole != models.RoleChoreographer {
		t.Errorf("active role: got %q, want preserved choreographer", got.ActiveRole)
	}
}

func TestSetActiveRole(t *testing.T) {
	m, _ := newTestManager(t)
	s := auth.Session{Roles: []string{"dancer", "employer"}, ActiveRole: "dancer"}

	got, ok := m.SetActiveRole(s, "Employer")
	if !ok || got.ActiveRole != "employer" {
		t.Errorf("SetActiveRole: ok=%v role=%q", ok, got.ActiveRole)
	}

	got, ok = m.SetActiveRole(s, "choreographer")
	if ok || got.ActiveRole != "dancer" {
		t.Errorf("unheld role should be ignored: ok=%v role=%q", ok, got.ActiveRole)
	}
}
