package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/domain/models"
)

// DancerSession returns a signed-in session with the dancer role active.
func DancerSession() auth.Session {
	return auth.Session{
		Token:      TestToken,
		User:       models.User{UserID: 42, UserName: "Ada Test", Email: "ada@example.com"},
		Roles:      []string{models.RoleDancer},
		Skills:     []string{"ballet"},
		ActiveRole: models.RoleDancer,
	}
}

// ChoreographerSession returns a signed-in session with the choreographer
// role active.
func ChoreographerSession() auth.Session {
	s := DancerSession()
	s.Roles = []string{models.RoleChoreographer}
	s.ActiveRole = models.RoleChoreographer
	return s
}

// EmployerSession returns a signed-in session with the employer role active
// and an employer membership merged in.
func EmployerSession() auth.Session {
	return auth.Session{
		Token: TestToken,
		User: models.User{
			UserID: 42, UserName: "Ada Test", Email: "ada@example.com",
			EmployerID: 7, MemberRole: "owner",
		},
		Roles:      []string{models.RoleEmployer},
		ActiveRole: models.RoleEmployer,
	}
}

// WithSession injects a session into the request context, bypassing the
// cookie middleware.
func WithSession(r *http.Request, s auth.Session) *http.Request {
	return auth.WithTestSession(r, s)
}

// NewAuthenticatedRequest builds a request carrying the given session.
func NewAuthenticatedRequest(method, target string, s auth.Session) *http.Request {
	return WithSession(httptest.NewRequest(method, target, nil), s)
}

// ResponseRecorder wraps httptest.ResponseRecorder with assertion helpers.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	if location := r.Header().Get("Location"); location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks that the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
