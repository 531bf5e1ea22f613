package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(testKey, "gigboard-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func testSession() auth.Session {
	return auth.Session{
		Token:      "tok123",
		User:       models.User{UserID: 42, UserName: "Ada", Email: "ada@example.com"},
		Roles:      []string{"dancer"},
		ActiveRole: "dancer",
	}
}

// roundTrip saves the session on one response and carries the cookie to a
// fresh request, the way a browser would.
func roundTrip(t *testing.T, sm *auth.SessionManager, s auth.Session) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	if err := sm.Save(rec, req, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	next := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	return next
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "n", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestSaveAndDecode_RoundTrip(t *testing.T) {
	sm := newTestManager(t)
	req := roundTrip(t, sm, testSession())

	got := sm.Decode(req)
	if got.Token != "tok123" {
		t.Errorf("token: got %q, want %q", got.Token, "tok123")
	}
	if got.User.UserID != 42 || got.User.UserName != "Ada" {
		t.Errorf("user: got %+v", got.User)
	}
	if got.ActiveRole != "dancer" {
		t.Errorf("active role: got %q", got.ActiveRole)
	}
}

func TestDecode_NoCookieYieldsEmptySession(t *testing.T) {
	sm := newTestManager(t)
	got := sm.Decode(httptest.NewRequest("GET", "/", nil))
	if got.SignedIn() {
		t.Errorf("expected empty session, got %+v", got)
	}
}

func TestDecode_MalformedBlobYieldsEmptySession(t *testing.T) {
	sm := newTestManager(t)

	// Write garbage into the blob slot directly, then round-trip it.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	sess, _ := sm.GetSession(req)
	sess.Values["session"] = "{not json"
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("save raw session: %v", err)
	}

	next := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}

	got := sm.Decode(next)
	if got.SignedIn() || got.Token != "" {
		t.Errorf("malformed blob should hydrate empty, got %+v", got)
	}
}

func TestSave_EmptySessionDeletesCookie(t *testing.T) {
	sm := newTestManager(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	if err := sm.Save(rec, req, auth.Session{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a deletion cookie")
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("MaxAge: got %d, want -1", cookies[0].MaxAge)
	}
}

func TestHasRole(t *testing.T) {
	s := auth.Session{Roles: []string{"dancer", "employer"}}
	if !s.HasRole("Dancer") {
		t.Error("HasRole should be case-insensitive")
	}
	if s.HasRole("choreographer") {
		t.Error("HasRole matched a role not held")
	}
}

func TestRequireSignedIn_RedirectsAnonymousHTML(t *testing.T) {
	sm := newTestManager(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run for anonymous request")
	})

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	sm.RequireSignedIn(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?return=%2Fdashboard" {
		t.Errorf("location: got %q", loc)
	}
}

func TestRequireSignedIn_PassesAuthenticated(t *testing.T) {
	sm := newTestManager(t)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := auth.WithTestSession(httptest.NewRequest("GET", "/dashboard", nil), testSession())
	sm.RequireSignedIn(next).ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("next handler did not run for signed-in request")
	}
}

func TestRequireRole_WrongActiveRole(t *testing.T) {
	sm := newTestManager(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run for wrong role")
	})

	s := testSession() // active role dancer
	req := auth.WithTestSession(httptest.NewRequest("GET", "/gigs/new", nil), s)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	sm.RequireRole("employer")(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/forbidden" {
		t.Errorf("location: got %q", loc)
	}
}

func TestLoadSession_InjectsIntoContext(t *testing.T) {
	sm := newTestManager(t)
	req := roundTrip(t, sm, testSession())

	var got auth.Session
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.CurrentSession(r)
	})

	sm.LoadSession(next).ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("CurrentSession: not found after LoadSession")
	}
	if got.User.UserID != 42 {
		t.Errorf("user id: got %d, want 42", got.User.UserID)
	}
}
