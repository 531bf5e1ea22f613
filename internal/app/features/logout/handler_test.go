package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dancecollective/gigboard/internal/app/features/logout"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/testutil"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newHandler(t *testing.T) *logout.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager(testKey, "gigboard_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return logout.NewHandler(sm, zap.NewNop())
}

func TestServeLogout_ClearsCookieAndRedirects(t *testing.T) {
	h := newHandler(t)

	req := testutil.NewAuthenticatedRequest("GET", "/logout", testutil.DancerSession())
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location: got %q, want %q", loc, "/")
	}

	res := rec.Result()
	cookies := res.Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a deletion cookie")
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("cookie MaxAge: got %d, want -1", cookies[0].MaxAge)
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	h := newHandler(t)

	req := testutil.NewAuthenticatedRequest("GET", "/logout", testutil.DancerSession())
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/" {
		t.Errorf("HX-Redirect: got %q, want %q", got, "/")
	}
}
