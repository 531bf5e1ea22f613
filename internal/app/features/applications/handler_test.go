package applications_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dancecollective/gigboard/internal/app/features/applications"
	uierrors "github.com/dancecollective/gigboard/internal/app/features/errors"
	appstore "github.com/dancecollective/gigboard/internal/app/store/applications"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/dancecollective/gigboard/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*applications.Handler, *testutil.Backend) {
	t.Helper()
	be := testutil.NewBackend(t)
	h := applications.NewHandler(
		appstore.New(be.Client()),
		uierrors.NewErrorLogger(zap.NewNop()),
		zap.NewNop(),
	)
	return h, be
}

// postForm submits the form with a session injected, recovering render
// panics so error pages don't need a booted template engine.
func postForm(handle http.HandlerFunc, form url.Values, s auth.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/applications/x", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithSession(req, s)

	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		handle(rec, req)
	}()
	return rec
}

func TestHandleApply_CreatesApplication(t *testing.T) {
	h, be := newHandler(t)
	gigID := be.SeedGig(models.Gig{GigName: "Summer Showcase", TypeName: "concert", EmployerID: 7})

	rec := postForm(h.HandleApply, url.Values{"gig_id": {"101"}}, testutil.DancerSession())

	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirect: got %q, want /dashboard", loc)
	}
	if got := be.CallCount("POST", "/applications/"); got != 1 {
		t.Errorf("apply calls: got %d, want 1", got)
	}
	if len(be.Applications) != 1 {
		t.Fatalf("stored applications: got %d, want 1", len(be.Applications))
	}
	app := be.Applications[0]
	if app.GigID != gigID || app.Status != models.StatusApplied {
		t.Errorf("application: got gig %d status %q, want gig %d status %q",
			app.GigID, app.Status, gigID, models.StatusApplied)
	}
}

func TestHandleApply_EmployerRoleForbidden(t *testing.T) {
	h, be := newHandler(t)
	be.SeedGig(models.Gig{GigName: "Summer Showcase", TypeName: "concert", EmployerID: 7})

	rec := postForm(h.HandleApply, url.Values{"gig_id": {"101"}}, testutil.EmployerSession())

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if got := be.CallCount("POST", "/applications/"); got != 0 {
		t.Errorf("apply calls: got %d, want 0", got)
	}
}

func TestHandleApply_BadGigID(t *testing.T) {
	h, be := newHandler(t)

	rec := postForm(h.HandleApply, url.Values{"gig_id": {"banana"}}, testutil.DancerSession())

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := be.CallCount("POST", "/applications/"); got != 0 {
		t.Errorf("apply calls: got %d, want 0", got)
	}
}

func TestHandleWithdraw_PatchesStatus(t *testing.T) {
	h, be := newHandler(t)
	gigID := be.SeedGig(models.Gig{GigName: "Summer Showcase", TypeName: "concert", EmployerID: 7})
	appID := be.SeedApplication(models.Application{GigID: gigID, UserID: 42, Status: models.StatusApplied})

	form := url.Values{"application_id": {"102"}}
	rec := postForm(h.HandleWithdraw, form, testutil.DancerSession())

	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirect: got %q, want /dashboard", loc)
	}
	if got := be.CallCount("PATCH", "/applications/102"); got != 1 {
		t.Errorf("patch calls: got %d, want 1", got)
	}
	for _, a := range be.Applications {
		if a.ApplicationID == appID && a.Status != models.StatusWithdrawn {
			t.Errorf("application status: got %q, want %q", a.Status, models.StatusWithdrawn)
		}
	}
}

func TestHandleDecide_SetsChosenStatus(t *testing.T) {
	h, be := newHandler(t)
	gigID := be.SeedGig(models.Gig{GigName: "Winter Gala", TypeName: "theatre", EmployerID: 7})
	appID := be.SeedApplication(models.Application{GigID: gigID, UserID: 99, Status: models.StatusApplied})

	form := url.Values{"application_id": {"102"}, "decision": {models.StatusShortlisted}}
	rec := postForm(h.HandleDecide, form, testutil.EmployerSession())

	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirect: got %q, want /dashboard", loc)
	}
	for _, a := range be.Applications {
		if a.ApplicationID == appID && a.Status != models.StatusShortlisted {
			t.Errorf("application status: got %q, want %q", a.Status, models.StatusShortlisted)
		}
	}
}

func TestHandleDecide_RejectsUnknownDecision(t *testing.T) {
	h, be := newHandler(t)
	gigID := be.SeedGig(models.Gig{GigName: "Winter Gala", TypeName: "theatre", EmployerID: 7})
	be.SeedApplication(models.Application{GigID: gigID, UserID: 99, Status: models.StatusApplied})

	form := url.Values{"application_id": {"102"}, "decision": {"maybe"}}
	rec := postForm(h.HandleDecide, form, testutil.EmployerSession())

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := be.CallCount("PATCH", "/applications/102"); got != 0 {
		t.Errorf("patch calls: got %d, want 0", got)
	}
}

func TestHandleDecide_ForeignGigForbidden(t *testing.T) {
	h, be := newHandler(t)
	gigID := be.SeedGig(models.Gig{GigName: "Winter Gala", TypeName: "theatre", EmployerID: 8})
	be.SeedApplication(models.Application{GigID: gigID, UserID: 99, Status: models.StatusApplied})
	be.FailWith("PATCH", "/applications/102", http.StatusForbidden)

	form := url.Values{"application_id": {"102"}, "decision": {models.StatusAccepted}}
	rec := postForm(h.HandleDecide, form, testutil.EmployerSession())

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}
