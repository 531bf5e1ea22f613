package profile_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dancecollective/gigboard/internal/app/features/errors"
	"github.com/dancecollective/gigboard/internal/app/features/profile"
	"github.com/dancecollective/gigboard/internal/app/session"
	"github.com/dancecollective/gigboard/internal/app/store/employers"
	"github.com/dancecollective/gigboard/internal/app/store/media"
	"github.com/dancecollective/gigboard/internal/app/store/members"
	"github.com/dancecollective/gigboard/internal/app/store/roles"
	"github.com/dancecollective/gigboard/internal/app/store/skills"
	"github.com/dancecollective/gigboard/internal/app/store/users"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/mediaupload"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/dancecollective/gigboard/internal/testutil"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newHandler(t *testing.T) (*profile.Handler, *testutil.Backend) {
	t.Helper()
	be := testutil.NewBackend(t)
	api := be.Client()

	cookies, err := auth.NewSessionManager(testKey, "gigboard_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	h := &profile.Handler{
		Log:     zap.NewNop(),
		Cookies: cookies,
		Sessions: session.NewManager(
			users.New(api), roles.New(api), skills.New(api),
			employers.New(api), members.New(api), zap.NewNop(),
		),
		Users:   users.New(api),
		Roles:   roles.New(api),
		Skills:  skills.New(api),
		Media:   media.New(api),
		Uploads: mediaupload.New(5 * time.Second),
		ErrLog:  uierrors.NewErrorLogger(zap.NewNop()),
	}
	return h, be
}

// serve runs a handler method with a recover wrapper; rendering needs a
// booted template engine, and these tests assert on redirects, cookies, and
// backend traffic.
func serve(handle http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		handle(rec, req)
	}()
	return rec
}

func postForm(handle http.HandlerFunc, target string, form url.Values, s auth.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(handle, testutil.WithSession(req, s))
}

func TestServeProfile_RepairsPartialSession(t *testing.T) {
	h, be := newHandler(t)
	be.UserRoles = []string{"dancer"}
	be.UserSkills = []string{"ballet"}

	s := testutil.DancerSession()
	s.Roles = nil
	s.Skills = nil
	s.ActiveRole = ""
	rec := serve(h.ServeProfile, testutil.NewAuthenticatedRequest("GET", "/profile", s))

	if got := be.CallCount("GET", "/users-roles/myroles"); got != 1 {
		t.Errorf("role refresh calls: got %d, want 1", got)
	}
	if got := be.CallCount("GET", "/users-skills/42/skills"); got != 1 {
		t.Errorf("skill refresh calls: got %d, want 1", got)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected the repaired session to be written back to the cookie")
	}
}

func TestServeProfile_CompleteSessionSkipsRefresh(t *testing.T) {
	h, be := newHandler(t)

	rec := serve(h.ServeProfile, testutil.NewAuthenticatedRequest("GET", "/profile", testutil.DancerSession()))

	if got := be.CallCount("GET", "/users-roles/myroles"); got != 0 {
		t.Errorf("role refresh calls: got %d, want 0", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no cookie rewrite for a complete session")
	}
}

func TestHandleAddRole(t *testing.T) {
	h, be := newHandler(t)

	rec := postForm(h.HandleAddRole, "/profile/roles/add",
		url.Values{"role": {"Employer"}}, testutil.DancerSession())

	if loc := rec.Header().Get("Location"); loc != "/profile" {
		t.Errorf("redirect: got %q, want /profile", loc)
	}
	if got := be.CallCount("POST", "/users-roles/roles"); got != 1 {
		t.Errorf("assign calls: got %d, want 1", got)
	}
	if len(be.UserRoles) != 1 || be.UserRoles[0] != "employer" {
		t.Errorf("backend roles: got %v, want [employer]", be.UserRoles)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected the new role to be cached in the session cookie")
	}
}

func TestHandleRemoveRole_LastRoleRefused(t *testing.T) {
	h, be := newHandler(t)

	rec := postForm(h.HandleRemoveRole, "/profile/roles/remove",
		url.Values{"role": {"dancer"}}, testutil.DancerSession())

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := be.CallCount("DELETE", "/users-roles/roles"); got != 0 {
		t.Errorf("remove calls: got %d, want 0", got)
	}
}

func TestHandleRemoveRole_SwitchesActiveRole(t *testing.T) {
	h, be := newHandler(t)

	s := testutil.DancerSession()
	s.Roles = []string{"dancer", "choreographer"}
	s.ActiveRole = "dancer"
	rec := postForm(h.HandleRemoveRole, "/profile/roles/remove",
		url.Values{"role": {"dancer"}}, s)

	if loc := rec.Header().Get("Location"); loc != "/profile" {
		t.Errorf("redirect: got %q, want /profile", loc)
	}
	if got := be.CallCount("DELETE", "/users-roles/roles"); got != 1 {
		t.Errorf("remove calls: got %d, want 1", got)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected the session cookie to be rewritten")
	}
}

func TestHandleAddSkill(t *testing.T) {
	h, be := newHandler(t)

	rec := postForm(h.HandleAddSkill, "/profile/skills/add",
		url.Values{"skill": {"Hip Hop"}}, testutil.DancerSession())

	if loc := rec.Header().Get("Location"); loc != "/profile" {
		t.Errorf("redirect: got %q, want /profile", loc)
	}
	if len(be.UserSkills) != 1 || be.UserSkills[0] != "hip hop" {
		t.Errorf("backend skills: got %v, want [hip hop]", be.UserSkills)
	}
}

func TestHandleAddSkill_AlreadyHeldSkipsBackend(t *testing.T) {
	h, be := newHandler(t)

	postForm(h.HandleAddSkill, "/profile/skills/add",
		url.Values{"skill": {"ballet"}}, testutil.DancerSession())

	if got := be.CallCount("POST", "/users-skills/skills"); got != 0 {
		t.Errorf("assign calls: got %d, want 0", got)
	}
}

func TestHandleUploadMedia(t *testing.T) {
	h, be := newHandler(t)

	cloudinary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mediaupload.Result{
			PublicID:     "users/42/profile_photo/abc123",
			SecureURL:    "https://res.cloudinary.test/image/upload/abc123.jpg",
			Format:       "jpg",
			Bytes:        2048,
			ResourceType: "image",
		})
	}))
	defer cloudinary.Close()
	h.Uploads.SetBaseURL(cloudinary.URL)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("kind", "profile_photo")
	fw, _ := mw.CreateFormFile("file", "headshot.jpg")
	fw.Write([]byte("fake image bytes"))
	mw.Close()

	req := httptest.NewRequest("POST", "/profile/media/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(h.HandleUploadMedia, testutil.WithSession(req, testutil.DancerSession()))

	if loc := rec.Header().Get("Location"); loc != "/profile" {
		t.Errorf("redirect: got %q, want /profile", loc)
	}
	if got := be.CallCount("POST", "/uploads/cloudinary/sign"); got != 1 {
		t.Errorf("sign calls: got %d, want 1", got)
	}
	if got := be.CallCount("POST", "/users/me/media"); got != 1 {
		t.Errorf("save calls: got %d, want 1", got)
	}
	if be.Media.ProfilePhoto == nil {
		t.Fatal("expected a profile photo record")
	}
	if be.Media.ProfilePhoto.PublicID != "users/42/profile_photo/abc123" {
		t.Errorf("public id: got %q, want %q",
			be.Media.ProfilePhoto.PublicID, "users/42/profile_photo/abc123")
	}
}

func TestHandleUploadMedia_UnknownKind(t *testing.T) {
	h, be := newHandler(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("kind", "tax_returns")
	fw, _ := mw.CreateFormFile("file", "doc.pdf")
	fw.Write([]byte("nope"))
	mw.Close()

	req := httptest.NewRequest("POST", "/profile/media/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(h.HandleUploadMedia, testutil.WithSession(req, testutil.DancerSession()))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := be.CallCount("POST", "/uploads/cloudinary/sign"); got != 0 {
		t.Errorf("sign calls: got %d, want 0", got)
	}
}

func TestHandleDeleteMedia(t *testing.T) {
	h, be := newHandler(t)
	be.Media.Resume = &models.MediaItem{
		Kind: models.MediaResume, PublicID: "users/42/resume/xyz", SecureURL: "https://res.cloudinary.test/xyz.pdf",
	}

	rec := postForm(h.HandleDeleteMedia, "/profile/media/delete",
		url.Values{"kind": {"resume"}}, testutil.DancerSession())

	if loc := rec.Header().Get("Location"); loc != "/profile" {
		t.Errorf("redirect: got %q, want /profile", loc)
	}
	if got := be.CallCount("DELETE", "/users/me/media/resume"); got != 1 {
		t.Errorf("delete calls: got %d, want 1", got)
	}
	if be.Media.Resume != nil {
		t.Error("expected the resume record to be gone")
	}
}

func TestHandleDeleteAccount(t *testing.T) {
	h, be := newHandler(t)

	rec := postForm(h.HandleDeleteAccount, "/profile/delete", url.Values{}, testutil.DancerSession())

	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect: got %q, want /", loc)
	}
	if got := be.CallCount("DELETE", "/users/42"); got != 1 {
		t.Errorf("delete calls: got %d, want 1", got)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "gigboard_session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the session cookie to be expired")
	}
}
