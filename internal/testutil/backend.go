// Package testutil provides a fake marketplace backend and session fixtures
// for handler tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TestToken is the bearer token the fake backend accepts.
const TestToken = "test-access-token"

// Backend is an in-memory stand-in for the REST API. Seed its fields, then
// point a backend.Client at URL(). Calls records request counts keyed
// "METHOD /path"; Fail forces a status for a key.
type Backend struct {
	mu     sync.Mutex
	server *httptest.Server

	Password   string
	User       models.User
	UserRoles  []string
	UserSkills []string
	Membership *models.EmployerMember

	RoleList   []string
	SkillList  []string
	EventTypes []string
	StatusList []string

	Employers    []models.Employer
	Gigs         []models.Gig
	GigRoles     map[int64][]models.GigRole
	Applications []models.Application
	Media        models.UserMedia

	Calls  map[string]int
	Fail   map[string]int
	nextID int64
}

// NewBackend starts a fake backend with sensible master lists.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		Password:   "hunter22",
		User:       models.User{UserID: 42, UserName: "Ada Test", Email: "ada@example.com", DOB: "2000-01-02"},
		RoleList:   []string{models.RoleDancer, models.RoleChoreographer, models.RoleEmployer},
		SkillList:  []string{"ballet", "hip hop", "jazz", "tap"},
		EventTypes: []string{"concert", "music video", "theatre"},
		StatusList: []string{"applied", "shortlisted", "accepted", "rejected", "withdrawn"},
		GigRoles:   map[int64][]models.GigRole{},
		Calls:      map[string]int{},
		Fail:       map[string]int{},
		nextID:     100,
	}
	b.server = httptest.NewServer(b.router())
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the fake backend's base URL.
func (b *Backend) URL() string { return b.server.URL }

// Client returns a backend.Client wired to the fake server.
func (b *Backend) Client() *backend.Client {
	return backend.New(b.server.URL, 5*time.Second, zap.NewNop())
}

// CallCount returns how often "METHOD /path" was hit.
func (b *Backend) CallCount(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Calls[method+" "+path]
}

// FailWith makes the given route answer with status until cleared.
func (b *Backend) FailWith(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Fail[method+" "+path] = status
}

// SeedGig adds a gig (and optional role rows) and returns its id.
func (b *Backend) SeedGig(g models.Gig, roles ...models.GigRole) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if g.GigID == 0 {
		b.nextID++
		g.GigID = b.nextID
	}
	b.Gigs = append(b.Gigs, g)
	for i := range roles {
		roles[i].GigID = g.GigID
	}
	if len(roles) > 0 {
		b.GigRoles[g.GigID] = append(b.GigRoles[g.GigID], roles...)
	}
	return g.GigID
}

// SeedApplication adds an application and returns its id.
func (b *Backend) SeedApplication(a models.Application) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a.ApplicationID == 0 {
		b.nextID++
		a.ApplicationID = b.nextID
	}
	b.Applications = append(b.Applications, a)
	return a.ApplicationID
}

func (b *Backend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(b.track)

	r.Post("/users/register", b.handleRegister)
	r.Post("/users/login", b.handleLogin)
	r.Get("/users/me", b.authed(b.handleMe))
	r.Delete("/users/{id}", b.authed(b.handleDeleteUser))

	r.Get("/users-roles/myroles", b.authed(b.handleMyRoles))
	r.Post("/users-roles/roles", b.authed(b.handleAssignRole))
	r.Delete("/users-roles/roles", b.authed(b.handleRemoveRole))
	r.Get("/roles/", b.listHandler(&b.RoleList))
	r.Get("/skills/", b.listHandler(&b.SkillList))
	r.Get("/users-skills/{id}/skills", b.authed(b.handleUserSkills))
	r.Post("/users-skills/skills", b.authed(b.handleAssignSkill))
	r.Delete("/users-skills/skills", b.authed(b.handleRemoveSkill))

	r.Get("/event-types/", b.listHandler(&b.EventTypes))
	r.Get("/application-status/", b.listHandler(&b.StatusList))
	r.Get("/member-types/", b.listHandler(&[]string{"owner", "manager", "member"}))

	r.Post("/employers/", b.authed(b.handleCreateEmployer))
	r.Get("/employer-members/me", b.authed(b.handleMembershipMe))
	r.Post("/employer-members/", b.authed(b.handleCreateMembership))

	r.Get("/gigs/", b.authed(b.handleListGigs))
	r.Post("/gigs/", b.authed(b.handleCreateGig))
	r.Patch("/gigs/{id}", b.authed(b.handleUpdateGig))
	r.Delete("/gigs/{id}", b.authed(b.handleDeleteGig))

	r.Get("/gigs-roles/{id}", b.authed(b.handleGigRoles))
	r.Post("/gigs-roles/", b.authed(b.handleCreateGigRole))

	r.Get("/applications/", b.authed(b.handleListApplications))
	r.Post("/applications/", b.authed(b.handleApply))
	r.Patch("/applications/{id}", b.authed(b.handlePatchApplication))

	r.Post("/uploads/cloudinary/sign", b.authed(b.handleSign))
	r.Get("/users/me/media", b.authed(b.handleMyMedia))
	r.Post("/users/me/media", b.authed(b.handleSaveMedia))
	r.Delete("/users/me/media/{kind}", b.authed(b.handleDeleteMedia))

	return r
}

// track counts calls and applies forced failures. Keys use the raw request
// path so tests match what the client sends.
func (b *Backend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.Calls[key]++
		status := b.Fail[key]
		b.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"error": "forced failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+TestToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing or invalid token"})
			return
		}
		h(w, r)
	}
}

func (b *Backend) listHandler(names *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, *names)
	}
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		DateOfBirth string `json:"date_of_birth"`
		Password    string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.User = models.User{UserID: 42, UserName: in.Name, Email: in.Email, DOB: in.DateOfBirth}
	b.Password = in.Password
	writeJSON(w, http.StatusCreated, map[string]any{
		"user_id": b.User.UserID, "user_name": in.Name, "email": in.Email, "dob": in.DateOfBirth,
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	if in.Email != b.User.Email || in.Password != b.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": TestToken, "refresh_token": "test-refresh-token",
	})
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.User)
}

func (b *Backend) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (b *Backend) handleMyRoles(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.UserRoles)
}

func (b *Backend) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RoleName string `json:"role_name"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.UserRoles = append(b.UserRoles, in.RoleName)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (b *Backend) handleRemoveRole(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RoleName string `json:"role_name"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.UserRoles = remove(b.UserRoles, in.RoleName)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (b *Backend) handleUserSkills(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.UserSkills)
}

func (b *Backend) handleAssignSkill(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SkillName string `json:"skill_name"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.UserSkills = append(b.UserSkills, in.SkillName)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (b *Backend) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SkillName string `json:"skill_name"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.UserSkills = remove(b.UserSkills, in.SkillName)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (b *Backend) handleCreateEmployer(w http.ResponseWriter, r *http.Request) {
	var in models.Employer
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	in.EmployerID = b.nextID
	b.Employers = append(b.Employers, in)
	writeJSON(w, http.StatusCreated, map[string]any{"status": "ok", "employer": in})
}

func (b *Backend) handleMembershipMe(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Membership == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "User is not an employer member"})
		return
	}
	writeJSON(w, http.StatusOK, b.Membership)
}

func (b *Backend) handleCreateMembership(w http.ResponseWriter, r *http.Request) {
	var in models.EmployerMember
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	in.UserID = b.User.UserID
	b.Membership = &in
	writeJSON(w, http.StatusCreated, map[string]any{"status": "created", "member": in})
}

func (b *Backend) handleListGigs(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Gig{}
	employerFilter, _ := strconv.ParseInt(r.URL.Query().Get("employer_id"), 10, 64)
	for _, g := range b.Gigs {
		if employerFilter != 0 && g.EmployerID != employerFilter {
			continue
		}
		out = append(out, g)
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "gigs": out})
}

func (b *Backend) handleCreateGig(w http.ResponseWriter, r *http.Request) {
	var in models.Gig
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	in.GigID = b.nextID
	in.PostedByUserID = b.User.UserID
	b.Gigs = append(b.Gigs, in)
	writeJSON(w, http.StatusCreated, map[string]any{"status": "ok", "gig": in})
}

func (b *Backend) handleUpdateGig(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var in map[string]any
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Gigs {
		if b.Gigs[i].GigID == id {
			if v, ok := in["gig_name"].(string); ok {
				b.Gigs[i].GigName = v
			}
			if v, ok := in["gig_details"].(string); ok {
				b.Gigs[i].GigDetails = v
			}
			writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "gig": b.Gigs[i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Gig not found"})
}

func (b *Backend) handleDeleteGig(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Gigs {
		if b.Gigs[i].GigID == id {
			b.Gigs = append(b.Gigs[:i], b.Gigs[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Gig not found"})
}

func (b *Backend) handleGigRoles(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	rows := b.GigRoles[id]
	if len(rows) == 0 {
		// Matches the real backend, which 400s instead of returning [].
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Failed to fetch gig roles"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (b *Backend) handleCreateGigRole(w http.ResponseWriter, r *http.Request) {
	var in models.GigRole
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	in.GigRoleID = b.nextID
	b.GigRoles[in.GigID] = append(b.GigRoles[in.GigID], in)
	writeJSON(w, http.StatusCreated, in)
}

func (b *Backend) handleListApplications(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gigID, _ := strconv.ParseInt(r.URL.Query().Get("gig_id"), 10, 64); gigID != 0 {
		out := []models.Application{}
		for _, a := range b.Applications {
			if a.GigID == gigID {
				out = append(out, a)
			}
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeJSON(w, http.StatusOK, b.Applications)
}

func (b *Backend) handleApply(w http.ResponseWriter, r *http.Request) {
	var in struct {
		GigID int64 `json:"gig_id"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	app := models.Application{
		ApplicationID: b.nextID,
		GigID:         in.GigID,
		UserID:        b.User.UserID,
		Status:        models.StatusApplied,
	}
	b.Applications = append(b.Applications, app)
	writeJSON(w, http.StatusCreated, map[string]any{"status": "applied", "application": app})
}

func (b *Backend) handlePatchApplication(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var in struct {
		Status string `json:"status"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Applications {
		if b.Applications[i].ApplicationID == id {
			b.Applications[i].Status = in.Status
			writeJSON(w, http.StatusOK, b.Applications[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Application not found"})
}

func (b *Backend) handleSign(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Kind string `json:"kind"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	writeJSON(w, http.StatusOK, models.UploadTicket{
		CloudName:      "test-cloud",
		APIKey:         "test-api-key",
		Timestamp:      1700000000,
		Signature:      "test-signature",
		Folder:         "users/42/" + in.Kind,
		ResourceType:   "image",
		AllowedFormats: []string{"jpg", "png"},
	})
}

func (b *Backend) handleMyMedia(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.Media)
}

func (b *Backend) handleSaveMedia(w http.ResponseWriter, r *http.Request) {
	var in models.MediaItem
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	switch in.Kind {
	case models.MediaProfilePhoto:
		b.Media.ProfilePhoto = &in
	case models.MediaResume:
		b.Media.Resume = &in
	case models.MediaShowreel:
		b.Media.Showreel = &in
	}
	writeJSON(w, http.StatusCreated, in)
}

func (b *Backend) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	b.mu.Lock()
	defer b.mu.Unlock()
	switch kind {
	case models.MediaProfilePhoto:
		b.Media.ProfilePhoto = nil
	case models.MediaResume:
		b.Media.Resume = nil
	case models.MediaShowreel:
		b.Media.Showreel = nil
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func remove(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
