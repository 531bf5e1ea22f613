// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dancecollective/gigboard/internal/app/features/errors"
	"github.com/dancecollective/gigboard/internal/app/session"
	"github.com/dancecollective/gigboard/internal/app/store/media"
	"github.com/dancecollective/gigboard/internal/app/store/roles"
	"github.com/dancecollective/gigboard/internal/app/store/skills"
	"github.com/dancecollective/gigboard/internal/app/store/users"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/mediaupload"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"github.com/dancecollective/gigboard/internal/app/system/viewdata"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the account page: identity, roles, skills, media, and the
// delete-account action.
type Handler struct {
	Log      *zap.Logger
	Cookies  *auth.SessionManager
	Sessions *session.Manager
	Users    *users.Store
	Roles    *roles.Store
	Skills   *skills.Store
	Media    *media.Store
	Uploads  *mediaupload.Uploader
	ErrLog   *uierrors.ErrorLogger
}

type profileData struct {
	viewdata.BaseVM
	User            models.User
	HeldRoles       []string
	AvailableRoles  []string
	HeldSkills      []string
	AvailableSkills []string
	IsPerformer     bool
	IsEmployer      bool
	Media           models.UserMedia
	LoadError       string
}

// ServeProfile renders the account page. A session persisted before roles or
// skills finished loading is repaired here and written back to the cookie.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := auth.CurrentSession(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if refreshed, changed := h.Sessions.Refresh(ctx, s); changed {
		s = refreshed
		if err := h.Cookies.Save(w, r, s); err != nil {
			h.Log.Warn("persist refreshed session", zap.Error(err))
		}
	}

	vm := viewdata.NewBaseVM(r, "Your profile", "/dashboard")
	// The nav reflects the repaired session, not the stale cookie snapshot.
	vm.Roles = s.Roles
	vm.Role = s.ActiveRole
	vm.UserName = s.User.UserName

	data := profileData{
		BaseVM:      vm,
		User:        s.User,
		HeldRoles:   s.Roles,
		HeldSkills:  s.Skills,
		IsPerformer: hasPerformerRole(s),
		IsEmployer:  s.HasRole(models.RoleEmployer),
	}

	if names, err := h.Roles.List(ctx); err != nil {
		h.Log.Warn("role master list", zap.Error(err))
	} else {
		data.AvailableRoles = subtract(names, s.Roles)
	}
	if data.IsPerformer {
		if names, err := h.Skills.List(ctx); err != nil {
			h.Log.Warn("skill master list", zap.Error(err))
		} else {
			data.AvailableSkills = subtract(names, s.Skills)
		}
		m, err := h.Media.Mine(ctx, s.Token)
		if err != nil {
			h.Log.Warn("fetch media", zap.Error(err))
			data.LoadError = "Your media could not be loaded right now."
		} else {
			data.Media = m
		}
	}

	templates.Render(w, r, "profile", data)
}

// HandleDeleteAccount removes the account on the backend, then clears the
// session cookie. The backend cascades gigs and applications.
func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Users.Delete(ctx, s.Token, s.User.UserID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete account", err,
			"Your account could not be deleted. Please try again.", "/profile")
		return
	}

	if err := h.Cookies.Clear(w, r); err != nil {
		h.Log.Warn("clear session after account delete", zap.Error(err))
	}
	h.Log.Info("account deleted", zap.Int64("user_id", s.User.UserID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func hasPerformerRole(s auth.Session) bool {
	for _, role := range s.Roles {
		if models.IsPerformerRole(role) {
			return true
		}
	}
	return false
}

// subtract returns the master-list entries the user does not hold yet.
func subtract(master, held []string) []string {
	heldSet := make(map[string]struct{}, len(held))
	for _, name := range held {
		heldSet[strings.ToLower(name)] = struct{}{}
	}
	var out []string
	for _, name := range master {
		if _, ok := heldSet[strings.ToLower(name)]; !ok {
			out = append(out, name)
		}
	}
	return out
}
