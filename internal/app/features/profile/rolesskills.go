// internal/app/features/profile/rolesskills.go
package profile

import (
	"context"
	"net/http"

	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/normalize"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleAddRole assigns a marketplace role to the account and caches it in
// the session.
func (h *Handler) HandleAddRole(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	role := normalize.Role(r.PostFormValue("role"))
	if role == "" {
		h.ErrLog.LogBadRequest(w, r, "add role: empty", nil, "Choose a role to add.", "/profile")
		return
	}
	if s.HasRole(role) {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Roles.Assign(ctx, s.Token, s.User.UserID, role); err != nil {
		h.ErrLog.LogServerError(w, r, "assign role", err,
			"The role could not be added. Please try again.", "/profile")
		return
	}

	s.Roles = append(s.Roles, role)
	if s.ActiveRole == "" {
		s.ActiveRole = role
	}
	if err := h.Cookies.Save(w, r, s); err != nil {
		h.Log.Warn("persist session after role add", zap.Error(err))
	}
	h.Log.Info("role added", zap.Int64("user_id", s.User.UserID), zap.String("role", role))
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// HandleRemoveRole drops a role. The last remaining role cannot be removed;
// an account always views the marketplace through some lens.
func (h *Handler) HandleRemoveRole(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	role := normalize.Role(r.PostFormValue("role"))
	if role == "" || !s.HasRole(role) {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	if len(s.Roles) == 1 {
		h.ErrLog.LogBadRequest(w, r, "remove role: last role", nil,
			"You can't remove your only role. Add another role first.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Roles.Remove(ctx, s.Token, s.User.UserID, role); err != nil {
		h.ErrLog.LogServerError(w, r, "remove role", err,
			"The role could not be removed. Please try again.", "/profile")
		return
	}

	s.Roles = removeName(s.Roles, role)
	if s.ActiveRole == role {
		s.ActiveRole = s.Roles[0]
	}
	if err := h.Cookies.Save(w, r, s); err != nil {
		h.Log.Warn("persist session after role removal", zap.Error(err))
	}
	h.Log.Info("role removed", zap.Int64("user_id", s.User.UserID), zap.String("role", role))
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// HandleAddSkill tags the account with a skill from the master list.
func (h *Handler) HandleAddSkill(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	skill := normalize.Skill(r.PostFormValue("skill"))
	if skill == "" {
		h.ErrLog.LogBadRequest(w, r, "add skill: empty", nil, "Choose a skill to add.", "/profile")
		return
	}
	if hasName(s.Skills, skill) {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Skills.Assign(ctx, s.Token, s.User.UserID, skill); err != nil {
		h.ErrLog.LogServerError(w, r, "assign skill", err,
			"The skill could not be added. Please try again.", "/profile")
		return
	}

	s.Skills = append(s.Skills, skill)
	if err := h.Cookies.Save(w, r, s); err != nil {
		h.Log.Warn("persist session after skill add", zap.Error(err))
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// HandleRemoveSkill drops a skill tag.
func (h *Handler) HandleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.CurrentSession(r)
	skill := normalize.Skill(r.PostFormValue("skill"))
	if skill == "" || !hasName(s.Skills, skill) {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Skills.Remove(ctx, s.Token, s.User.UserID, skill); err != nil {
		h.ErrLog.LogServerError(w, r, "remove skill", err,
			"The skill could not be removed. Please try again.", "/profile")
		return
	}

	s.Skills = removeName(s.Skills, skill)
	if err := h.Cookies.Save(w, r, s); err != nil {
		h.Log.Warn("persist session after skill removal", zap.Error(err))
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func hasName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func removeName(names []string, name string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
