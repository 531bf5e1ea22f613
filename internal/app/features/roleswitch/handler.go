// internal/app/features/roleswitch/handler.go
package roleswitch

import (
	"net/http"

	"github.com/dancecollective/gigboard/internal/app/session"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/normalize"
	"go.uber.org/zap"
)

// Handler switches the session's active role lens. Users who hold more than
// one role (a dancer who also runs a company, say) use this to change which
// dashboard and permissions they see.
type Handler struct {
	Log      *zap.Logger
	Cookies  *auth.SessionManager
	Sessions *session.Manager
}

func NewHandler(cookies *auth.SessionManager, sessions *session.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Cookies:  cookies,
		Sessions: sessions,
	}
}

// HandleSwitch handles POST /role.
func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	s, ok := auth.CurrentSession(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	role := normalize.Role(r.FormValue("role"))

	updated, changed := h.Sessions.SetActiveRole(s, role)
	if !changed {
		// Role not held; keep the current lens.
		h.Log.Warn("role switch rejected",
			zap.String("requested_role", role),
			zap.Strings("held_roles", s.Roles))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := h.Cookies.Save(w, r, updated); err != nil {
		h.Log.Error("save session after role switch", zap.Error(err))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.Log.Info("active role switched",
		zap.Int64("user_id", updated.User.UserID),
		zap.String("role", updated.ActiveRole))

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/dashboard")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
