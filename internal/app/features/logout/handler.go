// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log     *zap.Logger
	Cookies *auth.SessionManager
}

func NewHandler(cookies *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:     logger,
		Cookies: cookies,
	}
}

// ServeLogout handles GET /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Cookies.Clear(w, r); err != nil {
		// Cookie still gets a deletion header even when the old value
		// would not decode; log and carry on.
		h.Log.Warn("clear session failed during logout", zap.Error(err))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	// Non-HTMX: standard redirect home.
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
