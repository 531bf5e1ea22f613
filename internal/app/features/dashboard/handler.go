// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	uierrors "github.com/dancecollective/gigboard/internal/app/features/errors"
	"github.com/dancecollective/gigboard/internal/app/store/applications"
	"github.com/dancecollective/gigboard/internal/app/store/eventtypes"
	"github.com/dancecollective/gigboard/internal/app/store/gigroles"
	"github.com/dancecollective/gigboard/internal/app/store/gigs"
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Log          *zap.Logger
	Gigs         *gigs.Store
	GigRoles     *gigroles.Store
	Applications *applications.Store
	EventTypes   *eventtypes.Store
	ErrLog       *uierrors.ErrorLogger
}

func NewHandler(
	gigStore *gigs.Store,
	gigRoleStore *gigroles.Store,
	appStore *applications.Store,
	eventTypeStore *eventtypes.Store,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:          logger,
		Gigs:         gigStore,
		GigRoles:     gigRoleStore,
		Applications: appStore,
		EventTypes:   eventTypeStore,
		ErrLog:       errLog,
	}
}

// ServeDashboard dispatches to the view for the session's active role.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	s, ok := auth.CurrentSession(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch s.ActiveRole {
	case models.RoleDancer, models.RoleChoreographer:
		h.ServePerformer(w, r, s)
	case models.RoleEmployer:
		h.ServeEmployer(w, r, s)
	default:
		// Signed in but no role yet: the profile page is where roles get
		// added.
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	}
}
