// internal/app/features/applications/routes.go
package applications

import (
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the application actions under /applications.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/apply", h.HandleApply)
		pr.Post("/withdraw", h.HandleWithdraw)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleEmployer))
		pr.Post("/decide", h.HandleDecide)
	})

	return r
}
