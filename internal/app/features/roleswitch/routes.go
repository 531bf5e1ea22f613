// internal/app/features/roleswitch/routes.go
package roleswitch

import (
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/", h.HandleSwitch)
	})

	return r
}
