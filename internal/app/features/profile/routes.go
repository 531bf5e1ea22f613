// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account page and its mutation endpoints under /profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeProfile)
		pr.Post("/roles/add", h.HandleAddRole)
		pr.Post("/roles/remove", h.HandleRemoveRole)
		pr.Post("/skills/add", h.HandleAddSkill)
		pr.Post("/skills/remove", h.HandleRemoveSkill)
		pr.Post("/media/upload", h.HandleUploadMedia)
		pr.Post("/media/delete", h.HandleDeleteMedia)
		pr.Post("/delete", h.HandleDeleteAccount)
	})

	return r
}
