// internal/app/features/gigs/routes.go
package gigs

import (
	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts gig management under /gigs. Everything here is employer
// territory; the backend additionally enforces poster-only edit and delete.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleEmployer))

		pr.Get("/new", h.ServeNew)
		pr.Post("/new", h.HandleCreate)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleUpdate)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
