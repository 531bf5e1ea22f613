// internal/app/features/register/routes.go
package register

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeDetails)
	r.Post("/", h.HandleDetails)

	r.Get("/company", h.ServeCompany)
	r.Post("/company", h.HandleCompany)

	r.Get("/skills", h.ServeSkills)
	r.Post("/skills", h.HandleSkills)

	r.Get("/review", h.ServeReview)
	r.Post("/review", h.HandleSubmit)

	return r
}
