// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler is the errors feature handler.
// No backend access needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied", "/"),
		Message: "You don't have permission to view this page.",
	}
	if s, ok := auth.CurrentSession(r); ok && s.ActiveRole != "" {
		data.Message = "Your current role (" + s.ActiveRole + ") doesn't have access to this page. Try switching roles."
	}

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_forbidden", data)
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Sign in required", "/login"),
		Message: "Please sign in to continue.",
	}

	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "error_forbidden", data)
}

// NotFound renders the 404 page. Wired as the router's NotFound handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Page not found", "/"),
		Message: "The page you're looking for doesn't exist.",
	}

	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_notfound", data)
}
