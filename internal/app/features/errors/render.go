// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dancecollective/gigboard/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}

	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Sign in required", backURL),
		Message: "Please sign in to continue.",
	}

	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "error_forbidden", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}

	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied", backURL),
		Message: msg,
	}

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_forbidden", data)
}

// RenderServerError shows a generic failure page. Handlers call this after
// logging the underlying error; the page itself never exposes it.
func RenderServerError(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something went wrong", "/"),
		Message: "Something went wrong on our side. Please try again in a moment.",
	}

	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "error_server", data)
}
