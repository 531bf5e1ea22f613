// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form should be re-rendered with:
// - The user's previously entered values (echoed back)
// - An error message explaining what went wrong
// - All the context data needed for the form (dropdowns, etc.)
//
// This package provides a Base struct that can be embedded in form data structs
// to handle the common fields, and helper functions to populate them.
//
// Example usage:
//
//	type newGigData struct {
//		formutil.Base
//		GigName string
//		Types   []string
//	}
//
//	// In your handler:
//	data := newGigData{GigName: name}
//	formutil.SetBase(&data.Base, r, "Post a Gig", "/dashboard")
//	data.SetError("Gig name is required.")
//	templates.Render(w, r, "gig_new", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// Decode parses the request form and decodes it into dst, which must be a
// pointer to a struct with `schema` tags. The CSRF token field is ignored.
func Decode(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return decoder.Decode(dst, r.PostForm)
}

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	Title       string
	IsLoggedIn  bool
	Role        string
	UserName    string
	BackURL     string
	CurrentPath string
	CSRFToken   string
	Error       template.HTML
}

// SetBase populates the common Base fields from the request context.
// It extracts user info from the session and sets navigation fields.
//
// Parameters:
//   - b: pointer to the Base struct to populate
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.Title = title
	b.BackURL = httpnav.ResolveBackURL(r, backDefault)
	b.CurrentPath = httpnav.CurrentPath(r)
	b.CSRFToken = csrf.Token(r)

	if s, ok := auth.CurrentSession(r); ok {
		b.IsLoggedIn = true
		b.Role = s.ActiveRole
		b.UserName = s.User.UserName
	}
}

// SetError sets the error message on a Base struct.
// This is a convenience method for setting Error as template.HTML.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(msg)
}
