// internal/app/features/gigs/templates.go
package gigs

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "gigs",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
