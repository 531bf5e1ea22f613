// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"

	"github.com/dancecollective/gigboard/internal/app/system/auth"
	"github.com/dancecollective/gigboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

var (
	siteMu   sync.RWMutex
	siteName = models.DefaultSiteName
)

// Configure sets the site name shown in page chrome. Called once from
// bootstrap.
func Configure(name string) {
	siteMu.Lock()
	defer siteMu.Unlock()
	if name != "" {
		siteName = name
	}
}

// SiteName returns the configured site name.
func SiteName() string {
	siteMu.RLock()
	defer siteMu.RUnlock()
	return siteName
}

// BaseVM contains the common fields for all view models. Embed it in
// feature-specific view models:
//
//	type pageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := pageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from session middleware)
	IsLoggedIn bool
	Role       string // active role lens
	Roles      []string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName(),
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if s, ok := auth.CurrentSession(r); ok {
		vm.IsLoggedIn = true
		vm.Role = s.ActiveRole
		vm.Roles = s.Roles
		vm.UserName = s.User.UserName
	}

	return vm
}
