// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// env). AppConfig is everything specific to this front end: where the
// marketplace REST API lives, how sessions and CSRF are keyed, and the
// timeout budget for backend calls.
type AppConfig struct {
	// Marketplace REST API
	APIBaseURL string        // Base URL of the marketplace backend (e.g., http://localhost:5000)
	APITimeout time.Duration // HTTP client timeout for a single backend request

	// Session management
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// CSRF protection
	CSRFKey string // 32-byte key for gorilla/csrf token signing

	// Presentation
	SiteName string // Display name used in page titles and the header

	// Backend reachability probe
	ProbeInterval time.Duration // How often the background probe pings the backend

	// Per-operation timeout budget for handler calls against the backend
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
