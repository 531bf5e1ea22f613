// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the gig board.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: GIGBOARD_API_BASE_URL, GIGBOARD_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:5000", Desc: "Base URL of the marketplace REST API"},
	{Name: "api_timeout", Default: "10s", Desc: "HTTP client timeout for a single backend request"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "gigboard-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789ABCD", Desc: "32-byte CSRF signing key"},

	{Name: "site_name", Default: "Dance Collective", Desc: "Site display name for page titles and the header"},

	{Name: "probe_interval", Default: "30s", Desc: "Interval between backend reachability probes"},

	{Name: "timeout_ping", Default: "2s", Desc: "Timeout for backend reachability checks"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single reads and lookups"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries and single writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for multi-call sequences"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, GIGBOARD_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GIGBOARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: appValues.String("api_base_url"),
		APITimeout: appValues.Duration("api_timeout", 10*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		CSRFKey: appValues.String("csrf_key"),

		SiteName: appValues.String("site_name"),

		ProbeInterval: appValues.Duration("probe_interval", 30*time.Second),

		TimeoutPing:   appValues.Duration("timeout_ping", 2*time.Second),
		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup. The
// API base URL is checked here so a typo fails fast instead of surfacing as
// a wall of unreachable-backend warnings at runtime.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if !urlutil.IsValidAbsHTTPURL(appCfg.APIBaseURL) {
		logger.Error("invalid API base URL", zap.String("api_base_url", appCfg.APIBaseURL))
		return fmt.Errorf("api_base_url %q is not an absolute http(s) URL", appCfg.APIBaseURL)
	}

	if len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(appCfg.CSRFKey))
	}

	if coreCfg.Env == "prod" {
		if len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("session_key must be at least 32 chars in production")
		}
		if appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
			return fmt.Errorf("session_key is still the dev default; set GIGBOARD_SESSION_KEY")
		}
		if appCfg.CSRFKey == "dev-only-csrf-key-0123456789ABCD" {
			return fmt.Errorf("csrf_key is still the dev default; set GIGBOARD_CSRF_KEY")
		}
	}

	return nil
}
