// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"github.com/dancecollective/gigboard/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the API client is
// built, but before the HTTP handler. The timeout budget and site name are
// applied here so every handler sees the configured values, and the
// background reachability probe begins watching the backend.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	viewdata.Configure(appCfg.SiteName)

	deps.Probe.Start()
	return nil
}
