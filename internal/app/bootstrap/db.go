// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ConnectDB builds the marketplace API client. There is no connection to
// open; the client is stateless and reachability is verified once here so a
// dead backend shows up in the startup log rather than on the first request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	api := backend.New(appCfg.APIBaseURL, appCfg.APITimeout, logger)

	if err := api.Ping(ctx); err != nil {
		// The backend being down must not stop the front end from serving
		// its health endpoint and error pages.
		logger.Warn("marketplace backend unreachable at startup",
			zap.String("api_base_url", appCfg.APIBaseURL),
			zap.Error(err))
	} else {
		logger.Info("marketplace backend reachable",
			zap.String("api_base_url", appCfg.APIBaseURL))
	}

	return DBDeps{
		API:   api,
		Probe: workers.NewBackendProbe(api, logger, appCfg.ProbeInterval),
	}, nil
}

// EnsureSchema is a no-op: the backend owns all persistent state.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return nil
}
