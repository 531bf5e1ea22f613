// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the reachability probe and releases the API client's idle
// connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Probe != nil {
		deps.Probe.Stop()
	}
	if deps.API != nil {
		deps.API.Close()
	}
	return nil
}
