// internal/app/system/workers/backendprobe.go
package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// BackendProbe is a background worker that periodically checks whether the
// marketplace API is reachable. The health endpoint reads its last result
// instead of hitting the API on every probe from a load balancer.
type BackendProbe struct {
	api      *backend.Client
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup

	healthy atomic.Bool
	checked atomic.Int64 // unix seconds of last probe
}

// NewBackendProbe creates a new backend reachability worker.
//
// Parameters:
//   - api: the backend API client
//   - logger: zap logger for logging
//   - interval: how often to probe (e.g., 30 seconds)
func NewBackendProbe(api *backend.Client, logger *zap.Logger, interval time.Duration) *BackendProbe {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	p := &BackendProbe{
		api:      api,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
	// Optimistic until the first probe completes.
	p.healthy.Store(true)
	return p
}

// Start begins the background probe loop with an immediate first check.
func (p *BackendProbe) Start() {
	p.wg.Add(1)
	go p.run()
	p.log.Info("backend probe worker started",
		zap.Duration("interval", p.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (p *BackendProbe) Stop() {
	close(p.stopCh)
	p.wg.Wait()
	p.log.Info("backend probe worker stopped")
}

// Healthy reports the result of the most recent probe.
func (p *BackendProbe) Healthy() bool {
	return p.healthy.Load()
}

// LastChecked returns when the backend was last probed, or the zero time if
// no probe has run yet.
func (p *BackendProbe) LastChecked() time.Time {
	secs := p.checked.Load()
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

func (p *BackendProbe) run() {
	defer p.wg.Done()

	p.probe()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.probe()
		}
	}
}

func (p *BackendProbe) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Ping())
	defer cancel()

	err := p.api.Ping(ctx)
	p.checked.Store(time.Now().Unix())

	wasHealthy := p.healthy.Load()
	p.healthy.Store(err == nil)

	switch {
	case err != nil && wasHealthy:
		p.log.Warn("backend unreachable", zap.Error(err))
	case err == nil && !wasHealthy:
		p.log.Info("backend reachable again")
	}
}
