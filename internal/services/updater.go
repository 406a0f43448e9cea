// Package services hosts long-running background services for server mode.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/config"
)

// Updater runs the reconciliation engine on a fixed interval in server mode.
// Each tick is one quote-only run under that tick's wall-clock time.
type Updater struct {
	engine *engine.Engine
	logger *logrus.Entry
	cfg    *config.UpdaterConfig

	// Control
	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewUpdater creates the periodic reconciliation service.
func NewUpdater(eng *engine.Engine, cfg *config.UpdaterConfig, logger *logrus.Logger) *Updater {
	return &Updater{
		engine: eng,
		logger: logger.WithField("component", "updater"),
		cfg:    cfg,
		done:   make(chan struct{}),
	}
}

// Start starts the background update loop.
func (u *Updater) Start(ctx context.Context) error {
	if u.running {
		return nil
	}

	u.running = true
	u.logger.WithField("interval", u.cfg.Interval).Info("Starting reconciliation updater")

	u.wg.Add(1)
	go u.updateLoop(ctx)

	return nil
}

// Stop stops the background update loop.
func (u *Updater) Stop() error {
	if !u.running {
		return nil
	}

	u.logger.Info("Stopping reconciliation updater")
	close(u.done)
	u.wg.Wait()
	u.running = false

	return nil
}

// updateLoop runs the periodic reconcile cycle
func (u *Updater) updateLoop(ctx context.Context) {
	defer u.wg.Done()

	// Initial run on startup
	u.performUpdate(ctx)

	ticker := time.NewTicker(u.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-u.done:
			return
		case <-ticker.C:
			u.performUpdate(ctx)
		}
	}
}

// performUpdate runs one reconcile cycle. A failed run leaves the store as
// the previous run wrote it; the next tick tries again.
func (u *Updater) performUpdate(ctx context.Context) {
	if err := u.engine.Run(ctx, time.Now().UTC()); err != nil {
		u.logger.WithError(err).Error("Reconcile run failed")
		return
	}
}

// ForceUpdate triggers an immediate reconcile run.
func (u *Updater) ForceUpdate(ctx context.Context) error {
	u.logger.Info("Force update requested")
	return u.engine.Run(ctx, time.Now().UTC())
}
