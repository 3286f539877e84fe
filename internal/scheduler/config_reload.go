package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/totoro/internal/domain"
	"github.com/MrSnakeDoc/totoro/internal/index"
	"github.com/MrSnakeDoc/totoro/internal/logger"
)

// GenerationObserver is notified of reload outcomes.
type GenerationObserver interface {
	ObserveReload(err error)
	ObserveRegistration(reg domain.Registration)
}

// ConfigReloader rebuilds the served routes from the API file, periodically
// and on manual trigger.
type ConfigReloader struct {
	builder       *Builder
	index         *index.RouteIndex
	observer      GenerationObserver
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
	mu            sync.Mutex
}

// NewConfigReloader creates a reloader. interval <= 0 disables periodic
// reloads; observer may be nil.
func NewConfigReloader(
	builder *Builder,
	idx *index.RouteIndex,
	observer GenerationObserver,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ConfigReloader {
	return &ConfigReloader{
		builder:       builder,
		index:         idx,
		observer:      observer,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start builds the first generation, failing if it cannot, then keeps
// reloading in the background until Stop or ctx cancellation.
func (cr *ConfigReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	go func() {
		var tick <-chan time.Time
		if cr.interval > 0 {
			ticker := time.NewTicker(cr.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				cr.reloadLogged(ctx)
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				cr.reloadLogged(ctx)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader. It is safe to call more than once.
func (cr *ConfigReloader) Stop() {
	cr.stopOnce.Do(func() { close(cr.stopCh) })
}

// Reload builds a new generation and swaps it in. On failure the served
// generation is left untouched.
func (cr *ConfigReloader) Reload(ctx context.Context) error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	cr.logger.Info("reloading API routes")

	g, err := cr.builder.Build()
	if cr.observer != nil {
		cr.observer.ObserveReload(err)
	}
	if err != nil {
		return err
	}

	cr.index.Update(g)
	if cr.observer != nil {
		cr.observer.ObserveRegistration(g.Registration)
	}

	cr.logger.Info("API routes loaded",
		logger.String("generation", g.ID.String()),
		logger.Int("versions", len(g.Table)),
		logger.Int("routes", len(g.Registration.Routes)),
		logger.Int("rejected", len(g.Registration.Rejected)))

	return nil
}

func (cr *ConfigReloader) reloadLogged(ctx context.Context) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("failed to reload API routes, keeping current generation",
			logger.Error(err))
	}
}
