package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/totoro/internal/config"
	"github.com/MrSnakeDoc/totoro/internal/httpserver"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/deps"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/mw"
	"github.com/MrSnakeDoc/totoro/internal/index"
	"github.com/MrSnakeDoc/totoro/internal/logger"
	"github.com/MrSnakeDoc/totoro/internal/metrics"
	"github.com/MrSnakeDoc/totoro/internal/scheduler"
	"github.com/MrSnakeDoc/totoro/internal/sources/apiconfig"
	"github.com/MrSnakeDoc/totoro/internal/version"
)

// clearScreen wipes scrollback, screen and cursor line.
const clearScreen = "\u001b[3J\u001b[2J\u001b[1J"

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	index    *index.RouteIndex
	reloader *scheduler.ConfigReloader
}

// NewMapper binds the built-in handler and middleware catalogs.
func NewMapper(opts mw.CatalogOptions) *apiconfig.Mapper {
	return apiconfig.NewMapper(handlers.Implementations(), mw.NewCatalog(opts))
}

func catalogOptions(cfg *config.Config, log logger.Logger) mw.CatalogOptions {
	return mw.CatalogOptions{
		AllowedCIDRS: cfg.AllowedCIDRS,
		AllowedHosts: cfg.AllowedHosts,
		TrustProxy:   cfg.TrustProxy,
		RateLimit:    cfg.RateLimit,
		Logger:       log,
	}
}

func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	if cfg.ClearConsole {
		fmt.Fprint(os.Stdout, clearScreen)
	}

	m := metrics.New()
	routeIndex := index.NewRouteIndex()

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	builder := scheduler.NewBuilder(cfg.APIFile, NewMapper(catalogOptions(cfg, loggerClient)), m, loggerClient)
	reloader := scheduler.NewConfigReloader(
		builder,
		routeIndex,
		m,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		APIFile:       cfg.APIFile,
		RouteIndex:    routeIndex,
		Metrics:       m,
		ReloadTrigger: reloadTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg, loggerClient, d),
		index:    routeIndex,
		reloader: reloader,
	}, nil
}

func (a *App) Run() error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting Totoro v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the first generation; a broken API file at boot is fatal.
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start API reloader: %w", err)
	}
	a.logger.Info("API reloader started",
		logger.String("file", a.cfg.APIFile),
		logger.Duration("interval", a.cfg.ReloadInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.reloader.Stop()
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ Totoro stopped cleanly",
		logger.Int("generations", a.index.Swaps()))
	return nil
}
