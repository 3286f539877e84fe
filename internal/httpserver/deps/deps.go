package deps

import (
	"time"

	"github.com/MrSnakeDoc/totoro/internal/index"
	"github.com/MrSnakeDoc/totoro/internal/logger"
	"github.com/MrSnakeDoc/totoro/internal/metrics"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	AllowedCIDRS  []string          // IPs allowed to reach the admin routes (/_routes, /_reload, /metrics)
	TrustProxy    bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	APIFile       string            // Path to the API description file
	RouteIndex    *index.RouteIndex // Currently served route generation
	Metrics       *metrics.Metrics  // Prometheus collectors; nil disables /metrics
	ReloadTrigger chan struct{}     // Channel to trigger a manual API file reload
}
