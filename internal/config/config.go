package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultRateLimit is the rate_limit budget, in requests per minute, when
// TOTORO_RATE_LIMIT is unset.
const DefaultRateLimit = 60

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout applied by chi middleware

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	APIFile        string        // path to the versioned API description (.yaml, .yml or .toml)
	ReloadInterval time.Duration // periodic re-read of APIFile, 0 disables it
	ClearConsole   bool          // clear terminal and scrollback before the first build

	RateLimit int // requests per minute per client IP for the rate_limit middleware

	AllowedHosts []string // Host headers accepted by the enforce_host middleware
	AllowedCIDRS []string // IPs/CIDRs accepted by allow_cidrs and the admin routes
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TOTORO_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TOTORO_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("TOTORO_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("TOTORO_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TOTORO_PRETTY_LOG", true),

		// API description
		APIFile:        getenv("TOTORO_API_FILE", ""),
		ReloadInterval: mustDuration("TOTORO_RELOAD_INTERVAL", 0),
		ClearConsole:   mustBool("TOTORO_CLEAR_CONSOLE", false),

		RateLimit: getenvInt("TOTORO_RATE_LIMIT", DefaultRateLimit),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("TOTORO_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("TOTORO_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TOTORO_TRUST_PROXY", false),
	}

	if cfg.RateLimit < 1 {
		panic(fmt.Sprintf("❌ FATAL: TOTORO_RATE_LIMIT must be >= 1, got %d", cfg.RateLimit))
	}

	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", *cfg)
	}

	return cfg
}

// Validate reports settings that can only be checked once flags have been applied.
func (c *Config) Validate() error {
	if c.APIFile == "" {
		return errors.New("API file is not set (TOTORO_API_FILE or --api-file)")
	}
	if c.ReloadInterval < 0 {
		return fmt.Errorf("reload interval must be >= 0, got %v", c.ReloadInterval)
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
