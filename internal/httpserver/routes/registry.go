package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/totoro/internal/httpserver/deps"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/mw"
	"github.com/MrSnakeDoc/totoro/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

// Scope decides which guard an infrastructure group sits behind.
type Scope int

const (
	// Public groups are reachable by anyone (probes).
	Public Scope = iota
	// Admin groups expose or change the served table and are limited to
	// TOTORO_ALLOWED_CIDRS.
	Admin
)

type entry struct {
	name  string
	scope Scope
	reg   Registrar
}

var registry []entry

// Register an infrastructure group. API routes do not go through here; they
// come from the resolved API file and are mounted by ChiSink.
func Register(name string, scope Scope, reg Registrar) {
	registry = append(registry, entry{name: name, scope: scope, reg: reg})
}

// RegisterAll mounts every group on r. Called once from server.New().
func RegisterAll(r chi.Router, d deps.Deps) {
	admin := r.With(mw.AllowCIDRs(d.AllowedCIDRS, d.TrustProxy, d.Logger))

	for _, e := range registry {
		switch e.scope {
		case Admin:
			e.reg(admin, d)
		default:
			e.reg(r, d)
		}
		d.Logger.Debug("infra routes mounted",
			logger.String("group", e.name),
			logger.Bool("admin", e.scope == Admin))
	}
}
