package scheduler

import (
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/totoro/internal/domain"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/mw"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/routes"
	"github.com/MrSnakeDoc/totoro/internal/index"
	"github.com/MrSnakeDoc/totoro/internal/logger"
	"github.com/MrSnakeDoc/totoro/internal/sources/apiconfig"
)

// Builder turns the API file into a servable Generation:
// load -> map -> resolve -> register on a fresh chi router.
type Builder struct {
	loader    *apiconfig.Loader
	mapper    *apiconfig.Mapper
	resolver  *domain.Resolver
	registrar *domain.Registrar
	observer  mw.RequestObserver
	now       func() time.Time
}

// NewBuilder wires a Builder. observer may be nil.
func NewBuilder(apiFile string, mapper *apiconfig.Mapper, observer mw.RequestObserver, log logger.Logger) *Builder {
	return &Builder{
		loader:    apiconfig.NewLoader(apiFile),
		mapper:    mapper,
		resolver:  domain.NewResolver(log),
		registrar: domain.NewRegistrar(log),
		observer:  observer,
		now:       time.Now,
	}
}

// Build reads the API file and registers its resolved routes. It has no side
// effects outside the returned Generation.
func (b *Builder) Build() (index.Generation, error) {
	file, err := b.loader.Load()
	if err != nil {
		return index.Generation{}, fmt.Errorf("failed to load API file: %w", err)
	}

	cfg, err := b.mapper.Map(file)
	if err != nil {
		return index.Generation{}, fmt.Errorf("failed to map API file: %w", err)
	}

	table := b.resolver.Resolve(cfg)

	router := chi.NewRouter()
	reg := b.registrar.Register(table, routes.NewChiSink(router, b.observer))

	return index.Generation{
		ID:           uuid.New(),
		LoadedAt:     b.now(),
		Source:       b.loader.Path(),
		Table:        table,
		Registration: reg,
		Handler:      router,
	}, nil
}
