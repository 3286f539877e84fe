package index

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/totoro/internal/domain"
)

// Generation is one resolved, registered and served snapshot of the API file.
type Generation struct {
	ID           uuid.UUID
	LoadedAt     time.Time
	Source       string
	Table        domain.Table
	Registration domain.Registration
	Handler      http.Handler // router holding the registered API routes
}

// RouteIndex holds the generation currently served. Request goroutines read
// it while the reloader swaps in new generations.
type RouteIndex struct {
	mu         sync.RWMutex
	current    *Generation
	lastReload time.Time
	swaps      int
}

// NewRouteIndex creates an empty index; Handler answers 503 until the first Update.
func NewRouteIndex() *RouteIndex {
	return &RouteIndex{}
}

// Update replaces the served generation.
func (idx *RouteIndex) Update(g Generation) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.current = &g
	idx.lastReload = g.LoadedAt
	idx.swaps++
}

// Current returns the served generation, if any.
func (idx *RouteIndex) Current() (Generation, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.current == nil {
		return Generation{}, false
	}
	return *idx.current, true
}

// Count returns the number of routes registered in the served generation.
func (idx *RouteIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.current == nil {
		return 0
	}
	return len(idx.current.Registration.Routes)
}

// Swaps returns how many generations have been installed.
func (idx *RouteIndex) Swaps() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.swaps
}

// GetLastReload returns when the served generation was built.
func (idx *RouteIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// Handler dispatches to the router of whichever generation is current at
// request time.
func (idx *RouteIndex) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx.mu.RLock()
		cur := idx.current
		idx.mu.RUnlock()

		if cur == nil || cur.Handler == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "routes not loaded"})
			return
		}
		cur.Handler.ServeHTTP(w, r)
	})
}
