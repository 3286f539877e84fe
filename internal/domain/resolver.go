package domain

import (
	"github.com/MrSnakeDoc/totoro/internal/logger"
)

// Version is the resolved endpoint list of one API version.
type Version struct {
	Name      string
	Endpoints []ResolvedEndpoint
}

// Table is the resolved version chain, in input order.
type Table []Version

// Lookup returns the resolved version with the given name.
func (t Table) Lookup(name string) (Version, bool) {
	for _, v := range t {
		if v.Name == name {
			return v, true
		}
	}
	return Version{}, false
}

// Resolver turns an APIConfig into a Table.
type Resolver struct {
	logger logger.Logger
}

// NewResolver returns a Resolver logging to log, or to a console logger if log is nil.
func NewResolver(log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Console()
	}
	return &Resolver{logger: log}
}

// Resolve resolves cfg with a silent Resolver.
func Resolve(cfg APIConfig) Table {
	return (&Resolver{logger: logger.Nop()}).Resolve(cfg)
}

// Resolve walks the version chain in order. Each version starts from the
// non-deprecated endpoints of the previous resolved version (reactivated and
// rebound), then its own declarations replace matching keys in place or are
// appended. Version flags are folded into the endpoints the version declares
// (not the ones it inherits) before the next version inherits, so a
// deprecated version ends inheritance for everything it declares. cfg is not
// modified.
func (res *Resolver) Resolve(cfg APIConfig) Table {
	table := make(Table, 0, len(cfg))

	var previous []ResolvedEndpoint
	for i, spec := range cfg {
		versionActive := boolOr(spec.Active, true)
		versionDeprecated := boolOr(spec.Deprecated, false)

		current := newOrderedEndpoints(len(previous) + len(spec.Endpoints))

		if i > 0 {
			for _, e := range previous {
				if e.Deprecated {
					continue
				}
				e.APIVersion = spec.Name
				e.Active = true
				current.put(e)
			}
		}
		inherited := current.size()

		for _, es := range spec.Endpoints {
			def := NewDefinition(es)
			def.Active = def.Active && versionActive
			def.Deprecated = def.Deprecated || versionDeprecated
			current.put(ResolvedEndpoint{APIVersion: spec.Name, Definition: def})
		}

		resolved := current.list()
		res.logger.Debug("resolved API version",
			logger.String("version", spec.Name),
			logger.Int("endpoints", len(resolved)),
			logger.Int("inherited", inherited),
			logger.Bool("active", versionActive),
			logger.Bool("deprecated", versionDeprecated))

		table = append(table, Version{Name: spec.Name, Endpoints: resolved})
		previous = resolved
	}

	return table
}

// orderedEndpoints is an insertion-ordered map keyed by Key: put replaces an
// existing entry at its original position or appends a new one.
type orderedEndpoints struct {
	items []ResolvedEndpoint
	index map[Key]int
}

func newOrderedEndpoints(capacity int) *orderedEndpoints {
	return &orderedEndpoints{
		items: make([]ResolvedEndpoint, 0, capacity),
		index: make(map[Key]int, capacity),
	}
}

func (o *orderedEndpoints) put(e ResolvedEndpoint) {
	k := e.Key()
	if i, ok := o.index[k]; ok {
		o.items[i] = e
		return
	}
	o.index[k] = len(o.items)
	o.items = append(o.items, e)
}

func (o *orderedEndpoints) size() int { return len(o.items) }

func (o *orderedEndpoints) list() []ResolvedEndpoint {
	return o.items[:len(o.items):len(o.items)]
}
