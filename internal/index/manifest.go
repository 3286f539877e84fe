package index

import (
	"time"

	"github.com/MrSnakeDoc/totoro/internal/domain"
)

type ManifestEndpoint struct {
	Method     string `json:"method"`
	Route      string `json:"route"`
	Path       string `json:"path"`
	Active     bool   `json:"active"`
	Deprecated bool   `json:"deprecated"`
}

type ManifestVersion struct {
	Name      string             `json:"name"`
	Endpoints []ManifestEndpoint `json:"endpoints"`
}

// Manifest is the JSON view of a Generation served on /_routes.
type Manifest struct {
	ID       string            `json:"id"`
	LoadedAt time.Time         `json:"loaded_at"`
	Source   string            `json:"source"`
	Versions []ManifestVersion `json:"versions"`
	Routes   int               `json:"routes"`
	Rejected []domain.Route    `json:"rejected,omitempty"`
}

func (g Generation) Manifest() Manifest {
	m := Manifest{
		ID:       g.ID.String(),
		LoadedAt: g.LoadedAt,
		Source:   g.Source,
		Versions: make([]ManifestVersion, 0, len(g.Table)),
		Routes:   len(g.Registration.Routes),
		Rejected: g.Registration.Rejected,
	}
	for _, v := range g.Table {
		m.Versions = append(m.Versions, manifestVersion(v))
	}
	return m
}

// VersionManifest returns the manifest of one resolved version.
func (g Generation) VersionManifest(name string) (ManifestVersion, bool) {
	v, ok := g.Table.Lookup(name)
	if !ok {
		return ManifestVersion{}, false
	}
	return manifestVersion(v), true
}

func manifestVersion(v domain.Version) ManifestVersion {
	mv := ManifestVersion{Name: v.Name, Endpoints: make([]ManifestEndpoint, 0, len(v.Endpoints))}
	for _, e := range v.Endpoints {
		mv.Endpoints = append(mv.Endpoints, ManifestEndpoint{
			Method:     string(e.Method),
			Route:      e.Route,
			Path:       e.Path(),
			Active:     e.Active,
			Deprecated: e.Deprecated,
		})
	}
	return mv
}
