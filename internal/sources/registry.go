package sources

import (
	"sort"

	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/models"
)

// Registry maps widget kinds to their source adapters.
// It is built once at startup and read-only afterwards.
type Registry struct {
	sources map[models.WidgetKind]interfaces.Source
}

// NewRegistry indexes sources by their kind. A later source for the same
// kind replaces an earlier one.
func NewRegistry(sources ...interfaces.Source) *Registry {
	r := &Registry{sources: make(map[models.WidgetKind]interfaces.Source, len(sources))}
	for _, s := range sources {
		r.sources[s.Kind()] = s
	}
	return r
}

// Get returns the adapter registered for kind
func (r *Registry) Get(kind models.WidgetKind) (interfaces.Source, bool) {
	s, ok := r.sources[kind]
	return s, ok
}

// Kinds returns the registered kinds in sorted order
func (r *Registry) Kinds() []models.WidgetKind {
	kinds := make([]models.WidgetKind, 0, len(r.sources))
	for kind := range r.sources {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
