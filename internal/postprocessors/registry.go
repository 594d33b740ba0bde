package postprocessors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/pdfsync/internal/core/domain"
	"github.com/custodia-labs/pdfsync/internal/core/ports/driven"
)

// Builder creates a processor configured from the splitter settings.
type Builder func(settings domain.SplitterSettings) (driven.PostProcessor, error)

// Registry resolves processor names to builders. Every domain.SplitStrategy
// is registered under its string value; cleanup steps use their own names.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
	}
}

// Register binds name to builder, replacing any earlier binding.
func (r *Registry) Register(name string, builder Builder) {
	r.builders[name] = builder
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named processor. Unknown names and settings the
// builder rejects are reported as domain.ErrInvalidInput.
func (r *Registry) Build(name string, settings domain.SplitterSettings) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown processor %q (available: %s)",
			domain.ErrInvalidInput, name, strings.Join(r.Names(), ", "))
	}

	processor, err := builder(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, name, err)
	}
	return processor, nil
}

// Pipeline builds the named processors into a pipeline that runs them in
// the order given.
func (r *Registry) Pipeline(settings domain.SplitterSettings, names ...string) (*Pipeline, error) {
	processors := make([]driven.PostProcessor, 0, len(names))
	for _, name := range names {
		processor, err := r.Build(name, settings)
		if err != nil {
			return nil, err
		}
		processors = append(processors, processor)
	}
	return NewPipeline(processors...), nil
}
