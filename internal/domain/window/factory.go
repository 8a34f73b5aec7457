package window

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrWindowNotFound = errors.New("window not registered")
	ErrNilWindow      = errors.New("window builder returned nil")
)

// Builder constructs a window. Applications attach closures that capture
// whatever the window needs from them.
type Builder func(name string) Window

// Factory maps window names to builders
type Factory struct {
	builders map[string]Builder
}

// NewFactory creates an empty factory
func NewFactory() *Factory {
	return &Factory{builders: make(map[string]Builder)}
}

// Attach registers the builder for name, replacing any previous one
func (f *Factory) Attach(name string, builder Builder) {
	f.builders[name] = builder
}

// IsRegistered reports whether name has a builder
func (f *Factory) IsRegistered(name string) bool {
	_, ok := f.builders[name]
	return ok
}

// Build constructs the window registered as name
func (f *Factory) Build(name string) (Window, error) {
	builder, ok := f.builders[name]
	if !ok || builder == nil {
		return nil, fmt.Errorf("%w: %s", ErrWindowNotFound, name)
	}

	w := builder(name)
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilWindow, name)
	}
	return w, nil
}

// Names returns the registered window names in sorted order
func (f *Factory) Names() []string {
	names := make([]string, 0, len(f.builders))
	for name := range f.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
