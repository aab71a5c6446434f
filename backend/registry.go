package backend

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Factory creates a new, uninitialized backend instance.
type Factory func() Backend

// rank orders backends for Default. Unlisted names rank 0.
var rank = map[string]int{
	NameGL:        20,
	NameRecording: 10,
}

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: make(map[string]Factory)}

// Register adds factory under name, replacing any previous registration.
// Backend packages call it from init.
func Register(name string, factory Factory) {
	registry.Lock()
	defer registry.Unlock()
	registry.factories[name] = factory
}

// Unregister removes name from the registry.
func Unregister(name string) {
	registry.Lock()
	defer registry.Unlock()
	delete(registry.factories, name)
}

// Available returns the registered names in sorted order.
func Available() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	registry.RLock()
	defer registry.RUnlock()
	_, ok := registry.factories[name]
	return ok
}

// Get returns a fresh instance of the named backend, or nil.
func Get(name string) Backend {
	registry.RLock()
	factory, ok := registry.factories[name]
	registry.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// Default returns an instance of the highest-ranked registered backend:
// gl, then recording, then any other in name order. Factories returning
// nil are passed over. Default returns nil when nothing is registered.
func Default() Backend {
	names := Available()
	slices.SortStableFunc(names, func(a, b string) int {
		return cmp.Compare(rank[b], rank[a])
	})
	for _, name := range names {
		if b := Get(name); b != nil {
			return b
		}
	}
	return nil
}

// MustDefault is Default that panics when no backend is registered.
func MustDefault() Backend {
	b := Default()
	if b == nil {
		panic("backend: no backend registered")
	}
	return b
}

// InitDefault returns the default backend after a successful Init.
func InitDefault() (Backend, error) {
	b := Default()
	if b == nil {
		return nil, ErrBackendNotAvailable
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("backend %s: %w", b.Name(), err)
	}
	return b, nil
}

// Open returns the named backend after a successful Init. An empty name
// selects the default backend.
func Open(name string) (Backend, error) {
	if name == "" {
		return InitDefault()
	}
	b := Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return b, nil
}
