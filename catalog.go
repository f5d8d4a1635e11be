package corpora

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AnyHandle is the type-erased surface a Catalog stores. Every *Handle[T]
// satisfies it.
type AnyHandle interface {
	fmt.Stringer
	Name() string
	State() State
	Unload()

	resolve() (any, error)
}

// Catalog is a named collection of lazy handles, the usual way an
// application declares its corpus inventory up front. Registration is cheap:
// nothing is located or constructed until a handle is resolved.
type Catalog struct {
	logger *zap.Logger

	mu      sync.RWMutex
	handles map[string]AnyHandle

	sf singleflight.Group
}

func NewCatalog(opts ...Option) *Catalog {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Catalog{
		logger:  cfg.logger,
		handles: make(map[string]AnyHandle),
	}
}

// Register adds a handle under its own name.
func (c *Catalog) Register(h AnyHandle) error {
	if h == nil {
		return fmt.Errorf("register corpus handle: handle is nil")
	}
	name := h.Name()
	if name == "" {
		return fmt.Errorf("register corpus handle: name is empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.handles[name]; exists {
		return DuplicateHandleError{Name: name}
	}
	c.handles[name] = h
	return nil
}

// MustRegister panics on registration error; intended for bootstrap code paths.
func (c *Catalog) MustRegister(h AnyHandle) {
	if err := c.Register(h); err != nil {
		panic(err)
	}
}

// Resolve returns the delegate for a registered name, loading it on first
// use. Concurrent resolves of the same name are deduplicated so the
// constructor runs at most once per load cycle.
func (c *Catalog) Resolve(name string) (any, error) {
	c.mu.RLock()
	h, ok := c.handles[name]
	c.mu.RUnlock()
	if !ok {
		return nil, HandleNotFoundError{Name: name}
	}
	if h.State() == Loaded {
		return h.resolve()
	}

	v, err, _ := c.sf.Do(name, func() (any, error) {
		return h.resolve()
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ResolveAs is a typed wrapper around Catalog.Resolve.
func ResolveAs[T any](c *Catalog, name string) (T, error) {
	var zero T
	v, err := c.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, TypeMismatchError{
			Name:     name,
			Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
			Actual:   fmt.Sprintf("%T", v),
		}
	}
	return typed, nil
}

// Handle returns a registered handle without triggering a load.
func (c *Catalog) Handle(name string) (AnyHandle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handles[name]
	return h, ok
}

// Names returns the registered names in sorted order. It never triggers a load.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.handles))
	for name := range c.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnloadAll unloads every loaded handle, reclaiming their memory. Handles
// that never loaded are untouched.
func (c *Catalog) UnloadAll() {
	c.mu.RLock()
	handles := make([]AnyHandle, 0, len(c.handles))
	for _, h := range c.handles {
		handles = append(handles, h)
	}
	c.mu.RUnlock()

	for _, h := range handles {
		if h.State() == Loaded {
			c.logger.Debug("unloading corpus", zap.String("name", h.Name()))
			h.Unload()
		}
	}
}
