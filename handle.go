package corpora

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Introspection probes that surrounding tooling issues on arbitrary values.
// They must never force a load: a collection of hundreds of handles would
// otherwise be fully built the first time something walks it.
var protectedAttrs = map[string]struct{}{
	"__bases__": {},
	"__class__": {},
}

// Handle is a lazy-loading proxy for a corpus of delegate type T.
//
// A handle is created unloaded and defers locating and constructing the
// corpus until the first access. After a successful load every access is
// satisfied by the delegate directly. Unload returns the handle to its
// initial state with the same identity, so the corpus can be loaded again
// later with the exact same arguments.
//
// Handles are not safe for general concurrent use; only the first-load
// transition is guarded, so concurrent first accesses build the delegate
// at most once.
type Handle[T any] struct {
	name  string
	build Constructor[T]
	args  []any

	locator      Locator
	archiveFirst bool
	logger       *zap.Logger

	mu       sync.Mutex
	loaded   atomic.Bool
	state    State
	delegate T
}

// New creates an unloaded handle for the named resource. The args are held
// verbatim and replayed to build on every load. The default locator searches
// DefaultSearchPath on the host filesystem.
func New[T any](name string, build Constructor[T], args ...any) *Handle[T] {
	return NewWithOptions(name, build, args)
}

// NewWithOptions is New with explicit configuration.
func NewWithOptions[T any](name string, build Constructor[T], args []any, opts ...Option) *Handle[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Handle[T]{
		name:         name,
		build:        build,
		args:         args,
		locator:      cfg.locator,
		archiveFirst: cfg.archiveFirst,
		logger:       cfg.logger,
	}
}

// Name returns the logical resource identifier.
func (h *Handle[T]) Name() string {
	return h.name
}

// State reports the current lifecycle state without triggering a load.
func (h *Handle[T]) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Get returns the delegate, loading it first if necessary.
func (h *Handle[T]) Get() (T, error) {
	if h.loaded.Load() {
		return h.delegate, nil
	}
	if err := h.Load(); err != nil {
		var zero T
		return zero, err
	}
	return h.delegate, nil
}

// Load builds the delegate if it is not built yet. It is idempotent: a
// loaded handle returns nil immediately. Location and construction errors
// are returned unmodified; the handle moves to Failed and the next call
// retries from scratch.
func (h *Handle[T]) Load() error {
	if h.loaded.Load() {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == Loaded {
		return nil
	}

	h.logger.Debug("loading corpus", zap.String("name", h.name))
	root, err := h.locate()
	if err != nil {
		h.state = Failed
		h.logger.Debug("corpus location failed", zap.String("name", h.name), zap.Error(err))
		return err
	}
	delegate, err := h.build(root, h.args...)
	if err != nil {
		h.state = Failed
		h.logger.Debug("corpus construction failed", zap.String("name", h.name), zap.Error(err))
		return err
	}

	h.delegate = delegate
	h.state = Loaded
	h.loaded.Store(true)
	h.logger.Debug("corpus loaded", zap.String("name", h.name), zap.String("root", root))
	return nil
}

// Unload discards the delegate and returns the handle to Unloaded with the
// same name, constructor, and arguments, then requests prompt reclamation of
// the discarded memory. Calling Unload on a handle that has never
// successfully loaded is a no-op: a Failed handle has no previous load to
// discard.
func (h *Handle[T]) Unload() {
	h.mu.Lock()
	if h.state != Loaded {
		h.mu.Unlock()
		return
	}
	var zero T
	h.delegate = zero
	h.state = Unloaded
	h.loaded.Store(false)
	h.mu.Unlock()

	h.logger.Debug("corpus unloaded", zap.String("name", h.name))
	runtime.GC()
}

// Attr accesses a delegate capability by name, loading the delegate first if
// necessary. A zero-argument method is invoked and its result returned (a
// trailing error return is split off and returned as the error); a method
// taking arguments is returned as a bound func; an exported field is read.
//
// The protected metadata identifiers are the exception: while the handle is
// not loaded they fail with *ProtectedAttrError and never trigger a load.
func (h *Handle[T]) Attr(name string) (any, error) {
	if !h.loaded.Load() {
		if _, ok := protectedAttrs[name]; ok {
			return nil, &ProtectedAttrError{Attr: name}
		}
		if err := h.Load(); err != nil {
			return nil, err
		}
	}
	return attrOf(h.delegate, name)
}

// String renders a display form that never triggers a load. An unloaded or
// failed handle is annotated as not loaded yet; a loaded handle defers to
// the delegate when it implements fmt.Stringer.
func (h *Handle[T]) String() string {
	if h.loaded.Load() {
		if s, ok := any(h.delegate).(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("<%s in '.../corpora/%s'>", delegateTypeName[T](), h.name)
	}
	return fmt.Sprintf("<%s in '.../corpora/%s' (not loaded yet)>", delegateTypeName[T](), h.name)
}

// resolve adapts the typed delegate for Catalog storage.
func (h *Handle[T]) resolve() (any, error) {
	return h.Get()
}

// locate resolves the storage root for the handle's resource with the
// two-candidate policy.
//
// Primary-first tries "corpora/<name>" and falls back to the archive
// candidate only when the primary is a not-found miss; if the archive misses
// too, the primary's error is surfaced. Archive-first tries only the archive
// candidate: a miss there aborts without consulting the primary path.
func (h *Handle[T]) locate() (string, error) {
	primary := "corpora/" + h.name
	archive := "corpora/" + archiveCandidate(h.name)

	if h.archiveFirst {
		return h.locator.Find(archive)
	}

	root, primaryErr := h.locator.Find(primary)
	if primaryErr == nil {
		return root, nil
	}
	var notFound *ResourceNotFoundError
	if !errors.As(primaryErr, &notFound) {
		return "", primaryErr
	}
	root, archiveErr := h.locator.Find(archive)
	if archiveErr == nil {
		return root, nil
	}
	if errors.As(archiveErr, &notFound) {
		return "", primaryErr
	}
	return "", archiveErr
}

// archiveCandidate derives the packaged location of a resource: the first
// path segment names a zip container and the full identifier nests inside
// it. "abc/def" becomes "abc.zip/abc/def/".
func archiveCandidate(name string) string {
	first, _, _ := strings.Cut(name, "/")
	return first + ".zip/" + name + "/"
}

func delegateTypeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// attrOf forwards a named capability on the delegate: exported zero-argument
// methods are called, other methods are returned bound, exported struct
// fields are read.
func attrOf(delegate any, name string) (any, error) {
	v := reflect.ValueOf(delegate)
	if !v.IsValid() {
		return nil, &AttrError{Attr: name, Type: "<nil>"}
	}

	if m := v.MethodByName(name); m.IsValid() {
		if m.Type().NumIn() > 0 {
			return m.Interface(), nil
		}
		return callAttr(m)
	}

	elem := v
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return nil, &AttrError{Attr: name, Type: v.Type().String()}
		}
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct {
		if f := elem.FieldByName(name); f.IsValid() && f.CanInterface() {
			return f.Interface(), nil
		}
	}
	return nil, &AttrError{Attr: name, Type: v.Type().String()}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

func callAttr(m reflect.Value) (any, error) {
	out := m.Call(nil)
	if n := len(out); n > 0 && m.Type().Out(n-1).Implements(errType) {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		results := make([]any, len(out))
		for i := range out {
			results[i] = out[i].Interface()
		}
		return results, nil
	}
}
