// Package corpora provides lazy-loading handles for corpus resources.
//
// It offers:
// - Handle, a proxy that defers locating and constructing a corpus until first access
// - two-candidate location resolution (plain directory with zip-archive fallback)
// - explicit unload with prompt memory reclamation and identical reload arguments
// - Catalog, a named handle inventory with singleflight load deduplication
package corpora
