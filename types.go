package corpora

// State is the lifecycle state of a Handle.
// Exactly one state holds at any time; a delegate exists only while Loaded.
type State uint8

const (
	// Unloaded means the delegate has not been built yet (initial state,
	// and the state after a successful Unload).
	Unloaded State = iota
	// Loaded means the delegate is built and every access forwards to it.
	Loaded
	// Failed means the last load attempt errored. The handle keeps no
	// delegate and may be retried by the next access.
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Constructor builds the in-memory corpus representation from a resolved
// storage root. The args are the construction arguments the handle stored
// at creation time, replayed verbatim on every load.
type Constructor[T any] func(root string, args ...any) (T, error)

// Locator resolves a slash-separated resource path (for example
// "corpora/sample-corpus") to a concrete storage location.
//
// When no matching location exists, Find returns an error that matches
// *ResourceNotFoundError via errors.As. Any other error kind is treated as
// a hard failure and never drives archive fallback.
type Locator interface {
	Find(resource string) (string, error)
}
