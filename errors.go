package corpora

import (
	"fmt"
	"strings"
)

// ResourceNotFoundError means no storage location matched a resource path.
// Searched lists the data directories that were checked, so the message can
// tell the user where to install the missing resource.
type ResourceNotFoundError struct {
	Resource string
	Searched []string
}

func (e *ResourceNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "resource %q not found; install it into one of the data directories", e.Resource)
	if len(e.Searched) > 0 {
		b.WriteString("\nsearched in:")
		for _, dir := range e.Searched {
			b.WriteString("\n  - ")
			b.WriteString(dir)
		}
	}
	return b.String()
}

// ProtectedAttrError means a reserved metadata identifier was accessed on a
// handle that is not loaded. These identifiers never trigger a load, so the
// lookup fails immediately instead of building the delegate.
type ProtectedAttrError struct {
	Attr string
}

func (e *ProtectedAttrError) Error() string {
	return fmt.Sprintf("handle has no attribute %q", e.Attr)
}

// AttrError means the loaded delegate exposes no capability with the
// requested name.
type AttrError struct {
	Attr string
	Type string
}

func (e *AttrError) Error() string {
	return fmt.Sprintf("%s has no attribute %q", e.Type, e.Attr)
}

// DuplicateHandleError means the same name was registered twice in a Catalog.
type DuplicateHandleError struct {
	Name string
}

func (e DuplicateHandleError) Error() string {
	return fmt.Sprintf("duplicate corpus handle: %s", e.Name)
}

// HandleNotFoundError means resolving a name that is not registered.
type HandleNotFoundError struct {
	Name string
}

func (e HandleNotFoundError) Error() string {
	return fmt.Sprintf("corpus handle not found: %s", e.Name)
}

// TypeMismatchError means ResolveAs[T] failed to cast the resolved delegate to T.
type TypeMismatchError struct {
	Name     string
	Expected string
	Actual   string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("corpus type mismatch for %s: expected=%s actual=%s",
		e.Name, e.Expected, e.Actual)
}
