package silo

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// InvalidArgumentError reports a rejected component registration: an empty
// name, or a zero size or alignment. Nil Registry or World pointers are not
// checked and do not raise it.
type InvalidArgumentError struct {
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// InvalidHandleError reports a stale EntityId/PrefabId (generation
// mismatch) or an unknown ComponentId.
type InvalidHandleError struct {
	Reason string
}

func (e InvalidHandleError) Error() string {
	return fmt.Sprintf("invalid handle: %s", e.Reason)
}

// InvalidStateError reports misuse of an iterator's lifecycle: mutating a
// query after Finalize, releasing it twice, or calling Get before Advance.
type InvalidStateError struct {
	Reason string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state: %s", e.Reason)
}

// NotFoundError reports a lookup for a component or prefab entry that is
// not present.
type NotFoundError struct {
	Reason string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Reason)
}

// Every non-success condition in the core is fatal; it is raised via panic
// with a bark-attached trace rather than an in-band error return. Surface
// layers embedding silo are expected to recover and translate as needed.

func failArgument(reason string) {
	panic(bark.AddTrace(InvalidArgumentError{Reason: reason}))
}

func failHandle(reason string) {
	panic(bark.AddTrace(InvalidHandleError{Reason: reason}))
}

func failState(reason string) {
	panic(bark.AddTrace(InvalidStateError{Reason: reason}))
}

func failNotFound(reason string) {
	panic(bark.AddTrace(NotFoundError{Reason: reason}))
}
