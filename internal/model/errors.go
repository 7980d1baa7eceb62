package model

import "errors"

// Sentinel errors for catalog operations.
var (
	// ErrOutOfOrderInsertion is returned when a child is registered at an index
	// that would leave a gap after the last registered child.
	ErrOutOfOrderInsertion = errors.New("out of order insertion")

	// ErrParentNotFound is returned when the addressed course or module has not
	// been registered yet.
	ErrParentNotFound = errors.New("parent not found")

	// ErrExhausted is returned by the cursor queries when every item of a level
	// is complete and all expected items are registered.
	ErrExhausted = errors.New("no pending items left")
)
