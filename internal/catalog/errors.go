package catalog

import (
	"errors"

	"github.com/ytget/learnsync/internal/model"
)

// Sentinel errors for catalog operations.
var (
	ErrOutOfOrderInsertion = model.ErrOutOfOrderInsertion
	ErrParentNotFound      = model.ErrParentNotFound
	ErrExhausted           = model.ErrExhausted

	// ErrPersist wraps failures of the store after an in-memory mutation.
	ErrPersist = errors.New("failed to persist catalog")

	// ErrNoDocument is returned by a Store that has nothing persisted yet.
	ErrNoDocument = errors.New("catalog document not found")
)

// ErrInvalidCount is returned when an expected child count is negative.
var ErrInvalidCount = errors.New("invalid expected count")
