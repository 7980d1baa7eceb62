package model

// Status represents the derived progress state of a catalog item
type Status string

const (
	// StatusPending means nothing of the item exists on the backing store yet
	StatusPending Status = "pending"

	// StatusPartial means some of the item's content exists but it is not complete
	StatusPartial Status = "partial"

	// StatusCompleted means the item and all of its children are complete
	StatusCompleted Status = "completed"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsStarted returns true if any content of the item exists
func (s Status) IsStarted() bool {
	return s == StatusPartial || s == StatusCompleted
}

// IsFinished returns true if the item needs no more work
func (s Status) IsFinished() bool {
	return s == StatusCompleted
}
