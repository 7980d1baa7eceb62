package model

import "fmt"

// InsertOutcome describes what an insertion did to the children slice.
type InsertOutcome int

const (
	// Appended means the child was added at the end.
	Appended InsertOutcome = iota
	// Replaced means an existing child was overwritten in place.
	Replaced
	// Kept means the existing child was left untouched.
	Kept
)

// String returns the string representation of InsertOutcome
func (o InsertOutcome) String() string {
	switch o {
	case Appended:
		return "appended"
	case Replaced:
		return "replaced"
	case Kept:
		return "kept"
	default:
		return "unknown"
	}
}

// InsertResult reports the outcome of a child registration.
type InsertResult struct {
	Outcome InsertOutcome
	Policy  OverwritePolicy
	// ExistingName is the name of the child found at the index when the
	// insertion did not append.
	ExistingName string
	// ExistingCompleted is set when a kept child was already complete.
	ExistingCompleted bool
}

// Duplicate reports whether the registration hit a populated index and was
// dropped in favour of the existing child under KeepExisting.
func (r InsertResult) Duplicate() bool {
	return r.Outcome == Kept && r.Policy == KeepExisting
}

// DuplicateMessage formats the warning reported for a kept duplicate.
func (r InsertResult) DuplicateMessage(kind, name string) string {
	if name == r.ExistingName {
		return fmt.Sprintf("%s %q already exists", kind, name)
	}
	return fmt.Sprintf("%s %q already exists, but under the name %q", kind, name, r.ExistingName)
}

// Child is implemented by every catalog entity that can be stored under a parent.
type Child interface {
	Index() int
	Title() string
	Exists(p Prober) bool
	IsCompleted(p Prober) bool
}

// Insert places item into items at item.Index() following the dense index rule:
// index == len appends, index > len fails with ErrOutOfOrderInsertion and
// index < len is resolved by policy.
func Insert[T Child](items []T, item T, policy OverwritePolicy, p Prober) ([]T, InsertResult, error) {
	num := item.Index()
	if num < 0 {
		return items, InsertResult{}, fmt.Errorf("%w: negative index %d", ErrOutOfOrderInsertion, num)
	}
	if num > len(items) {
		return items, InsertResult{}, fmt.Errorf("%w: index %d, next expected %d", ErrOutOfOrderInsertion, num, len(items))
	}
	if num == len(items) {
		return append(items, item), InsertResult{Outcome: Appended, Policy: policy}, nil
	}

	existing := items[num]
	res := InsertResult{Outcome: Kept, Policy: policy, ExistingName: existing.Title()}
	switch policy {
	case OverwriteAlways:
		items[num] = item
		res.Outcome = Replaced
	case OverwriteIfMissing:
		if !existing.Exists(p) {
			items[num] = item
			res.Outcome = Replaced
		}
	}
	if res.Outcome == Kept {
		res.ExistingCompleted = existing.IsCompleted(p)
	}
	return items, res, nil
}

// NextPending implements the resume cursor for one level: the first child in
// ascending order that is not completed, else the slot after the last
// registered child while fewer than expected are registered. The boolean is
// false when the level is exhausted.
func NextPending(registered, expected int, completed func(i int) bool) (int, bool) {
	for i := 0; i < registered; i++ {
		if !completed(i) {
			return i, true
		}
	}
	if registered >= expected {
		return -1, false
	}
	return registered, true
}
