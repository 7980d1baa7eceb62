package model

import "fmt"

// OverwritePolicy decides what happens when a child is registered at an index
// that is already populated.
type OverwritePolicy string

const (
	// OverwriteAlways replaces the existing child in place.
	OverwriteAlways OverwritePolicy = "always"

	// OverwriteIfMissing replaces the existing child only when its marker does
	// not exist on the backing store; otherwise registration is a no-op.
	OverwriteIfMissing OverwritePolicy = "if_missing"

	// KeepExisting keeps the existing child and reports the duplicate.
	KeepExisting OverwritePolicy = "keep"
)

// String returns the string representation of OverwritePolicy
func (p OverwritePolicy) String() string {
	return string(p)
}

// Valid reports whether p is one of the known policies.
func (p OverwritePolicy) Valid() bool {
	switch p {
	case OverwriteAlways, OverwriteIfMissing, KeepExisting:
		return true
	}
	return false
}

// ParseOverwritePolicy converts a configuration value into an OverwritePolicy.
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	p := OverwritePolicy(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown overwrite policy: %q", s)
	}
	return p, nil
}

// Policies holds the overwrite policy of each catalog level.
//
// Course registration and module/lesson registration historically behave
// differently: a course is replaced only while its marker is missing, while
// modules and lessons keep the first registration and warn about duplicates.
// Both behaviors are kept and can be tuned per level.
type Policies struct {
	Course OverwritePolicy
	Module OverwritePolicy
	Lesson OverwritePolicy
}

// DefaultPolicies returns the per-level policies used when nothing is configured.
func DefaultPolicies() Policies {
	return Policies{
		Course: OverwriteIfMissing,
		Module: KeepExisting,
		Lesson: KeepExisting,
	}
}

// WithDefaults fills unset or unknown levels from DefaultPolicies.
func (p Policies) WithDefaults() Policies {
	def := DefaultPolicies()
	if !p.Course.Valid() {
		p.Course = def.Course
	}
	if !p.Module.Valid() {
		p.Module = def.Module
	}
	if !p.Lesson.Valid() {
		p.Lesson = def.Lesson
	}
	return p
}
