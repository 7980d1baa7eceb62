package model

// Prober reports whether a completion marker currently resolves to existing
// content on the backing store. Implementations must be read-only.
type Prober interface {
	Exists(marker string) bool
}

// ProberFunc adapts a plain function to the Prober interface.
type ProberFunc func(marker string) bool

// Exists calls f(marker).
func (f ProberFunc) Exists(marker string) bool {
	return f(marker)
}

// SetProber is an in-memory Prober backed by a set of existing markers.
// It is mainly useful for tests and dry runs.
type SetProber map[string]bool

// Exists reports whether marker was added to the set.
func (s SetProber) Exists(marker string) bool {
	return s[marker]
}

// Add marks the given markers as existing.
func (s SetProber) Add(markers ...string) {
	for _, m := range markers {
		s[m] = true
	}
}

// Remove marks the given markers as missing.
func (s SetProber) Remove(markers ...string) {
	for _, m := range markers {
		delete(s, m)
	}
}
