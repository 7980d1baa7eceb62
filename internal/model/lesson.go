package model

// Lesson is the leaf of the catalog. It is complete when its marker exists.
type Lesson struct {
	Num    int
	Name   string
	Marker string
}

// NewLesson creates a new lesson instance
func NewLesson(num int, name, marker string) *Lesson {
	return &Lesson{Num: num, Name: name, Marker: marker}
}

// Index returns the lesson number within its module
func (l *Lesson) Index() int { return l.Num }

// Title returns the lesson name
func (l *Lesson) Title() string { return l.Name }

// Exists reports whether the lesson marker exists on the backing store
func (l *Lesson) Exists(p Prober) bool {
	return p.Exists(l.Marker)
}

// IsCompleted reports whether the lesson content has been fetched
func (l *Lesson) IsCompleted(p Prober) bool {
	return l.Exists(p)
}

// Status returns the derived lesson status
func (l *Lesson) Status(p Prober) Status {
	if l.IsCompleted(p) {
		return StatusCompleted
	}
	return StatusPending
}
