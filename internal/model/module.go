package model

import "fmt"

// Module groups the lessons of one course section.
//
// Lessons are kept dense: Lessons[i].Num == i for every registered lesson.
type Module struct {
	Num             int
	Name            string
	Marker          string
	ExpectedLessons int
	Lessons         []*Lesson

	// CourseNum is the index of the owning course. It is only used in messages.
	CourseNum int
}

// NewModule creates a new module instance without lessons
func NewModule(courseNum, num int, name, marker string, expectedLessons int) *Module {
	return &Module{
		Num:             num,
		Name:            name,
		Marker:          marker,
		ExpectedLessons: expectedLessons,
		Lessons:         make([]*Lesson, 0, max(expectedLessons, 0)),
		CourseNum:       courseNum,
	}
}

// Index returns the module number within its course
func (m *Module) Index() int { return m.Num }

// Title returns the module name
func (m *Module) Title() string { return m.Name }

// Exists reports whether the module marker exists on the backing store
func (m *Module) Exists(p Prober) bool {
	return p.Exists(m.Marker)
}

// IsCompleted reports whether the module marker exists, every expected lesson
// is registered and every registered lesson is complete.
func (m *Module) IsCompleted(p Prober) bool {
	if !m.Exists(p) || len(m.Lessons) != m.ExpectedLessons {
		return false
	}
	for _, lesson := range m.Lessons {
		if !lesson.IsCompleted(p) {
			return false
		}
	}
	return true
}

// CompletedLessons returns the number of registered lessons that are complete
func (m *Module) CompletedLessons(p Prober) int {
	n := 0
	for _, lesson := range m.Lessons {
		if lesson.IsCompleted(p) {
			n++
		}
	}
	return n
}

// Status returns the derived module status
func (m *Module) Status(p Prober) Status {
	if m.IsCompleted(p) {
		return StatusCompleted
	}
	if m.Exists(p) || m.CompletedLessons(p) > 0 {
		return StatusPartial
	}
	return StatusPending
}

// Lesson returns the lesson registered at num
func (m *Module) Lesson(num int) (*Lesson, bool) {
	if num < 0 || num >= len(m.Lessons) {
		return nil, false
	}
	return m.Lessons[num], true
}

// AddLesson registers a lesson at lesson.Num under the given policy
func (m *Module) AddLesson(lesson *Lesson, policy OverwritePolicy, p Prober) (InsertResult, error) {
	lessons, res, err := Insert(m.Lessons, lesson, policy, p)
	if err != nil {
		return res, fmt.Errorf("lesson %d of module %d.%d %q: %w", lesson.Num, m.CourseNum, m.Num, m.Name, err)
	}
	m.Lessons = lessons
	return res, nil
}

// NextLesson returns the index of the next lesson to fetch
func (m *Module) NextLesson(p Prober) (int, bool) {
	return NextPending(len(m.Lessons), m.ExpectedLessons, func(i int) bool {
		return m.Lessons[i].IsCompleted(p)
	})
}
