package download

import (
	"context"
)

// Item is one enumerated entry of a remote listing.
type Item struct {
	Name string
	// Children is the number of children the remote page declares
	// (modules of a course, lessons of a module). Unused for lessons.
	Children int
}

// CourseRef addresses a registered course
type CourseRef struct {
	Num  int
	Name string
	Dir  string
}

// ModuleRef addresses a registered module
type ModuleRef struct {
	CourseNum int
	Num       int
	Name      string
	Dir       string
}

// LessonRef addresses a registered lesson and the file its content goes to
type LessonRef struct {
	CourseNum int
	ModuleNum int
	Num       int
	Name      string
	Path      string
}

// Source enumerates the remote catalog. Implementations are site specific.
type Source interface {
	Courses(ctx context.Context) ([]Item, error)
	Modules(ctx context.Context, course CourseRef) ([]Item, error)
	Lessons(ctx context.Context, module ModuleRef) ([]Item, error)
}

// Fetcher saves the content of one lesson at ref.Path.
type Fetcher interface {
	FetchLesson(ctx context.Context, ref LessonRef) error
}

// Tracker is the part of the progress catalog the service drives.
type Tracker interface {
	SetExpectedCourses(n int)

	RegisterCourse(num int, name, marker string, expectedModules int) error
	RegisterModule(courseNum, num int, name, marker string, expectedLessons int) error
	RegisterLesson(courseNum, moduleNum, num int, name, marker string) error

	HasNextCourse() bool
	HasNextModule(courseNum int) bool
	HasNextLesson(courseNum, moduleNum int) bool

	NextCourse() (int, error)
	NextModule(courseNum int) (int, error)
	NextLesson(courseNum, moduleNum int) (int, error)
}
