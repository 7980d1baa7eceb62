package catalog

import (
	"errors"
	"fmt"

	"github.com/ytget/learnsync/internal/logging"
	"github.com/ytget/learnsync/internal/model"
	"github.com/ytget/learnsync/internal/platform"
)

// Catalog is the progress tracker of one download job.
type Catalog struct {
	courses         []*model.Course
	expectedCourses int

	prober   model.Prober
	store    Store
	policies model.Policies
	log      *logging.Logger
}

// New creates an empty catalog. Without options it probes the local
// filesystem and does not persist anything.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		courses:  make([]*model.Course, 0),
		prober:   platform.FSProber{},
		policies: model.DefaultPolicies(),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open rehydrates a catalog from store. A store without a document yields an
// empty catalog bound to that store.
func Open(store Store, opts ...Option) (*Catalog, error) {
	doc, err := store.Load()
	if err != nil && !errors.Is(err, ErrNoDocument) {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	c := Decode(doc, append([]Option{WithStore(store)}, opts...)...)
	c.log.Info("catalog loaded", "courses", len(c.courses), "fresh", err != nil)
	return c, nil
}

// Prober returns the existence probe used for completion checks
func (c *Catalog) Prober() model.Prober { return c.prober }

// Policies returns the per-level overwrite policies
func (c *Catalog) Policies() model.Policies { return c.policies }

// ExpectedCourses returns the number of courses the job should contain
func (c *Catalog) ExpectedCourses() int { return c.expectedCourses }

// SetExpectedCourses sets the number of courses the job should contain.
// It is not part of the persisted document; drivers set it after every
// enumeration of the remote catalog.
func (c *Catalog) SetExpectedCourses(n int) {
	c.expectedCourses = max(n, 0)
}

// Len returns the number of registered courses
func (c *Catalog) Len() int { return len(c.courses) }

// Courses returns the registered courses in ascending order
func (c *Catalog) Courses() []*model.Course {
	out := make([]*model.Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Course returns the course registered at num
func (c *Catalog) Course(num int) (*model.Course, bool) {
	if num < 0 || num >= len(c.courses) {
		return nil, false
	}
	return c.courses[num], true
}

// Module returns the module registered at courseNum/num
func (c *Catalog) Module(courseNum, num int) (*model.Module, bool) {
	course, ok := c.Course(courseNum)
	if !ok {
		return nil, false
	}
	return course.Module(num)
}

// RegisterCourse creates the course at num, or replaces it according to the
// course policy, and persists the catalog.
func (c *Catalog) RegisterCourse(num int, name, marker string, expectedModules int) error {
	if expectedModules < 0 {
		return fmt.Errorf("%w: course %d %q declares %d modules", ErrInvalidCount, num, name, expectedModules)
	}
	course := model.NewCourse(num, name, marker, expectedModules)
	courses, res, err := model.Insert(c.courses, course, c.policies.Course, c.prober)
	if err != nil {
		return fmt.Errorf("course %d %q cannot be added: %w", num, name, err)
	}
	c.courses = courses
	c.report("course", name, res, "course", num)
	return c.persist()
}

// RegisterModule creates the module at courseNum/num, or resolves a
// re-registration according to the module policy, and persists the catalog.
func (c *Catalog) RegisterModule(courseNum, num int, name, marker string, expectedLessons int) error {
	if expectedLessons < 0 {
		return fmt.Errorf("%w: module %d.%d %q declares %d lessons", ErrInvalidCount, courseNum, num, name, expectedLessons)
	}
	course, ok := c.Course(courseNum)
	if !ok {
		return fmt.Errorf("%w: module %d %q cannot be added, course %d does not exist (%d registered)",
			ErrParentNotFound, num, name, courseNum, len(c.courses))
	}
	module := model.NewModule(courseNum, num, name, marker, expectedLessons)
	res, err := course.AddModule(module, c.policies.Module, c.prober)
	if err != nil {
		return err
	}
	c.report("module", name, res, "course", courseNum, "module", num)
	return c.persist()
}

// RegisterLesson creates the lesson at courseNum/moduleNum/num, or resolves a
// re-registration according to the lesson policy, and persists the catalog.
func (c *Catalog) RegisterLesson(courseNum, moduleNum, num int, name, marker string) error {
	course, ok := c.Course(courseNum)
	if !ok {
		return fmt.Errorf("%w: lesson %d of module %d cannot be added, course %d does not exist (%d registered)",
			ErrParentNotFound, num, moduleNum, courseNum, len(c.courses))
	}
	module, ok := course.Module(moduleNum)
	if !ok {
		return fmt.Errorf("%w: lesson %d cannot be added to course %q, module %d does not exist (%d registered)",
			ErrParentNotFound, num, course.Name, moduleNum, len(course.Modules))
	}
	res, err := module.AddLesson(model.NewLesson(num, name, marker), c.policies.Lesson, c.prober)
	if err != nil {
		return err
	}
	c.report("lesson", name, res, "course", courseNum, "module", moduleNum, "lesson", num)
	return c.persist()
}

// NextCourse returns the index of the next course to process. It returns
// ErrExhausted when every expected course is registered and complete.
func (c *Catalog) NextCourse() (int, error) {
	num, ok := c.nextCourse()
	if !ok {
		return -1, fmt.Errorf("%w: no more courses left", ErrExhausted)
	}
	return num, nil
}

// NextModule returns the index of the next module of courseNum to process
func (c *Catalog) NextModule(courseNum int) (int, error) {
	course, ok := c.Course(courseNum)
	if !ok {
		return -1, fmt.Errorf("%w: course %d", ErrParentNotFound, courseNum)
	}
	num, ok := course.NextModule(c.prober)
	if !ok {
		return -1, fmt.Errorf("%w: no more modules left in course %d", ErrExhausted, courseNum)
	}
	return num, nil
}

// NextLesson returns the index of the next lesson of courseNum/moduleNum to process
func (c *Catalog) NextLesson(courseNum, moduleNum int) (int, error) {
	module, ok := c.Module(courseNum, moduleNum)
	if !ok {
		return -1, fmt.Errorf("%w: module %d.%d", ErrParentNotFound, courseNum, moduleNum)
	}
	num, ok := module.NextLesson(c.prober)
	if !ok {
		return -1, fmt.Errorf("%w: no more lessons left in module %d.%d", ErrExhausted, courseNum, moduleNum)
	}
	return num, nil
}

// HasNextCourse reports whether NextCourse would return an index
func (c *Catalog) HasNextCourse() bool {
	_, ok := c.nextCourse()
	return ok
}

// HasNextModule reports whether NextModule would return an index. A missing
// course has no next module.
func (c *Catalog) HasNextModule(courseNum int) bool {
	course, ok := c.Course(courseNum)
	if !ok {
		return false
	}
	_, ok = course.NextModule(c.prober)
	return ok
}

// HasNextLesson reports whether NextLesson would return an index. A missing
// module has no next lesson.
func (c *Catalog) HasNextLesson(courseNum, moduleNum int) bool {
	module, ok := c.Module(courseNum, moduleNum)
	if !ok {
		return false
	}
	_, ok = module.NextLesson(c.prober)
	return ok
}

func (c *Catalog) nextCourse() (int, bool) {
	return model.NextPending(len(c.courses), c.expectedCourses, func(i int) bool {
		return c.courses[i].IsCompleted(c.prober)
	})
}

func (c *Catalog) report(kind, name string, res model.InsertResult, kv ...interface{}) {
	switch {
	case res.Duplicate() && res.ExistingCompleted:
		c.log.Debug(res.DuplicateMessage(kind, name), kv...)
	case res.Duplicate():
		c.log.Warn(res.DuplicateMessage(kind, name), kv...)
	case res.Outcome == model.Kept:
		c.log.Debug(kind+" already exists on disk, registration skipped", append(kv, "name", name)...)
	case res.Outcome == model.Replaced:
		c.log.Info(kind+" replaced", append(kv, "name", name, "previous", res.ExistingName)...)
	default:
		c.log.Debug(kind+" registered", append(kv, "name", name)...)
	}
}

func (c *Catalog) persist() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(Encode(c)); err != nil {
		c.log.Error("failed to persist catalog", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
