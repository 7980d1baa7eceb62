package model

import "fmt"

// Course is the top level of the catalog.
//
// Modules are kept dense: Modules[i].Num == i for every registered module.
type Course struct {
	Num             int
	Name            string
	Marker          string
	ExpectedModules int
	Modules         []*Module
}

// NewCourse creates a new course instance without modules
func NewCourse(num int, name, marker string, expectedModules int) *Course {
	return &Course{
		Num:             num,
		Name:            name,
		Marker:          marker,
		ExpectedModules: expectedModules,
		Modules:         make([]*Module, 0, max(expectedModules, 0)),
	}
}

// Index returns the course number within the catalog
func (c *Course) Index() int { return c.Num }

// Title returns the course name
func (c *Course) Title() string { return c.Name }

// Exists reports whether the course marker exists on the backing store
func (c *Course) Exists(p Prober) bool {
	return p.Exists(c.Marker)
}

// IsCompleted reports whether the course marker exists, every expected module
// is registered and every registered module is complete.
func (c *Course) IsCompleted(p Prober) bool {
	if !c.Exists(p) || len(c.Modules) != c.ExpectedModules {
		return false
	}
	for _, module := range c.Modules {
		if !module.IsCompleted(p) {
			return false
		}
	}
	return true
}

// CompletedModules returns the number of registered modules that are complete
func (c *Course) CompletedModules(p Prober) int {
	n := 0
	for _, module := range c.Modules {
		if module.IsCompleted(p) {
			n++
		}
	}
	return n
}

// Status returns the derived course status
func (c *Course) Status(p Prober) Status {
	if c.IsCompleted(p) {
		return StatusCompleted
	}
	if c.Exists(p) {
		return StatusPartial
	}
	for _, module := range c.Modules {
		if module.Status(p).IsStarted() {
			return StatusPartial
		}
	}
	return StatusPending
}

// Module returns the module registered at num
func (c *Course) Module(num int) (*Module, bool) {
	if num < 0 || num >= len(c.Modules) {
		return nil, false
	}
	return c.Modules[num], true
}

// AddModule registers a module at module.Num under the given policy
func (c *Course) AddModule(module *Module, policy OverwritePolicy, p Prober) (InsertResult, error) {
	module.CourseNum = c.Num
	modules, res, err := Insert(c.Modules, module, policy, p)
	if err != nil {
		return res, fmt.Errorf("module %d of course %d %q: %w", module.Num, c.Num, c.Name, err)
	}
	c.Modules = modules
	return res, nil
}

// NextModule returns the index of the next module to fetch
func (c *Course) NextModule(p Prober) (int, bool) {
	return NextPending(len(c.Modules), c.ExpectedModules, func(i int) bool {
		return c.Modules[i].IsCompleted(p)
	})
}
