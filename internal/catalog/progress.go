package catalog

// Counter aggregates one level of the catalog
type Counter struct {
	Completed  int `json:"completed"`
	Registered int `json:"registered"`
	Expected   int `json:"expected"`
}

// Percent returns completed items as a percentage of the expected ones
func (c Counter) Percent() float64 {
	if c.Expected == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Expected) * 100
}

// Progress is a snapshot of the whole catalog.
//
// Module and lesson expectations are only known for registered parents, so
// their Expected values grow while the job discovers more of the tree.
type Progress struct {
	Courses Counter `json:"courses"`
	Modules Counter `json:"modules"`
	Lessons Counter `json:"lessons"`
}

// Done reports whether every expected course is complete
func (p Progress) Done() bool {
	return p.Courses.Expected > 0 && p.Courses.Completed == p.Courses.Expected
}

// Progress computes completion counters from the current backing-store state
func (c *Catalog) Progress() Progress {
	var p Progress
	p.Courses.Expected = max(c.expectedCourses, len(c.courses))
	p.Courses.Registered = len(c.courses)
	for _, course := range c.courses {
		if course.IsCompleted(c.prober) {
			p.Courses.Completed++
		}
		p.Modules.Expected += course.ExpectedModules
		p.Modules.Registered += len(course.Modules)
		for _, module := range course.Modules {
			if module.IsCompleted(c.prober) {
				p.Modules.Completed++
			}
			p.Lessons.Expected += module.ExpectedLessons
			p.Lessons.Registered += len(module.Lessons)
			p.Lessons.Completed += module.CompletedLessons(c.prober)
		}
	}
	return p
}
