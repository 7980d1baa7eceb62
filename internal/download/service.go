package download

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/ytget/learnsync/internal/config"
	"github.com/ytget/learnsync/internal/logging"
	"github.com/ytget/learnsync/internal/platform"
)

// Run settings
const (
	DefaultRetryDelay = 2 * time.Second
	RunIDPrefix       = "run-"
)

var (
	// ErrCountMismatch is returned when a remote listing disagrees with the
	// number of children its parent declared.
	ErrCountMismatch = errors.New("item count mismatch")

	// ErrNoProgress is returned when the catalog hands out the same item twice
	// in a row, which means processing it did not complete it.
	ErrNoProgress = errors.New("catalog cursor did not advance")
)

// Summary describes one run
type Summary struct {
	RunID      string
	Courses    int // courses visited
	Modules    int // modules visited
	Lessons    int // lessons registered
	Fetched    int // lessons fetched
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Service walks the catalog cursor and fetches every pending lesson
type Service struct {
	tracker    Tracker
	source     Source
	fetcher    Fetcher
	rootDir    string
	retries    int
	retryDelay time.Duration
	log        *logging.Logger
	onUpdate   func(LessonRef) // called after each fetched lesson
}

// NewService creates a new download service writing below rootDir
func NewService(tracker Tracker, source Source, fetcher Fetcher, rootDir string) *Service {
	return &Service{
		tracker:    tracker,
		source:     source,
		fetcher:    fetcher,
		rootDir:    rootDir,
		retries:    config.DefaultFetchRetries,
		retryDelay: DefaultRetryDelay,
		log:        logging.Nop(),
	}
}

// NewServiceFromSettings creates a download service writing below the
// configured material directory with the configured fetch retries
func NewServiceFromSettings(tracker Tracker, source Source, fetcher Fetcher, settings *config.Settings) *Service {
	s := NewService(tracker, source, fetcher, settings.GetMaterialDirectory())
	s.SetFetchRetries(settings.GetFetchRetries())
	return s
}

// SetLogger sets the logger
func (s *Service) SetLogger(l *logging.Logger) {
	if l != nil {
		s.log = l
	}
}

// SetFetchRetries sets how many times a failed lesson fetch is retried
func (s *Service) SetFetchRetries(n int) {
	s.retries = max(n, 0)
}

// SetRetryDelay sets the pause between fetch attempts
func (s *Service) SetRetryDelay(d time.Duration) {
	s.retryDelay = max(d, 0)
}

// SetUpdateCallback sets the callback function for fetched lessons
func (s *Service) SetUpdateCallback(callback func(LessonRef)) {
	s.onUpdate = callback
}

// Run processes every pending item until the catalog is exhausted, the
// context is cancelled or an item fails. Re-running after a failure resumes
// from the first incomplete item.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: generateRunID(), StartedAt: time.Now()}
	log := s.log.With("run_id", sum.RunID)
	log.Info("run started", "root", s.rootDir)

	err := s.run(ctx, log, &sum)
	sum.FinishedAt = time.Now()
	if err != nil {
		log.Error("run failed", "error", err, "fetched", sum.Fetched)
		return sum, err
	}
	log.Info("run finished", "fetched", sum.Fetched, "duration", sum.Duration())
	return sum, nil
}

func (s *Service) run(ctx context.Context, log *logging.Logger, sum *Summary) error {
	if err := platform.CreateDirectoryIfNotExists(s.rootDir); err != nil {
		return fmt.Errorf("failed to create material directory: %w", err)
	}
	courses, err := s.source.Courses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}
	s.tracker.SetExpectedCourses(len(courses))

	last := -1
	for s.tracker.HasNextCourse() {
		if err := ctx.Err(); err != nil {
			return err
		}
		num, err := s.tracker.NextCourse()
		if err != nil {
			return err
		}
		if num == last {
			return fmt.Errorf("%w: course %d", ErrNoProgress, num)
		}
		last = num
		if num >= len(courses) {
			return fmt.Errorf("%w: course %d requested, but only %d were found", ErrCountMismatch, num, len(courses))
		}
		if err := s.saveCourse(ctx, log, num, courses[num], sum); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) saveCourse(ctx context.Context, log *logging.Logger, num int, item Item, sum *Summary) error {
	dir, err := platform.EnsureItemDir(s.rootDir, num, item.Name)
	if err != nil {
		return err
	}
	if err := s.tracker.RegisterCourse(num, item.Name, dir, item.Children); err != nil {
		return err
	}
	sum.Courses++

	course := CourseRef{Num: num, Name: item.Name, Dir: dir}
	modules, err := s.source.Modules(ctx, course)
	if err != nil {
		return fmt.Errorf("failed to list modules of course %d: %w", num, err)
	}
	if len(modules) != item.Children {
		return fmt.Errorf("%w: course %q has %d modules, but %d were found",
			ErrCountMismatch, item.Name, item.Children, len(modules))
	}
	log.Info("course started", "course", num, "name", item.Name, "modules", len(modules))

	last := -1
	for s.tracker.HasNextModule(num) {
		if err := ctx.Err(); err != nil {
			return err
		}
		moduleNum, err := s.tracker.NextModule(num)
		if err != nil {
			return err
		}
		if moduleNum == last {
			return fmt.Errorf("%w: module %d.%d", ErrNoProgress, num, moduleNum)
		}
		last = moduleNum
		if moduleNum >= len(modules) {
			return fmt.Errorf("%w: module %d.%d requested, but course %q lists only %d",
				ErrCountMismatch, num, moduleNum, item.Name, len(modules))
		}
		if err := s.saveModule(ctx, log, course, moduleNum, modules[moduleNum], sum); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) saveModule(ctx context.Context, log *logging.Logger, course CourseRef, num int, item Item, sum *Summary) error {
	dir, err := platform.EnsureItemDir(course.Dir, num, item.Name)
	if err != nil {
		return err
	}
	if err := s.tracker.RegisterModule(course.Num, num, item.Name, dir, item.Children); err != nil {
		return err
	}
	sum.Modules++

	module := ModuleRef{CourseNum: course.Num, Num: num, Name: item.Name, Dir: dir}
	lessons, err := s.source.Lessons(ctx, module)
	if err != nil {
		return fmt.Errorf("failed to list lessons of module %d.%d: %w", course.Num, num, err)
	}
	if len(lessons) != item.Children {
		return fmt.Errorf("%w: module %q has %d lessons, but %d were found",
			ErrCountMismatch, item.Name, item.Children, len(lessons))
	}
	log.Debug("module started", "course", course.Num, "module", num, "name", item.Name, "lessons", len(lessons))

	last := -1
	for s.tracker.HasNextLesson(course.Num, num) {
		if err := ctx.Err(); err != nil {
			return err
		}
		lessonNum, err := s.tracker.NextLesson(course.Num, num)
		if err != nil {
			return err
		}
		if lessonNum == last {
			return fmt.Errorf("%w: lesson %d.%d.%d", ErrNoProgress, course.Num, num, lessonNum)
		}
		last = lessonNum
		if lessonNum >= len(lessons) {
			return fmt.Errorf("%w: lesson %d.%d.%d requested, but module %q lists only %d",
				ErrCountMismatch, course.Num, num, lessonNum, item.Name, len(lessons))
		}
		if err := s.saveLesson(ctx, log, module, lessonNum, lessons[lessonNum], sum); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) saveLesson(ctx context.Context, log *logging.Logger, module ModuleRef, num int, item Item, sum *Summary) error {
	ref := LessonRef{
		CourseNum: module.CourseNum,
		ModuleNum: module.Num,
		Num:       num,
		Name:      item.Name,
		Path:      platform.LessonFilePath(module.Dir, num, item.Name),
	}
	if err := s.tracker.RegisterLesson(ref.CourseNum, ref.ModuleNum, num, item.Name, ref.Path); err != nil {
		return err
	}
	sum.Lessons++

	err := retry.Do(
		func() error { return s.fetcher.FetchLesson(ctx, ref) },
		retry.Context(ctx),
		retry.Attempts(uint(s.retries)+1),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			log.Warn("lesson fetch failed, retrying",
				"course", ref.CourseNum, "module", ref.ModuleNum, "lesson", ref.Num,
				"attempt", attempt+1, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to fetch lesson %d.%d.%d %q: %w", ref.CourseNum, ref.ModuleNum, ref.Num, ref.Name, err)
	}
	sum.Fetched++
	log.Debug("lesson fetched", "course", ref.CourseNum, "module", ref.ModuleNum, "lesson", ref.Num, "path", ref.Path)
	s.notifyUpdate(ref)
	return nil
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(ref LessonRef) {
	if s.onUpdate != nil {
		s.onUpdate(ref)
	}
}

// generateRunID generates a unique, time ordered run ID
func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return RunIDPrefix + uuid.NewString()
	}
	return RunIDPrefix + id.String()
}
