package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/learnsync/internal/catalog"
	"github.com/ytget/learnsync/internal/config"
	"github.com/ytget/learnsync/internal/platform"
)

var _ Tracker = (*catalog.Catalog)(nil)

// fakeSource serves a fixed tree: course -> module -> lesson names.
type fakeSource struct {
	courses []Item
	modules map[int][]Item
	lessons map[[2]int][]Item
}

func (s *fakeSource) Courses(context.Context) ([]Item, error) { return s.courses, nil }

func (s *fakeSource) Modules(_ context.Context, c CourseRef) ([]Item, error) {
	return s.modules[c.Num], nil
}

func (s *fakeSource) Lessons(_ context.Context, m ModuleRef) ([]Item, error) {
	return s.lessons[[2]int{m.CourseNum, m.Num}], nil
}

// newTree builds a source from lesson counts per module per course
func newTree(layout ...[]int) *fakeSource {
	s := &fakeSource{modules: map[int][]Item{}, lessons: map[[2]int][]Item{}}
	for ci, modules := range layout {
		s.courses = append(s.courses, Item{Name: fmt.Sprintf("Course %d", ci), Children: len(modules)})
		for mi, n := range modules {
			s.modules[ci] = append(s.modules[ci], Item{Name: fmt.Sprintf("Module %d", mi), Children: n})
			for li := 0; li < n; li++ {
				key := [2]int{ci, mi}
				s.lessons[key] = append(s.lessons[key], Item{Name: fmt.Sprintf("Lesson %d", li)})
			}
		}
	}
	return s
}

// fileFetcher writes every lesson to disk and records the fetch order
type fileFetcher struct {
	calls []string
	fail  func(ref LessonRef, attempt int) error
	skip  bool // report success without writing
	tries map[string]int
}

func key(ref LessonRef) string {
	return fmt.Sprintf("%d.%d.%d", ref.CourseNum, ref.ModuleNum, ref.Num)
}

func (f *fileFetcher) FetchLesson(_ context.Context, ref LessonRef) error {
	if f.tries == nil {
		f.tries = map[string]int{}
	}
	k := key(ref)
	f.tries[k]++
	if f.fail != nil {
		if err := f.fail(ref, f.tries[k]); err != nil {
			return err
		}
	}
	f.calls = append(f.calls, k)
	if f.skip {
		return nil
	}
	return os.WriteFile(ref.Path, []byte("<html>"+ref.Name+"</html>"), platform.DefaultFilePermissions)
}

func openCatalog(t *testing.T, dir string) *catalog.Catalog {
	t.Helper()
	store := catalog.NewFileStore(filepath.Join(dir, catalog.DefaultFileName), "")
	c, err := catalog.Open(store, catalog.WithProber(platform.FSProber{}))
	require.NoError(t, err)
	return c
}

func newTestService(c Tracker, src Source, f Fetcher, root string) *Service {
	s := NewService(c, src, f, root)
	s.SetRetryDelay(0)
	s.SetFetchRetries(0)
	return s
}

func TestRunFetchesEverything(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "material")
	c := openCatalog(t, dir)
	src := newTree([]int{2, 1}, []int{3})
	f := &fileFetcher{}

	sum, err := newTestService(c, src, f, root).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"0.0.0", "0.0.1", "0.1.0", "1.0.0", "1.0.1", "1.0.2"}, f.calls)
	assert.Equal(t, 2, sum.Courses)
	assert.Equal(t, 3, sum.Modules)
	assert.Equal(t, 6, sum.Lessons)
	assert.Equal(t, 6, sum.Fetched)
	assert.True(t, strings.HasPrefix(sum.RunID, RunIDPrefix))
	assert.False(t, sum.FinishedAt.Before(sum.StartedAt))

	assert.FileExists(t, filepath.Join(root, "0. Course 0", "1. Module 1", "0. Lesson 0.html"))
	assert.FileExists(t, filepath.Join(dir, catalog.DefaultFileName))
	assert.True(t, c.Progress().Done())
	assert.False(t, c.HasNextCourse())
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "material")
	src := newTree([]int{1, 2})

	_, err := newTestService(openCatalog(t, dir), src, &fileFetcher{}, root).Run(context.Background())
	require.NoError(t, err)

	f := &fileFetcher{}
	sum, err := newTestService(openCatalog(t, dir), src, f, root).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.calls)
	assert.Zero(t, sum.Fetched)
	assert.Zero(t, sum.Courses)
}

func TestRunResumesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "material")
	src := newTree([]int{3}, []int{3})
	boom := errors.New("connection reset")

	first := &fileFetcher{fail: func(ref LessonRef, _ int) error {
		if key(ref) == "1.0.1" {
			return boom
		}
		return nil
	}}
	sum, err := newTestService(openCatalog(t, dir), src, first, root).Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 4, sum.Fetched)

	second := &fileFetcher{}
	c := openCatalog(t, dir)
	sum, err = newTestService(c, src, second, root).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.1", "1.0.2"}, second.calls)
	assert.Equal(t, 2, sum.Fetched)
	assert.True(t, c.Progress().Done())
}

func TestRunRefetchesDeletedLesson(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "material")
	src := newTree([]int{2})

	_, err := newTestService(openCatalog(t, dir), src, &fileFetcher{}, root).Run(context.Background())
	require.NoError(t, err)

	lesson := platform.LessonFilePath(filepath.Join(root, "0. Course 0", "0. Module 0"), 0, "Lesson 0")
	require.NoError(t, os.Remove(lesson))

	f := &fileFetcher{}
	_, err = newTestService(openCatalog(t, dir), src, f, root).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0.0.0"}, f.calls)
	assert.FileExists(t, lesson)
}

func TestRunRetriesFetch(t *testing.T) {
	dir := t.TempDir()
	src := newTree([]int{1})
	f := &fileFetcher{fail: func(_ LessonRef, attempt int) error {
		if attempt < 3 {
			return errors.New("timeout")
		}
		return nil
	}}

	s := newTestService(openCatalog(t, dir), src, f, filepath.Join(dir, "material"))
	s.SetFetchRetries(2)
	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Fetched)
	assert.Equal(t, 3, f.tries["0.0.0"])
}

func TestRunGivesUpAfterRetries(t *testing.T) {
	dir := t.TempDir()
	src := newTree([]int{1})
	timeout := errors.New("timeout")
	f := &fileFetcher{fail: func(LessonRef, int) error { return timeout }}

	s := newTestService(openCatalog(t, dir), src, f, filepath.Join(dir, "material"))
	s.SetFetchRetries(1)
	_, err := s.Run(context.Background())
	require.ErrorIs(t, err, timeout)
	assert.Equal(t, 2, f.tries["0.0.0"])
}

func TestRunCountMismatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fakeSource)
	}{
		{
			name:   "modules",
			mutate: func(s *fakeSource) { s.courses[0].Children = 3 },
		},
		{
			name:   "lessons",
			mutate: func(s *fakeSource) { s.modules[0][1].Children = 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := newTree([]int{2, 2})
			tt.mutate(src)

			_, err := newTestService(openCatalog(t, dir), src, &fileFetcher{}, filepath.Join(dir, "material")).
				Run(context.Background())
			require.ErrorIs(t, err, ErrCountMismatch)
		})
	}
}

func TestRunStaleCountsFromEarlierRun(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(t *testing.T, c *catalog.Catalog, courseDir string)
		tree    *fakeSource
		fetched []string
	}{
		{
			name: "lessons",
			seed: func(t *testing.T, c *catalog.Catalog, courseDir string) {
				require.NoError(t, c.RegisterCourse(0, "Course 0", courseDir, 1))
				require.NoError(t, c.RegisterModule(0, 0, "Module 0", platform.ItemDir(courseDir, 0, "Module 0"), 3))
			},
			tree:    newTree([]int{2}),
			fetched: []string{"0.0.0", "0.0.1"},
		},
		{
			name: "modules",
			seed: func(t *testing.T, c *catalog.Catalog, courseDir string) {
				require.NoError(t, c.RegisterCourse(0, "Course 0", courseDir, 2))
			},
			tree:    newTree([]int{1}),
			fetched: []string{"0.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			root := filepath.Join(dir, "material")
			c := openCatalog(t, dir)
			tt.seed(t, c, platform.ItemDir(root, 0, "Course 0"))

			f := &fileFetcher{}
			_, err := newTestService(c, tt.tree, f, root).Run(context.Background())
			require.ErrorIs(t, err, ErrCountMismatch)
			assert.Equal(t, tt.fetched, f.calls)
		})
	}
}

func TestRunNoProgress(t *testing.T) {
	dir := t.TempDir()
	f := &fileFetcher{skip: true}

	_, err := newTestService(openCatalog(t, dir), newTree([]int{2}), f, filepath.Join(dir, "material")).
		Run(context.Background())
	require.ErrorIs(t, err, ErrNoProgress)
	assert.Equal(t, []string{"0.0.0"}, f.calls)
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "material")
	src := newTree([]int{3})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := &fileFetcher{}
	s := newTestService(openCatalog(t, dir), src, f, root)
	s.SetUpdateCallback(func(LessonRef) { cancel() })

	sum, err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sum.Fetched)

	rest := &fileFetcher{}
	_, err = newTestService(openCatalog(t, dir), src, rest, root).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0.0.1", "0.0.2"}, rest.calls)
}

func TestUpdateCallback(t *testing.T) {
	dir := t.TempDir()
	var got []LessonRef

	s := newTestService(openCatalog(t, dir), newTree([]int{2}), &fileFetcher{}, filepath.Join(dir, "material"))
	s.SetUpdateCallback(func(ref LessonRef) { got = append(got, ref) })

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Lesson 1", got[1].Name)
	assert.Equal(t, ".html", filepath.Ext(got[1].Path))
}

func TestSetters(t *testing.T) {
	s := NewService(nil, nil, nil, "/tmp")
	assert.Equal(t, config.DefaultFetchRetries, s.retries)
	assert.Equal(t, DefaultRetryDelay, s.retryDelay)

	s.SetFetchRetries(-1)
	assert.Zero(t, s.retries)
	s.SetRetryDelay(-1)
	assert.Zero(t, s.retryDelay)

	l := s.log
	s.SetLogger(nil)
	assert.Same(t, l, s.log)
}

func TestNewServiceFromSettings(t *testing.T) {
	dir := t.TempDir()
	settings := config.NewSettings(filepath.Join(dir, config.DefaultSettingsFile))
	settings.SetMaterialDirectory(filepath.Join(dir, "material"))
	settings.SetFetchRetries(3)

	s := NewServiceFromSettings(openCatalog(t, dir), newTree([]int{1}), &fileFetcher{}, settings)
	assert.Equal(t, filepath.Join(dir, "material"), s.rootDir)
	assert.Equal(t, 3, s.retries)

	s.SetRetryDelay(0)
	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Fetched)
	assert.DirExists(t, filepath.Join(dir, "material", "0. Course 0"))
}

func TestGenerateRunID(t *testing.T) {
	id1 := generateRunID()
	id2 := generateRunID()

	assert.NotEqual(t, id1, id2)
	assert.True(t, strings.HasPrefix(id1, RunIDPrefix))
	assert.Len(t, id1, len(RunIDPrefix)+36)
}
