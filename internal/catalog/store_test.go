package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/learnsync/internal/model"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), DefaultFileName), "")
	assert.Equal(t, FormatJSON, store.Format())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestFileStore_LoadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`[{"num": 0,`), 0o644))

	_, err := NewFileStore(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	_, err = Open(NewFileStore(path, ""))
	assert.Error(t, err)
}

func TestOpen_ResumesFromDisk(t *testing.T) {
	for _, name := range []string{"catalog.v2.json", "catalog.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			p := model.SetProber{}

			first, err := Open(NewFileStore(path, ""), WithProber(p), WithExpectedCourses(2))
			require.NoError(t, err)
			assert.Equal(t, 0, first.Len())
			p.Add(addCourse(t, first, 0, 1)...)
			addCourse(t, first, 1, 2)
			p.Add(marker(1), marker(1, 0), marker(1, 0, 0))

			// a new process rehydrates the same cursor
			second, err := Open(NewFileStore(path, ""), WithProber(p), WithExpectedCourses(2))
			require.NoError(t, err)
			assert.Equal(t, cursorOf(first), cursorOf(second))
			assert.Equal(t, cursor{course: 1, module: 0, lesson: 1, hasCourse: true}, cursorOf(second))

			// and keeps persisting to the same file
			require.NoError(t, second.RegisterCourse(1, "Course 1", marker(1), 1))
			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temp files left behind")
		})
	}
}

func TestFileStore_SaveUsesFormat(t *testing.T) {
	dir := t.TempDir()
	doc := Document{{Num: 0, Name: "Course", Path: "c", NumOfModules: 0, Modules: []ModuleDocument{}}}

	yamlStore := NewFileStore(filepath.Join(dir, "catalog.yaml"), "")
	require.NoError(t, yamlStore.Save(doc))
	data, err := os.ReadFile(yamlStore.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "num_of_modules: 0")

	jsonStore := NewFileStore(filepath.Join(dir, "catalog.data"), FormatJSON)
	require.NoError(t, jsonStore.Save(doc))
	loaded, err := jsonStore.Load()
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestMemoryStore(t *testing.T) {
	store := &MemoryStore{}
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoDocument)

	c, err := Open(store, WithProber(model.SetProber{}))
	require.NoError(t, err)
	require.NoError(t, c.RegisterCourse(0, "Course", "c", 0))

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, doc, 1)
}
