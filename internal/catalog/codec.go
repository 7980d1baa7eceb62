package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ytget/learnsync/internal/model"
)

// Document is the persisted form of a catalog: the ordered list of courses.
//
// Every entity carries a derived completed flag for human inspection. It is
// recomputed on Encode and ignored by Decode.
type Document []CourseDocument

// CourseDocument is the persisted form of a course
type CourseDocument struct {
	Num          int              `json:"num" yaml:"num"`
	Name         string           `json:"name" yaml:"name"`
	Path         string           `json:"path" yaml:"path"`
	NumOfModules int              `json:"num_of_modules" yaml:"num_of_modules"`
	Completed    bool             `json:"completed" yaml:"completed"`
	Modules      []ModuleDocument `json:"modules" yaml:"modules"`
}

// ModuleDocument is the persisted form of a module
type ModuleDocument struct {
	Num          int              `json:"num" yaml:"num"`
	Name         string           `json:"name" yaml:"name"`
	Path         string           `json:"path" yaml:"path"`
	NumOfLessons int              `json:"num_of_lessons" yaml:"num_of_lessons"`
	Completed    bool             `json:"completed" yaml:"completed"`
	Lessons      []LessonDocument `json:"lessons" yaml:"lessons"`
}

// LessonDocument is the persisted form of a lesson
type LessonDocument struct {
	Num       int    `json:"num" yaml:"num"`
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Encode converts the catalog tree into its document form
func Encode(c *Catalog) Document {
	doc := make(Document, 0, len(c.courses))
	for _, course := range c.courses {
		doc = append(doc, encodeCourse(course, c.prober))
	}
	return doc
}

func encodeCourse(course *model.Course, p model.Prober) CourseDocument {
	modules := make([]ModuleDocument, 0, len(course.Modules))
	for _, module := range course.Modules {
		modules = append(modules, encodeModule(module, p))
	}
	return CourseDocument{
		Num:          course.Num,
		Name:         course.Name,
		Path:         course.Marker,
		NumOfModules: course.ExpectedModules,
		Completed:    course.IsCompleted(p),
		Modules:      modules,
	}
}

func encodeModule(module *model.Module, p model.Prober) ModuleDocument {
	lessons := make([]LessonDocument, 0, len(module.Lessons))
	for _, lesson := range module.Lessons {
		lessons = append(lessons, LessonDocument{
			Num:       lesson.Num,
			Name:      lesson.Name,
			Path:      lesson.Marker,
			Completed: lesson.IsCompleted(p),
		})
	}
	return ModuleDocument{
		Num:          module.Num,
		Name:         module.Name,
		Path:         module.Marker,
		NumOfLessons: module.ExpectedLessons,
		Completed:    module.IsCompleted(p),
		Lessons:      lessons,
	}
}

// Decode rebuilds a catalog from its document form. Entries are taken in
// stored order without re-validating the dense index rule; completed flags
// are ignored.
func Decode(doc Document, opts ...Option) *Catalog {
	c := New(opts...)
	c.courses = make([]*model.Course, 0, len(doc))
	for _, cd := range doc {
		course := &model.Course{
			Num:             cd.Num,
			Name:            cd.Name,
			Marker:          cd.Path,
			ExpectedModules: cd.NumOfModules,
			Modules:         make([]*model.Module, 0, len(cd.Modules)),
		}
		for _, md := range cd.Modules {
			module := &model.Module{
				Num:             md.Num,
				Name:            md.Name,
				Marker:          md.Path,
				ExpectedLessons: md.NumOfLessons,
				Lessons:         make([]*model.Lesson, 0, len(md.Lessons)),
				CourseNum:       cd.Num,
			}
			for _, ld := range md.Lessons {
				module.Lessons = append(module.Lessons, model.NewLesson(ld.Num, ld.Name, ld.Path))
			}
			course.Modules = append(course.Modules, module)
		}
		c.courses = append(c.courses, course)
	}
	return c
}

// Format is the serialization of a Document on disk
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a configuration value into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown catalog format: %q", s)
}

// FormatFromPath picks the format from the file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Marshal serializes doc in the given format
func Marshal(doc Document, f Format) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	switch f {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unknown catalog format: %q", f)
}

// Unmarshal parses data in the given format. Empty input is an empty document.
func Unmarshal(data []byte, f Format) (Document, error) {
	var doc Document
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown catalog format: %q", f)
	}
	return doc, nil
}
