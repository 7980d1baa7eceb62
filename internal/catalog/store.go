package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ytget/learnsync/internal/platform"
)

// Store persists the catalog document.
type Store interface {
	// Load returns the persisted document.
	// Returns ErrNoDocument if nothing was persisted yet.
	Load() (Document, error)

	// Save replaces the persisted document with doc.
	Save(doc Document) error
}

// Default catalog file name
const (
	DefaultFileName = "catalog.v2.json"
)

// FileStore keeps the document in a single file that is rewritten in full,
// atomically, on every save.
type FileStore struct {
	path   string
	format Format
	perm   os.FileMode
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file store. An empty format is derived from the
// file extension.
func NewFileStore(path string, format Format) *FileStore {
	if format == "" {
		format = FormatFromPath(path)
	}
	return &FileStore{path: path, format: format, perm: platform.DefaultFilePermissions}
}

// Path returns the document path
func (s *FileStore) Path() string { return s.path }

// Format returns the document format
func (s *FileStore) Format() Format { return s.format }

// Load reads and parses the document file
func (s *FileStore) Load() (Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	doc, err := Unmarshal(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return doc, nil
}

// Save serializes doc and atomically replaces the document file
func (s *FileStore) Save(doc Document) error {
	data, err := Marshal(doc, s.format)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return platform.WriteFileAtomic(s.path, data, s.perm)
}

// MemoryStore keeps the last saved document in memory.
type MemoryStore struct {
	Doc   Document
	Saves int
	// Err, when set, is returned by Save.
	Err error
}

var _ Store = (*MemoryStore)(nil)

// Load returns the last saved document
func (s *MemoryStore) Load() (Document, error) {
	if s.Doc == nil {
		return nil, ErrNoDocument
	}
	return s.Doc, nil
}

// Save records doc
func (s *MemoryStore) Save(doc Document) error {
	if s.Err != nil {
		return s.Err
	}
	s.Doc = doc
	s.Saves++
	return nil
}
