package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ytget/learnsync/internal/catalog"
	"github.com/ytget/learnsync/internal/model"
	"github.com/ytget/learnsync/internal/platform"
)

// Settings keys as they appear in the settings file
const (
	KeyMaterialDir     = "material_directory"
	KeyCatalogFile     = "catalog_file"
	KeyCatalogFormat   = "catalog_format"
	KeyLogMode         = "log_mode"
	KeyFetchRetries    = "fetch_retries"
	KeyOverwritePolicy = "overwrite_policy"
)

// Default values
const (
	DefaultSettingsFile  = "learnsync.yaml"
	DefaultCatalogFile   = catalog.DefaultFileName
	DefaultCatalogFormat = catalog.FormatJSON
	DefaultLogMode       = "dev"
	DefaultFetchRetries  = 1
	MaxFetchRetries      = 10
)

// policyValues is the overwrite_policy block of the settings file
type policyValues struct {
	Course string `yaml:"course,omitempty"`
	Module string `yaml:"module,omitempty"`
	Lesson string `yaml:"lesson,omitempty"`
}

// values is the on-disk layout of the settings file
type values struct {
	MaterialDir     string       `yaml:"material_directory,omitempty"`
	CatalogFile     string       `yaml:"catalog_file,omitempty"`
	CatalogFormat   string       `yaml:"catalog_format,omitempty"`
	LogMode         string       `yaml:"log_mode,omitempty"`
	FetchRetries    *int         `yaml:"fetch_retries,omitempty"`
	OverwritePolicy policyValues `yaml:"overwrite_policy,omitempty"`
}

// Settings manages application configuration stored in a YAML file
type Settings struct {
	path   string
	values values
}

// NewSettings creates a settings manager for path without reading it
func NewSettings(path string) *Settings {
	if path == "" {
		path = DefaultSettingsFile
	}
	return &Settings{path: path}
}

// Load reads settings from path. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	s := NewSettings(path)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// an empty file decodes to io.EOF
	if err := dec.Decode(&s.values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}
	return s, nil
}

// Save writes the current settings back to the settings file
func (s *Settings) Save() error {
	data, err := yaml.Marshal(&s.values)
	if err != nil {
		return err
	}
	return platform.WriteFileAtomic(s.path, data, platform.DefaultFilePermissions)
}

// Path returns the settings file path
func (s *Settings) Path() string {
	return s.path
}

// GetMaterialDirectory returns the directory course folders are created in
func (s *Settings) GetMaterialDirectory() string {
	dir := s.values.MaterialDir
	if dir == "" {
		defaultDir, err := platform.GetDefaultMaterialDir()
		if err != nil {
			defaultDir = platform.DefaultMaterialDirName
		}
		s.SetMaterialDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetMaterialDirectory sets the material directory
func (s *Settings) SetMaterialDirectory(dir string) {
	s.values.MaterialDir = dir
}

// GetCatalogFile returns the catalog document path. Relative paths are
// resolved against the settings file directory.
func (s *Settings) GetCatalogFile() string {
	file := s.values.CatalogFile
	if file == "" {
		s.SetCatalogFile(DefaultCatalogFile)
		file = DefaultCatalogFile
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(filepath.Dir(s.path), file)
}

// SetCatalogFile sets the catalog document path
func (s *Settings) SetCatalogFile(file string) {
	s.values.CatalogFile = file
}

// GetCatalogFormat returns the configured catalog document format
func (s *Settings) GetCatalogFormat() catalog.Format {
	format, err := catalog.ParseFormat(s.values.CatalogFormat)
	if err != nil {
		s.SetCatalogFormat(DefaultCatalogFormat)
		return DefaultCatalogFormat
	}
	return format
}

// SetCatalogFormat sets the catalog document format
func (s *Settings) SetCatalogFormat(format catalog.Format) {
	s.values.CatalogFormat = string(format)
}

// GetCatalogFormatOptions returns available catalog formats
func (s *Settings) GetCatalogFormatOptions() []catalog.Format {
	return []catalog.Format{catalog.FormatJSON, catalog.FormatYAML}
}

// GetLogMode returns the configured log mode
func (s *Settings) GetLogMode() string {
	mode := s.values.LogMode
	if mode == "" {
		s.SetLogMode(DefaultLogMode)
		return DefaultLogMode
	}
	return mode
}

// SetLogMode sets the log mode
func (s *Settings) SetLogMode(mode string) {
	s.values.LogMode = mode
}

// GetFetchRetries returns how many times a failed lesson fetch is retried
func (s *Settings) GetFetchRetries() int {
	if s.values.FetchRetries == nil {
		s.SetFetchRetries(DefaultFetchRetries)
		return DefaultFetchRetries
	}
	return *s.values.FetchRetries
}

// SetFetchRetries sets the number of fetch retries
func (s *Settings) SetFetchRetries(count int) {
	if count < 0 {
		count = 0
	}
	if count > MaxFetchRetries {
		count = MaxFetchRetries
	}
	s.values.FetchRetries = &count
}

// GetOverwritePolicies returns the per-level overwrite policies. Levels that
// are not configured use the catalog defaults.
func (s *Settings) GetOverwritePolicies() (model.Policies, error) {
	var p model.Policies
	for _, level := range []struct {
		name  string
		value string
		dst   *model.OverwritePolicy
	}{
		{"course", s.values.OverwritePolicy.Course, &p.Course},
		{"module", s.values.OverwritePolicy.Module, &p.Module},
		{"lesson", s.values.OverwritePolicy.Lesson, &p.Lesson},
	} {
		if level.value == "" {
			continue
		}
		policy, err := model.ParseOverwritePolicy(level.value)
		if err != nil {
			return model.Policies{}, fmt.Errorf("%s.%s: %w", KeyOverwritePolicy, level.name, err)
		}
		*level.dst = policy
	}
	return p.WithDefaults(), nil
}

// SetOverwritePolicies sets the per-level overwrite policies
func (s *Settings) SetOverwritePolicies(p model.Policies) {
	s.values.OverwritePolicy = policyValues{
		Course: string(p.Course),
		Module: string(p.Module),
		Lesson: string(p.Lesson),
	}
}
