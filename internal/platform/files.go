package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ytget/learnsync/internal/model"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Item naming
const (
	// IllegalNameCharacters are stripped from item names before they are used
	// as folder or file names.
	IllegalNameCharacters = `:"/\|?*`

	// MaxNameLength bounds a single path element, leaving room for the
	// extension and the numeric prefix on common filesystems.
	MaxNameLength = 211

	// LessonExtension is the extension of the saved lesson page.
	LessonExtension = ".html"

	// ItemNameFormat renders "<num>. <name>".
	ItemNameFormat = "%d. %s"
)

// Default directory names
const (
	DefaultMaterialDirName = "material"
)

// FSProber checks completion markers against the local filesystem.
type FSProber struct{}

var _ model.Prober = FSProber{}

// Exists reports whether path exists. Any stat error counts as missing.
func (FSProber) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetDefaultMaterialDir returns the material directory under the working directory
func GetDefaultMaterialDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, DefaultMaterialDirName), nil
}

// CleanName normalizes name to NFC, drops characters that are illegal in
// file names and truncates it to MaxNameLength runes.
func CleanName(name string) string {
	name = norm.NFC.String(name)
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(IllegalNameCharacters, r) || r < 0x20 {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > MaxNameLength {
		runes := []rune(name)
		name = strings.TrimSpace(string(runes[:MaxNameLength]))
	}
	return name
}

// ItemName returns the cleaned "<num>. <name>" element used for course,
// module and lesson paths.
func ItemName(num int, name string) string {
	return CleanName(fmt.Sprintf(ItemNameFormat, num, name))
}

// ItemDir returns the folder of an item below parent
func ItemDir(parent string, num int, name string) string {
	return filepath.Join(parent, ItemName(num, name))
}

// EnsureItemDir creates the folder of an item below parent and returns its path
func EnsureItemDir(parent string, num int, name string) (string, error) {
	dir := ItemDir(parent, num, name)
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("failed to create item directory %s: %w", dir, err)
	}
	return dir, nil
}

// LessonFilePath returns the path of the saved lesson page inside moduleDir
func LessonFilePath(moduleDir string, num int, name string) string {
	base := ItemName(num, name)
	if n := utf8.RuneCountInString(base) + len(LessonExtension); n > MaxNameLength {
		runes := []rune(base)
		base = string(runes[:MaxNameLength-len(LessonExtension)])
	}
	return filepath.Join(moduleDir, base+LessonExtension)
}
