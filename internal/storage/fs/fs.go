package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	internal_errors "github.com/itchan-dev/itboard/internal/errors"
)

// Storage keeps attachment content in a single flat upload directory.
type Storage struct {
	rootPath string
}

func New(rootPath string) (*Storage, error) {
	// Clean collapses things like "media/../media".
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

func (s *Storage) Root() string {
	return s.rootPath
}

// Path returns the absolute location of a stored name.
func (s *Storage) Path(storedName string) string {
	return filepath.Join(s.rootPath, storedName)
}

// Save writes data to <root>/<storedName> and returns the full path.
func (s *Storage) Save(data io.Reader, storedName string) (string, error) {
	if err := validateStoredName(storedName); err != nil {
		return "", err
	}
	fullPath := s.Path(storedName)

	// The directory may have been removed since startup.
	if err := os.MkdirAll(s.rootPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	// O_EXCL: a stored name is never reused.
	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		os.Remove(fullPath) // best effort
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return fullPath, nil
}

// Open opens a file by stored name for serving.
func (s *Storage) Open(storedName string) (*os.File, error) {
	if err := validateStoredName(storedName); err != nil {
		return nil, internal_errors.NotFound("File not found")
	}
	return s.OpenPath(s.Path(storedName))
}

// OpenPath opens a file by the absolute path recorded in the database.
func (s *Storage) OpenPath(fullPath string) (*os.File, error) {
	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, internal_errors.NotFound("File not found")
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, internal_errors.NotFound("File not found")
	}
	return file, nil
}

// DeletePath removes a file. A file that is already gone is not an error.
func (s *Storage) DeletePath(fullPath string) error {
	err := os.Remove(fullPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// validateStoredName accepts only a bare file name inside the upload directory.
func validateStoredName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid stored name %q", name)
	}
	return nil
}

// Entry describes a regular file in the upload directory.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// List returns the regular files directly under the upload directory.
func (s *Storage) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		entries = append(entries, Entry{Name: de.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return entries, nil
}
