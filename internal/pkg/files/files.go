package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a stored file does not exist.
var ErrNotFound = errors.New("file not found")

// Store keeps record attachments on local disk, laid out as
// <root>/<collection>/<recordID>/<filename>.
type Store struct {
	root string
}

// NewStore creates a file store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating file storage root: %w", err)
	}
	return &Store{root: dir}, nil
}

// Save writes data under a generated unique filename that keeps the original
// extension, and returns that filename.
func (s *Store) Save(collection string, recordID uint, originalName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := uuid.NewString() + ext

	dir := filepath.Join(s.root, collection, fmt.Sprint(recordID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating record directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Read returns the stored bytes for a record file.
func (s *Store) Read(collection string, recordID uint, filename string) ([]byte, error) {
	path, err := s.path(collection, recordID, filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Remove deletes all files of a record. Missing directories are not an error.
func (s *Store) Remove(collection string, recordID uint) error {
	return os.RemoveAll(filepath.Join(s.root, collection, fmt.Sprint(recordID)))
}

// URL derives the retrievable address for a stored file. The thumb flag
// requests the fixed 100x100 rendition.
func URL(collection string, recordID uint, filename string, thumb bool) string {
	url := fmt.Sprintf("/api/v1/files/%s/%d/%s", collection, recordID, filename)
	if thumb {
		url += "?thumb=100x100"
	}
	return url
}

// path validates the filename against traversal and resolves the full path.
func (s *Store) path(collection string, recordID uint, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return "", ErrNotFound
	}
	if collection == "" || collection != filepath.Base(collection) {
		return "", ErrNotFound
	}
	return filepath.Join(s.root, collection, fmt.Sprint(recordID), filename), nil
}
