// Package files manages stored ownership document uploads on the
// local file system.
package files

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store keeps uploaded document files under a single flat directory.
type Store struct {
	root string // absolute path to the uploads directory
}

// NewStore creates a store rooted at the given directory, creating it
// if needed.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("files: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("files: create root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute uploads directory.
func (s *Store) Root() string {
	return s.root
}

// SafePath validates that name is a plain filename (no path
// separators, no traversal) and returns its absolute path.
func (s *Store) SafePath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("files: filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("files: invalid filename: %s", name)
	}
	abs := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(abs, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("files: path escapes uploads directory")
	}
	return abs, nil
}

// Save writes the reader's content to name and returns the byte count.
func (s *Store) Save(name string, r io.Reader) (int64, error) {
	abs, err := s.SafePath(name)
	if err != nil {
		return 0, err
	}
	dst, err := os.Create(abs)
	if err != nil {
		return 0, fmt.Errorf("files: create: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, r)
	if err != nil {
		return 0, fmt.Errorf("files: write: %w", err)
	}
	return written, nil
}

// Exists reports whether name is stored.
func (s *Store) Exists(name string) bool {
	abs, err := s.SafePath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// List returns the names of every stored file.
func (s *Store) List() ([]string, error) {
	var out []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		out = append(out, d.Name())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("files: list: %w", err)
	}
	return out, nil
}
