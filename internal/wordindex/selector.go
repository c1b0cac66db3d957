package wordindex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSelector determines which directory entries are indexed.
type FileSelector struct {
	extensions map[string]struct{}
	recurse    bool
}

// NewFileSelector creates a selector accepting files with the given extensions
// (including the leading dot) and, when recurse is set, subdirectories.
func NewFileSelector(extensions []string, recurse bool) *FileSelector {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[ext] = struct{}{}
	}
	return &FileSelector{
		extensions: exts,
		recurse:    recurse,
	}
}

// Recurse reports whether subdirectories are selected.
func (s *FileSelector) Recurse() bool {
	return s.recurse
}

// IsTextFile reports whether path has an allowed extension.
// Matching is case-sensitive.
func (s *FileSelector) IsTextFile(path string) bool {
	_, ok := s.extensions[filepath.Ext(path)]
	return ok
}

// Entry is a selected directory entry.
type Entry struct {
	Path  string
	IsDir bool
}

// Select lists dir and returns the text files in it, plus its subdirectories
// when recursion is enabled. Subdirectories are not expanded. Hidden entries
// are skipped. Returns ErrPathNotFound if dir does not exist.
func (s *FileSelector) Select(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathError{Path: dir}
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	selected := make([]Entry, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)
		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			// Follow links the way a plain stat would
			info, err := os.Stat(path)
			if err != nil {
				continue // Dangling link
			}
			isDir = info.IsDir()
		}

		switch {
		case isDir && s.recurse:
			selected = append(selected, Entry{Path: path, IsDir: true})
		case !isDir && s.IsTextFile(name):
			selected = append(selected, Entry{Path: path})
		}
	}
	return selected, nil
}
