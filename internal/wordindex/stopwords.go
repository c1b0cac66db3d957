package wordindex

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/sha1n/dexter/internal/config"
)

// IgnoreFilename is the name of the default ignore-word file inside the config directory.
const IgnoreFilename = "dexter.ignore"

// DefaultStopWords is the built-in "dexter" stop word list.
var DefaultStopWords = []string{
	"an", "any", "and", "are", "as", "be", "but", "do", "for", "have",
	"is", "it", "its", "it's", "not", "or", "the", "that", "this", "to",
}

// StopWords decides which tokens are indexed. A token is accepted when it is
// longer than the minimum length and is not in the ignore set.
type StopWords struct {
	words     analysis.TokenMap
	minLength int
}

// NewStopWords creates a filter over the given words.
func NewStopWords(words []string, minLength int) *StopWords {
	tm := analysis.NewTokenMap()
	for _, w := range words {
		tm.AddToken(strings.ToLower(w))
	}
	return &StopWords{words: tm, minLength: minLength}
}

// Accept reports whether word should be indexed.
func (s *StopWords) Accept(word string) bool {
	return len(word) > s.minLength && !s.Contains(word)
}

// Contains reports whether word is in the ignore set.
func (s *StopWords) Contains(word string) bool {
	return s.words[word]
}

// MinLength returns the length a word must exceed to be indexed.
func (s *StopWords) MinLength() int {
	return s.minLength
}

// Words returns the ignore set in ascending order.
func (s *StopWords) Words() []string {
	return slices.Sorted(maps.Keys(s.words))
}

// BuiltinStopWords returns the named built-in list.
func BuiltinStopWords(name string) ([]string, error) {
	switch name {
	case config.StopWordsDexter, "":
		return slices.Clone(DefaultStopWords), nil
	case config.StopWordsEnglish:
		tm := analysis.NewTokenMap()
		if err := tm.LoadBytes(en.EnglishStopWords); err != nil {
			return nil, fmt.Errorf("failed to load english stop words: %w", err)
		}
		return slices.Sorted(maps.Keys(tm)), nil
	default:
		return nil, fmt.Errorf("unknown stop word list: %s", name)
	}
}

// LoadStopWords resolves the ignore set for a run:
//  1. the explicit ignore file, when set and present;
//  2. otherwise <config_dir>/dexter.ignore, when present;
//  3. otherwise the built-in list, which is written to <config_dir>/dexter.ignore.
//
// An unreadable ignore file falls back to the built-in list. Failing to write
// the default file is an error.
func LoadStopWords(settings *config.IndexSettings, logger *slog.Logger) (*StopWords, error) {
	if logger == nil {
		logger = slog.Default()
	}

	builtin, err := BuiltinStopWords(settings.StopWords)
	if err != nil {
		return nil, err
	}

	defaultPath := filepath.Join(settings.ConfigDir, IgnoreFilename)

	for _, path := range []string{settings.IgnoreFile, defaultPath} {
		if path == "" || !fileExists(path) {
			continue
		}
		words, err := readIgnoreFile(path)
		if err != nil {
			logger.Warn("Failed to read ignore file, using built-in stop words", "path", path, "error", err)
			return NewStopWords(builtin, settings.MinWordLength), nil
		}
		sw := NewStopWords(words, settings.MinWordLength)
		logger.Info("Loaded ignore file", "path", path, "words", len(sw.Words()), "min_length", sw.MinLength())
		return sw, nil
	}

	if err := WriteIgnoreFile(defaultPath, builtin); err != nil {
		return nil, err
	}
	logger.Info("Wrote default ignore file", "path", defaultPath, "words", len(builtin))

	return NewStopWords(builtin, settings.MinWordLength), nil
}

// readIgnoreFile loads whitespace separated words. Text after '#' or '|' on a
// line is treated as a comment.
func readIgnoreFile(path string) ([]string, error) {
	tm := analysis.NewTokenMap()
	if err := tm.LoadFile(path); err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(tm)), nil
}

// WriteIgnoreFile writes words to path, one per line, creating parent directories.
func WriteIgnoreFile(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create ignore file directory: %w", err)
	}

	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(w)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write ignore file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
