package wordindex

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sha1n/dexter/internal/domain"
)

const (
	// IndexFilename is the name of the persisted index inside an indexed directory
	IndexFilename = "dexter.index"

	// LockFilename guards concurrent writers of IndexFilename
	LockFilename = ".dexter.lock"

	// WordWidth is the minimum width of the word field; longer words are not truncated
	WordWidth = 20

	// LineWidth is the zero-padded width of the line number field
	LineWidth = 6

	fieldSeparator = "|"
)

var (
	errFieldCount  = errors.New("expected 3 '|' separated fields")
	errInvalidWord = errors.New("word must be lowercase ASCII letters")
	errInvalidLine = errors.New("line number must be a positive integer")
	errEmptyPath   = errors.New("file path is empty")
	errUnencodable = errors.New("path cannot be stored in an index record")
)

// StoreOptions configures a Store.
type StoreOptions struct {
	// LockTimeout bounds how long Save waits for another writer.
	LockTimeout time.Duration
	// SkipMalformed makes Load log and skip bad records instead of failing.
	SkipMalformed bool
	Logger        *slog.Logger
}

// Store persists an index as dexter.index inside a directory.
type Store struct {
	dir  string
	opts StoreOptions
}

// NewStore creates a store for the index of dir.
func NewStore(dir string, opts StoreOptions) *Store {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{dir: dir, opts: opts}
}

// Path returns the path of the index file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, IndexFilename)
}

// Exists reports whether the index file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.Path())
	return err == nil && !info.IsDir()
}

// Save writes idx atomically under an exclusive lock.
func (s *Store) Save(ctx context.Context, idx *domain.Index) (err error) {
	lock := NewFileLock(filepath.Join(s.dir, LockFilename))
	acquired, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock index: %w", err)
	}
	if !acquired {
		s.opts.Logger.Info("Waiting for index lock", "path", lock.Path(), "timeout", s.opts.LockTimeout)
		if err := lock.LockWithContext(ctx, s.opts.LockTimeout); err != nil {
			return fmt.Errorf("failed to lock index: %w", err)
		}
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	path := s.Path()
	tempPath := path + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to write index temp file: %w", err)
	}

	if err := WriteIndex(f, idx); err != nil {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write index temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename index file: %w", err)
	}

	s.opts.Logger.Info("Saved index", "path", path, "words", idx.Len(), "records", idx.Records())
	return nil
}

// Load reads the index file.
func (s *Store) Load() (_ *domain.Index, err error) {
	f, err := os.Open(s.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	idx, err := ReadIndex(f, s.opts.SkipMalformed, s.opts.Logger)
	if err != nil {
		return nil, err
	}
	s.opts.Logger.Info("Loaded index", "path", s.Path(), "files", len(idx.Files()), "words", idx.Len(), "records", idx.Records())
	return idx, nil
}

// FormatRecord renders one index record without the trailing newline.
func FormatRecord(word string, loc domain.Location) string {
	return fmt.Sprintf("%-*s|%0*d|%s", WordWidth, word, LineWidth, loc.Line, loc.Path)
}

// Encodable reports whether path can be stored in a record and read back.
func Encodable(path string) bool {
	return path != "" && !strings.ContainsAny(path, "|\r\n")
}

// WriteIndex writes one record per location, words ascending, locations in
// posting order.
func WriteIndex(w io.Writer, idx *domain.Index) error {
	bw := bufio.NewWriter(w)
	for _, word := range idx.Words() {
		locs, _ := idx.Lookup(word)
		for _, loc := range locs {
			if !Encodable(loc.Path) {
				return fmt.Errorf("%w: %q", errUnencodable, loc.Path)
			}
			if _, err := bw.WriteString(FormatRecord(word, loc) + "\n"); err != nil {
				return fmt.Errorf("failed to write index: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// ParseRecord parses one trimmed record of the form word|line|path.
func ParseRecord(record string) (string, domain.Location, error) {
	fields := strings.Split(record, fieldSeparator)
	if len(fields) != 3 {
		return "", domain.Location{}, errFieldCount
	}

	word := strings.TrimSpace(fields[0])
	if !IsWord(word) {
		return "", domain.Location{}, errInvalidWord
	}

	line, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || line < 1 {
		return "", domain.Location{}, errInvalidLine
	}

	if fields[2] == "" {
		return "", domain.Location{}, errEmptyPath
	}

	return word, domain.Location{Path: fields[2], Line: line}, nil
}

// ReadIndex parses records from r, appending locations in file order.
// Blank lines are ignored. A malformed record returns a *ParseError unless
// skipMalformed is set, in which case it is logged and skipped.
func ReadIndex(r io.Reader, skipMalformed bool, logger *slog.Logger) (*domain.Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	postings := domain.Postings{}
	br := bufio.NewReader(r)
	lineNumber := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNumber++
			if record := strings.TrimSpace(line); record != "" {
				word, loc, perr := ParseRecord(record)
				switch {
				case perr == nil:
					postings.Add(word, loc)
				case skipMalformed:
					logger.Warn("Skipping malformed index record", "line", lineNumber, "error", perr)
				default:
					return nil, &ParseError{Line: lineNumber, Text: record, Err: perr}
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read index: %w", err)
		}
	}
	return domain.NewIndex(postings), nil
}
