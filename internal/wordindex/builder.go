package wordindex

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sha1n/dexter/internal/domain"
)

// Builder accumulates word locations from text files.
// A Builder is single-use: call Index once all files have been added.
type Builder struct {
	selector       *FileSelector
	stopWords      *StopWords
	skipUnreadable bool
	logger         *slog.Logger

	postings domain.Postings
	visited  map[string]struct{}
	files    int
	skipped  int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithSkipUnreadable makes the builder log and skip files it cannot read
// instead of failing the build.
func WithSkipUnreadable(skip bool) BuilderOption {
	return func(b *Builder) {
		b.skipUnreadable = skip
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a new builder.
func NewBuilder(selector *FileSelector, stopWords *StopWords, opts ...BuilderOption) *Builder {
	b := &Builder{
		selector:  selector,
		stopWords: stopWords,
		logger:    slog.Default(),
		postings:  domain.Postings{},
		visited:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddDir indexes the files selected in dir, descending into the
// subdirectories the selector returns.
func (b *Builder) AddDir(ctx context.Context, dir string) error {
	// Guard against symlink cycles
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		if _, seen := b.visited[resolved]; seen {
			return nil
		}
		b.visited[resolved] = struct{}{}
	}

	b.logger.Info("Building index", "path", dir, "recurse", b.selector.Recurse())

	entries, err := b.selector.Select(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if entry.IsDir {
			if err := b.AddDir(ctx, entry.Path); err != nil {
				if !b.skipUnreadable || ctx.Err() != nil {
					return err
				}
				b.logger.Warn("Skipping unreadable directory", "path", entry.Path, "error", err)
				b.skipped++
			}
			continue
		}

		if !Encodable(entry.Path) {
			b.logger.Warn("Skipping file with unsupported name", "path", entry.Path)
			b.skipped++
			continue
		}

		if err := b.AddFile(entry.Path); err != nil {
			if !b.skipUnreadable {
				return err
			}
			b.logger.Warn("Skipping unreadable file", "path", entry.Path, "error", err)
			b.skipped++
		}
	}
	return nil
}

// AddFile indexes a single file.
func (b *Builder) AddFile(path string) (err error) {
	b.logger.Info("Scanning", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return b.AddReader(path, f)
}

// AddReader indexes the lines of r, recording locations under path.
// Lines are numbered from 1; the final line need not end with a newline.
// Nothing from r is recorded if reading fails part way.
func (b *Builder) AddReader(path string, r io.Reader) error {
	type occurrence struct {
		word string
		line int
	}

	var found []occurrence
	br := bufio.NewReader(r)
	lineNumber := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNumber++
			for word := range Words(line) {
				if b.stopWords.Accept(word) {
					found = append(found, occurrence{word: word, line: lineNumber})
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	for _, o := range found {
		b.postings.Add(o.word, domain.Location{Path: path, Line: o.line})
	}
	b.files++
	return nil
}

// Files returns the number of files indexed so far.
func (b *Builder) Files() int {
	return b.files
}

// Skipped returns the number of unreadable files that were skipped.
func (b *Builder) Skipped() int {
	return b.skipped
}

// Index freezes the accumulated postings. The builder must not be used afterwards.
func (b *Builder) Index() *domain.Index {
	idx := domain.NewIndex(b.postings)
	b.postings = nil
	return idx
}
