package wordindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/sha1n/dexter/internal/config"
	"github.com/sha1n/dexter/internal/domain"
)

// Source tells where a resolved index came from.
type Source int

const (
	// SourceFresh means the index was built from the directory and saved.
	SourceFresh Source = iota
	// SourceLoaded means the index was read from dexter.index.
	SourceLoaded
)

func (s Source) String() string {
	switch s {
	case SourceFresh:
		return "fresh"
	case SourceLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Service coordinates building, persisting and querying the index of one directory.
type Service struct {
	dir      string
	settings *config.Settings
	store    *Store
	logger   *slog.Logger

	index *domain.Index
	ready bool
	mu    sync.RWMutex
}

// NewService creates a service for dir. It fails with ErrPathNotFound when
// dir does not exist or is not a directory.
func NewService(dir string, settings *config.Settings, logger *slog.Logger) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &PathError{Path: dir}
	}

	store := NewStore(dir, StoreOptions{
		LockTimeout:   settings.Index.LockTimeout,
		SkipMalformed: settings.Query.SkipMalformed,
		Logger:        logger,
	})

	return &Service{
		dir:      dir,
		settings: settings,
		store:    store,
		logger:   logger,
	}, nil
}

// Dir returns the indexed directory.
func (s *Service) Dir() string {
	return s.dir
}

// Build indexes the directory from scratch and saves the result.
func (s *Service) Build(ctx context.Context) (*domain.Index, error) {
	stopWords, err := LoadStopWords(&s.settings.Index, s.logger)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(
		NewFileSelector(s.settings.Index.Extensions, s.settings.Index.Recurse),
		stopWords,
		WithSkipUnreadable(s.settings.Index.SkipUnreadable),
		WithLogger(s.logger),
	)
	if err := b.AddDir(ctx, s.dir); err != nil {
		return nil, err
	}
	files, skipped := b.Files(), b.Skipped()
	idx := b.Index()

	if err := s.store.Save(ctx, idx); err != nil {
		return nil, err
	}

	s.logger.Info("Index complete", "path", s.dir, "files", files, "skipped", skipped, "words", idx.Len())
	return idx, nil
}

// Resolve returns the index of the directory, building it when reindex is
// set or nothing has been saved yet, and loading dexter.index otherwise.
func (s *Service) Resolve(ctx context.Context, reindex bool) (*domain.Index, Source, error) {
	if reindex || !s.store.Exists() {
		idx, err := s.Build(ctx)
		return idx, SourceFresh, err
	}
	if err := ctx.Err(); err != nil {
		return nil, SourceLoaded, err
	}
	idx, err := s.store.Load()
	return idx, SourceLoaded, err
}

// Find resolves the index and writes the locations of word to w.
func (s *Service) Find(ctx context.Context, w io.Writer, word string) error {
	idx, _, err := s.Resolve(ctx, s.settings.Query.Reindex)
	if err != nil {
		return err
	}
	s.logger.Info("Searching", "word", word, "path", s.dir)
	return Find(w, idx, word)
}

// List resolves the index and writes up to count words to w. A negative
// count lists every word.
func (s *Service) List(ctx context.Context, w io.Writer, count int) (int, error) {
	idx, _, err := s.Resolve(ctx, s.settings.Query.Reindex)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Listing", "path", s.dir, "max", count)
	return List(w, idx, ListOptions{Abbreviate: s.settings.Query.Abbreviate, Count: count})
}

// Initialize resolves the index once and keeps it for Current.
func (s *Service) Initialize(ctx context.Context) error {
	idx, source, err := s.Resolve(ctx, s.settings.Query.Reindex)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = idx
	s.ready = true
	s.logger.Info("Index ready", "path", s.dir, "source", source, "words", idx.Len())
	return nil
}

// IsReady returns true once Initialize has succeeded.
func (s *Service) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Current returns the index kept by Initialize.
func (s *Service) Current() (*domain.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready || s.index == nil {
		return nil, fmt.Errorf("index not ready")
	}
	return s.index, nil
}
