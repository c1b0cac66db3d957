package wordindex

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sha1n/dexter/internal/config"
	"github.com/sha1n/dexter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(recurse bool, opts ...BuilderOption) *Builder {
	opts = append([]BuilderOption{WithLogger(discardLogger())}, opts...)
	return NewBuilder(
		NewFileSelector(config.DefaultExtensions, recurse),
		NewStopWords(DefaultStopWords, 3),
		opts...,
	)
}

func TestBuilder_AddReader_LineNumbers(t *testing.T) {
	b := newTestBuilder(false)
	text := "alpha beta\n\nalpha alpha gamma\ndelta" // last line has no newline

	require.NoError(t, b.AddReader("f.txt", strings.NewReader(text)))
	idx := b.Index()

	alpha, ok := idx.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, []domain.Location{
		{Path: "f.txt", Line: 1},
		{Path: "f.txt", Line: 3},
		{Path: "f.txt", Line: 3},
	}, alpha, "repeated words on one line are not merged")

	delta, ok := idx.Lookup("delta")
	require.True(t, ok)
	assert.Equal(t, []domain.Location{{Path: "f.txt", Line: 4}}, delta)
}

func TestBuilder_AddReader_Filters(t *testing.T) {
	b := newTestBuilder(false)

	require.NoError(t, b.AddReader("f.txt", strings.NewReader("The fox and THAT have jumped over 42 lazy dogs")))
	idx := b.Index()

	assert.Equal(t, []string{"dogs", "jumped", "lazy", "over"}, idx.Words())
}

func TestBuilder_AddReader_LongLine(t *testing.T) {
	b := newTestBuilder(false)
	long := strings.Repeat("x", 200*1024) + " needle\nsecond needle\n"

	require.NoError(t, b.AddReader("big.txt", strings.NewReader(long)))
	locs, ok := b.Index().Lookup("needle")
	require.True(t, ok)
	assert.Equal(t, []domain.Location{{Path: "big.txt", Line: 1}, {Path: "big.txt", Line: 2}}, locs)
}

type failingReader struct {
	data io.Reader
}

func (r *failingReader) Read(p []byte) (int, error) {
	n, err := r.data.Read(p)
	if err == io.EOF {
		return n, errors.New("disk on fire")
	}
	return n, err
}

func TestBuilder_AddReader_ErrorRecordsNothing(t *testing.T) {
	b := newTestBuilder(false)

	err := b.AddReader("f.txt", &failingReader{data: strings.NewReader("partial words here\n")})
	assert.ErrorContains(t, err, "disk on fire")
	assert.Zero(t, b.Index().Len())
}

func TestBuilder_AddDir_KeysAreValidWords(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt": "Hello, World! It's 2024 and the café is open.\n",
		"b.py":  "def parse_records(input_file):\n    return None\n",
	})

	b := newTestBuilder(false)
	require.NoError(t, b.AddDir(context.Background(), dir))
	idx := b.Index()

	require.NotZero(t, idx.Len())
	for _, w := range idx.Words() {
		assert.True(t, IsWord(w), w)
		assert.Greater(t, len(w), 3, w)
		assert.NotContains(t, DefaultStopWords, w)
	}
	assert.Equal(t, 2, b.Files())
}

func TestBuilder_AddDir_NoRecurseSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"top.txt":        "surface",
		"sub/nested.txt": "buried",
	})

	b := newTestBuilder(false)
	require.NoError(t, b.AddDir(context.Background(), dir))
	idx := b.Index()

	_, ok := idx.Lookup("buried")
	assert.False(t, ok)
	for _, f := range idx.Files() {
		assert.NotContains(t, f, filepath.Join(dir, "sub"))
	}
	_, ok = idx.Lookup("surface")
	assert.True(t, ok)
}

func TestBuilder_AddDir_Recurse(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"top.txt":             "surface",
		"sub/nested.txt":      "buried",
		"sub/deeper/more.sql": "buried deeper",
	})

	b := newTestBuilder(true)
	require.NoError(t, b.AddDir(context.Background(), dir))
	idx := b.Index()

	buried, ok := idx.Lookup("buried")
	require.True(t, ok)
	assert.ElementsMatch(t, []domain.Location{
		{Path: filepath.Join(dir, "sub", "nested.txt"), Line: 1},
		{Path: filepath.Join(dir, "sub", "deeper", "more.sql"), Line: 1},
	}, buried)
	assert.Equal(t, 3, b.Files())
}

func TestBuilder_AddDir_SymlinkCycle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"sub/a.txt": "looping"})
	if err := os.Symlink(dir, filepath.Join(dir, "sub", "back")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	b := newTestBuilder(true)
	require.NoError(t, b.AddDir(context.Background(), dir))

	locs, ok := b.Index().Lookup("looping")
	require.True(t, ok)
	assert.Len(t, locs, 1)
}

func TestBuilder_AddDir_SecondAliasSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a/notes.txt": "aliased"})
	if err := os.Symlink(filepath.Join(dir, "a"), filepath.Join(dir, "b")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	b := newTestBuilder(true)
	require.NoError(t, b.AddDir(context.Background(), dir))

	locs, ok := b.Index().Lookup("aliased")
	require.True(t, ok)
	assert.Equal(t, []domain.Location{{Path: filepath.Join(dir, "a", "notes.txt"), Line: 1}}, locs)
	assert.Equal(t, 1, b.Files())
}

func TestBuilder_AddDir_Missing(t *testing.T) {
	b := newTestBuilder(true)
	err := b.AddDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestBuilder_AddDir_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "words"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestBuilder(false).AddDir(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func unreadableDir(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission checks are not enforced")
	}
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt":      "readable words",
		"secret.txt": "hidden secrets",
	})
	secret := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.Chmod(secret, 0000))
	t.Cleanup(func() { _ = os.Chmod(secret, 0644) })
	return dir
}

func TestBuilder_AddDir_UnreadableFails(t *testing.T) {
	dir := unreadableDir(t)

	err := newTestBuilder(false).AddDir(context.Background(), dir)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestBuilder_AddDir_UnreadableSkipped(t *testing.T) {
	dir := unreadableDir(t)

	b := newTestBuilder(false, WithSkipUnreadable(true))
	require.NoError(t, b.AddDir(context.Background(), dir))
	idx := b.Index()

	_, ok := idx.Lookup("readable")
	assert.True(t, ok)
	_, ok = idx.Lookup("secrets")
	assert.False(t, ok)
	assert.Equal(t, 1, b.Skipped())
}

func TestBuilder_AddDir_SkipsUnencodableNames(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("'|' is not a valid file name character")
	}
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"plain.txt":  "kept",
		"pi|ped.txt": "dropped",
	})

	b := newTestBuilder(false)
	require.NoError(t, b.AddDir(context.Background(), dir))
	idx := b.Index()

	_, ok := idx.Lookup("kept")
	assert.True(t, ok)
	_, ok = idx.Lookup("dropped")
	assert.False(t, ok)
	assert.Equal(t, 1, b.Skipped())
}

func unreadableSubdir(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission checks are not enforced")
	}
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt":            "readable words",
		"locked/inner.txt": "hidden secrets",
	})
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })
	return dir
}

func TestBuilder_AddDir_UnreadableDirectoryFails(t *testing.T) {
	dir := unreadableSubdir(t)

	err := newTestBuilder(true).AddDir(context.Background(), dir)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestBuilder_AddDir_UnreadableDirectorySkipped(t *testing.T) {
	dir := unreadableSubdir(t)

	b := newTestBuilder(true, WithSkipUnreadable(true))
	require.NoError(t, b.AddDir(context.Background(), dir))
	idx := b.Index()

	_, ok := idx.Lookup("readable")
	assert.True(t, ok)
	_, ok = idx.Lookup("secrets")
	assert.False(t, ok)
	assert.Equal(t, 1, b.Files())
	assert.Equal(t, 1, b.Skipped())
}
