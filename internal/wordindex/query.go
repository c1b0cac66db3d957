package wordindex

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sha1n/dexter/internal/domain"
)

// FileLines is a group of line numbers recorded under one file.
type FileLines struct {
	Path  string
	Lines []int
}

// GroupRuns groups consecutive locations that share a file. A file that
// reappears after a different one starts a new group.
func GroupRuns(locs []domain.Location) []FileLines {
	var groups []FileLines
	for _, loc := range locs {
		if n := len(groups); n > 0 && groups[n-1].Path == loc.Path {
			groups[n-1].Lines = append(groups[n-1].Lines, loc.Line)
			continue
		}
		groups = append(groups, FileLines{Path: loc.Path, Lines: []int{loc.Line}})
	}
	return groups
}

// GroupByBase groups locations by file base name, in order of first appearance.
func GroupByBase(locs []domain.Location) []FileLines {
	var groups []FileLines
	pos := make(map[string]int)
	for _, loc := range locs {
		base := filepath.Base(loc.Path)
		i, ok := pos[base]
		if !ok {
			i = len(groups)
			pos[base] = i
			groups = append(groups, FileLines{Path: base})
		}
		groups[i].Lines = append(groups[i].Lines, loc.Line)
	}
	return groups
}

// Find writes the locations of word to w, one block per consecutive run of
// the same file. Returns ErrWordNotFound, without writing, if word is absent.
func Find(w io.Writer, idx *domain.Index, word string) error {
	locs, ok := idx.Lookup(strings.ToLower(word))
	if !ok {
		return fmt.Errorf("%w: %s", ErrWordNotFound, word)
	}

	var sb strings.Builder
	sb.WriteString("Found at:\n")
	for _, g := range GroupRuns(locs) {
		fmt.Fprintf(&sb, " %s\n  %s\n", g.Path, joinLines(g.Lines, " "))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// ListOptions controls List output.
type ListOptions struct {
	// Abbreviate renders book-index entries grouped by file base name.
	Abbreviate bool
	// Count limits the number of words listed; negative means no limit.
	Count int
}

// List writes the words of idx in ascending order and returns how many were written.
func List(w io.Writer, idx *domain.Index, opts ListOptions) (int, error) {
	words := idx.Words()
	if opts.Count >= 0 && opts.Count < len(words) {
		words = words[:opts.Count]
	}

	bw := &errWriter{w: w}
	for _, word := range words {
		locs, _ := idx.Lookup(word)
		if opts.Abbreviate {
			bw.WriteString(BookEntry(word, locs) + "\n")
			continue
		}
		for _, loc := range locs {
			bw.WriteString(FormatRecord(word, loc) + "\n")
		}
	}
	if bw.err != nil {
		return 0, bw.err
	}
	return len(words), nil
}

// BookEntry renders word as a book-style index entry:
//
//	word
//		a.txt, 5, 9;
//		b.txt, 2
func BookEntry(word string, locs []domain.Location) string {
	groups := GroupByBase(locs)
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, g.Path+", "+joinLines(g.Lines, ", "))
	}
	return word + "  \n\t" + strings.Join(parts, "; \n\t")
}

func joinLines(lines []int, sep string) string {
	s := make([]string, len(lines))
	for i, n := range lines {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, sep)
}

// errWriter remembers the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) WriteString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}
