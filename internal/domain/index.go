package domain

import (
	"maps"
	"slices"
)

// Location is a single occurrence of a word: the file it was found in and
// the 1-based line number within that file.
type Location struct {
	// Path is the file path as it was visited during indexing.
	// It may be relative or absolute depending on the indexed root.
	Path string

	// Line is the 1-based line number.
	Line int
}

// Postings accumulates posting lists while an index is being built or loaded.
// A Postings value is owned by a single builder and is frozen by NewIndex.
type Postings map[string][]Location

// Add appends loc to the posting list of word.
func (p Postings) Add(word string, loc Location) {
	p[word] = append(p[word], loc)
}

// Index maps words to the ordered list of locations where they occur.
// It is read-only once constructed.
type Index struct {
	postings Postings
	words    []string
}

// NewIndex freezes p into an Index. The caller must not modify p afterwards.
func NewIndex(p Postings) *Index {
	if p == nil {
		p = Postings{}
	}
	return &Index{
		postings: p,
		words:    slices.Sorted(maps.Keys(p)),
	}
}

// Lookup returns a copy of the posting list for word.
func (x *Index) Lookup(word string) ([]Location, bool) {
	locs, ok := x.postings[word]
	if !ok {
		return nil, false
	}
	return slices.Clone(locs), true
}

// Words returns all indexed words in ascending lexicographic order.
func (x *Index) Words() []string {
	return slices.Clone(x.words)
}

// Len returns the number of distinct words.
func (x *Index) Len() int {
	return len(x.words)
}

// Records returns the total number of locations across all words.
func (x *Index) Records() int {
	n := 0
	for _, locs := range x.postings {
		n += len(locs)
	}
	return n
}

// Files returns the distinct file paths referenced by the index, sorted.
func (x *Index) Files() []string {
	seen := make(map[string]struct{})
	for _, locs := range x.postings {
		for _, loc := range locs {
			seen[loc.Path] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
