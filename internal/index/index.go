package index

import (
	"errors"
	"fmt"
	"sort"

	"github.com/arcanaland/translationbag/internal/card"
)

// DefaultBackSuffixes mark the reverse face of a double-sided card
var DefaultBackSuffixes = []string{"-back"}

var (
	ErrDuplicateID   = errors.New("duplicate card identifier")
	ErrOrphanBack    = errors.New("back face without a front")
	ErrDuplicateBack = errors.New("front already has a back face")
)

// Problem is a file that was skipped or overwritten while indexing
type Problem struct {
	Path string
	ID   string
	Err  error
}

func (p Problem) Error() string {
	if p.ID != "" {
		return fmt.Sprintf("%s (%s): %v", p.Path, p.ID, p.Err)
	}
	return fmt.Sprintf("%s: %v", p.Path, p.Err)
}

func (p Problem) Unwrap() error {
	return p.Err
}

// Options controls how identifiers are paired
type Options struct {
	BackSuffixes []string
}

// Index maps identifiers to card entries in composite key order
type Index struct {
	entries map[string]*card.Entry
	order   []string
}

// Build indexes the discovered files. Identifiers are collected first and
// sidedness is derived from the complete set, so the order in which fronts
// and backs are discovered has no effect on the result.
func Build(files []File, opts Options) (*Index, []Problem) {
	suffixes := opts.BackSuffixes
	if len(suffixes) == 0 {
		suffixes = DefaultBackSuffixes
	}

	ix := &Index{entries: make(map[string]*card.Entry)}
	var problems []Problem

	for _, f := range files {
		id, err := card.Resolve(f.Folder, f.Base)
		if err != nil {
			problems = append(problems, Problem{Path: f.Path, Err: err})
			continue
		}

		cycle, err := card.Cycle(id)
		if err != nil {
			problems = append(problems, Problem{Path: f.Path, ID: id, Err: err})
			continue
		}

		if prev, ok := ix.entries[id]; ok {
			problems = append(problems, Problem{
				Path: f.Path,
				ID:   id,
				Err:  fmt.Errorf("%w: replaces %s", ErrDuplicateID, prev.Path),
			})
		}

		ix.entries[id] = &card.Entry{ID: id, Cycle: cycle, Path: f.Path}
	}

	ix.sort()
	problems = append(problems, ix.pair(suffixes)...)
	ix.sort()

	return ix, problems
}

// pair flags front/back pairs. Fronts always sort before their backs, so a
// front has its own role settled before any back refers to it.
func (ix *Index) pair(suffixes []string) []Problem {
	var problems []Problem

	for _, id := range ix.order {
		e := ix.entries[id]
		front, suffix, ok := card.TrimBack(id, suffixes)
		if !ok {
			continue
		}

		f, exists := ix.entries[front]
		switch {
		case exists && !f.Back && f.Pair == "":
			e.Back, e.DoubleSided, e.Pair = true, true, front
			f.DoubleSided, f.Pair = true, id
		case card.IsLetterSuffix(suffix):
			// unpaired single letter is an ordinary variant
		case !exists:
			problems = append(problems, Problem{Path: e.Path, ID: id, Err: ErrOrphanBack})
			delete(ix.entries, id)
		default:
			problems = append(problems, Problem{
				Path: e.Path,
				ID:   id,
				Err:  fmt.Errorf("%w: %s", ErrDuplicateBack, front),
			})
			delete(ix.entries, id)
		}
	}

	return problems
}

func (ix *Index) sort() {
	ix.order = ix.order[:0]
	for id := range ix.entries {
		ix.order = append(ix.order, id)
	}
	sort.Slice(ix.order, func(i, j int) bool {
		return card.Compare(ix.order[i], ix.order[j]) < 0
	})
}

// Len returns the number of indexed cards
func (ix *Index) Len() int {
	return len(ix.order)
}

// IDs returns all identifiers in index order
func (ix *Index) IDs() []string {
	return append([]string(nil), ix.order...)
}

// Entry returns a copy of the entry for id
func (ix *Index) Entry(id string) (card.Entry, bool) {
	e, ok := ix.entries[id]
	if !ok {
		return card.Entry{}, false
	}
	return *e, true
}

// Entries returns copies of all entries in index order
func (ix *Index) Entries() []card.Entry {
	out := make([]card.Entry, 0, len(ix.order))
	for _, id := range ix.order {
		out = append(out, *ix.entries[id])
	}
	return out
}

// Assign stores packed slots on their entries
func (ix *Index) Assign(slots map[string]card.Slot) {
	for id, s := range slots {
		if e, ok := ix.entries[id]; ok {
			e.Slot = s
		}
	}
}
