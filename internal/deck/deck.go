package deck

import (
	"fmt"
	"strings"

	"github.com/arcanaland/translationbag/internal/card"
	"github.com/arcanaland/translationbag/internal/index"
)

// GridColumns is the widest a sheet grid gets
const GridColumns = 10

// Kind separates sheets of single-sided cards, fronts and backs
type Kind int

const (
	KindSingle Kind = iota
	KindFront
	KindBack
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindFront:
		return "front"
	case KindBack:
		return "back"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sheet is one composed grid image, known as a custom deck in TTS
type Sheet struct {
	ID      int
	Kind    Kind
	Cycle   string
	Images  []string // Source image paths in slot order
	Cards   []string // Identifiers in slot order
	StartID string
	EndID   string

	// Range of front identifiers whose backs are on this sheet (back sheets only)
	FrontStart string
	FrontEnd   string

	Rows int
	Cols int
	URL  string // Set once the sheet is uploaded
}

// Name returns the online asset name for the sheet
func (s *Sheet) Name(locale string) string {
	return "Sheet" + strings.ToUpper(locale) + s.StartID + "-" + s.EndID
}

// Len returns the number of cards on the sheet
func (s *Sheet) Len() int {
	return len(s.Cards)
}

// Grid returns the grid shape for a sheet holding n cards
func Grid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = min(n, GridColumns)
	rows = (n + GridColumns - 1) / GridColumns
	return rows, cols
}

// Item is one card queued for packing
type Item struct {
	ID    string
	Cycle string
	Path  string
	Kind  Kind
	Front string // Front identifier for back faces
}

// Items turns classified buckets into the packing stream: single-sided
// cards, then fronts, then their backs in matching order.
func Items(b index.Buckets) []Item {
	items := make([]Item, 0, len(b.Single)+len(b.Front)+len(b.Back))
	for _, e := range b.Single {
		items = append(items, itemFor(e, KindSingle))
	}
	for _, e := range b.Front {
		items = append(items, itemFor(e, KindFront))
	}
	for _, e := range b.Back {
		items = append(items, itemFor(e, KindBack))
	}
	return items
}

func itemFor(e card.Entry, kind Kind) Item {
	it := Item{ID: e.ID, Cycle: e.Cycle, Path: e.Path, Kind: kind}
	if kind == KindBack {
		it.Front = e.Pair
	}
	return it
}
