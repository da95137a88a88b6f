package card

// Entry represents one indexed card image
type Entry struct {
	ID          string // Canonical identifier (e.g., 01104, 01104a, 01104-back)
	Cycle       string // Two-digit cycle prefix (e.g., 01)
	Path        string // Source image on disk
	DoubleSided bool   // Set on both faces of a front/back pair
	Back        bool   // Reverse face of a double-sided card
	Pair        string // Counterpart identifier for double-sided cards
	Slot        Slot   // Position on its sheet, zero until packed
}

// Slot locates a card image on a composed sheet
type Slot struct {
	Sheet int // Sheet ID, 1-based
	Index int // Row-major position within the sheet
	Row   int
	Col   int
}

// Placed reports whether the slot has been assigned by the packer
func (s Slot) Placed() bool {
	return s.Sheet > 0
}
