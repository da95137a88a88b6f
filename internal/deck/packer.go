package deck

import "github.com/arcanaland/translationbag/internal/card"

// MaxCapacity is the most cards TTS accepts on one custom deck sheet
const MaxCapacity = 70

// Options controls sheet boundaries
type Options struct {
	Capacity        int  // Cards per sheet
	CycleBoundaries bool // Start a new sheet whenever the cycle changes
	FirstID         int  // ID of the first sheet, defaults to 1
}

// Plan is the result of packing a card stream
type Plan struct {
	Sheets []*Sheet
	Slots  map[string]card.Slot
	NextID int // First free sheet ID after this plan
}

// packer is the running state threaded through one pass
type packer struct {
	opts    Options
	plan    Plan
	current *Sheet
	nextID  int
}

// Pack groups items into sheets in a single forward pass and assigns every
// card its slot. Sheet IDs are unique and increasing from opts.FirstID.
func Pack(items []Item, opts Options) Plan {
	if opts.Capacity <= 0 || opts.Capacity > MaxCapacity {
		opts.Capacity = MaxCapacity
	}
	if opts.FirstID <= 0 {
		opts.FirstID = 1
	}

	p := &packer{
		opts:   opts,
		plan:   Plan{Slots: make(map[string]card.Slot, len(items))},
		nextID: opts.FirstID,
	}
	for _, it := range items {
		if p.needsSheet(it) {
			p.open(it)
		}
		p.add(it)
	}
	p.close()

	p.plan.NextID = p.nextID
	p.layout()
	return p.plan
}

func (p *packer) needsSheet(it Item) bool {
	switch {
	case p.current == nil:
		return true
	case p.opts.CycleBoundaries && it.Cycle != p.current.Cycle:
		return true
	case p.current.Len() >= p.opts.Capacity:
		return true
	default:
		return it.Kind != p.current.Kind
	}
}

func (p *packer) open(it Item) {
	p.close()
	p.current = &Sheet{
		ID:      p.nextID,
		Kind:    it.Kind,
		Cycle:   it.Cycle,
		StartID: it.ID,
	}
	if it.Kind == KindBack {
		p.current.FrontStart = it.Front
	}
	p.nextID++
	p.plan.Sheets = append(p.plan.Sheets, p.current)
}

func (p *packer) add(it Item) {
	s := p.current
	p.plan.Slots[it.ID] = card.Slot{Sheet: s.ID, Index: s.Len()}
	s.Images = append(s.Images, it.Path)
	s.Cards = append(s.Cards, it.ID)
	s.EndID = it.ID
	if it.Kind == KindBack {
		s.FrontEnd = it.Front
	}
}

func (p *packer) close() {
	if p.current == nil {
		return
	}
	p.current.Rows, p.current.Cols = Grid(p.current.Len())
	p.current = nil
}

// layout fills in row and column once every sheet's final size is known
func (p *packer) layout() {
	for _, s := range p.plan.Sheets {
		for i, id := range s.Cards {
			slot := p.plan.Slots[id]
			slot.Row, slot.Col = i/s.Cols, i%s.Cols
			p.plan.Slots[id] = slot
		}
	}
}

// ByID indexes the plan's sheets by ID
func (pl Plan) ByID() map[int]*Sheet {
	out := make(map[int]*Sheet, len(pl.Sheets))
	for _, s := range pl.Sheets {
		out[s.ID] = s
	}
	return out
}
