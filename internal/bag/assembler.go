package bag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arcanaland/translationbag/internal/card"
	"github.com/arcanaland/translationbag/internal/config"
	"github.com/arcanaland/translationbag/internal/deck"
)

var (
	ErrNotPlaced   = errors.New("card has no sheet slot")
	ErrMissingFace = errors.New("face sheet has no uploaded URL")
)

// Names resolves display names
type Names interface {
	Name(ctx context.Context, id string) (string, error)
}

// Options controls how records and bags are built
type Options struct {
	Mode           string // config.BagModeSingle or config.BagModeCycle
	Locale         string
	GenericBackURL string
	CycleNames     map[string]string
	CarryOver      map[string][]string // Cycle -> baseline cycles copied in first
	Script         string
	DeckSalt       int // Added to every sheet ID to form the TTS deck key
}

// Assembler turns placed index entries into card records and bags
type Assembler struct {
	opts     Options
	names    Names
	sheets   map[int]*deck.Sheet
	resolver *deck.Resolver
	report   *Reporter
}

func NewAssembler(names Names, sheets []*deck.Sheet, opts Options, log *slog.Logger) *Assembler {
	if opts.Mode == "" {
		opts.Mode = config.BagModeSingle
	}
	byID := make(map[int]*deck.Sheet, len(sheets))
	for _, s := range sheets {
		byID[s.ID] = s
	}
	return &Assembler{
		opts:     opts,
		names:    names,
		sheets:   byID,
		resolver: deck.NewResolver(sheets),
		report:   NewReporter(log),
	}
}

// Reporter returns the deduplicated problem log
func (a *Assembler) Reporter() *Reporter {
	return a.report
}

// Card builds the record for one front or single-sided entry
func (a *Assembler) Card(ctx context.Context, e card.Entry) (Card, error) {
	face, ok := a.sheets[e.Slot.Sheet]
	if !e.Slot.Placed() || !ok {
		return Card{}, fmt.Errorf("%w: %s", ErrNotPlaced, e.ID)
	}
	if face.URL == "" {
		return Card{}, fmt.Errorf("%w: sheet %d", ErrMissingFace, face.ID)
	}

	backURL := a.opts.GenericBackURL
	if e.DoubleSided {
		back, err := a.resolver.Back(e.ID)
		if err != nil {
			return Card{}, err
		}
		backURL = back.URL
	}

	key := face.ID + a.opts.DeckSalt
	return Card{
		ID:         e.ID,
		Name:       a.name(ctx, e.ID),
		Cycle:      e.Cycle,
		CardID:     key*100 + e.Slot.Index,
		DeckKey:    key,
		FaceURL:    face.URL,
		BackURL:    backURL,
		NumWidth:   face.Cols,
		NumHeight:  face.Rows,
		UniqueBack: e.DoubleSided,
	}, nil
}

// name falls back to the identifier when the lookup fails
func (a *Assembler) name(ctx context.Context, id string) string {
	if a.names == nil {
		return id
	}
	n, err := a.names.Name(ctx, id)
	if err != nil || n == "" {
		a.report.Warn("name:"+id, "Name lookup failed, using identifier", "id", id, "error", err)
		return id
	}
	return n
}

// Cards builds records for entries in order, skipping back faces and
// omitting cards that cannot be resolved
func (a *Assembler) Cards(ctx context.Context, entries []card.Entry) []Card {
	var out []Card
	for _, e := range entries {
		if e.Back {
			continue
		}
		c, err := a.Card(ctx, e)
		if err != nil {
			a.reportCard(e, err)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (a *Assembler) reportCard(e card.Entry, err error) {
	var key string
	switch {
	case errors.Is(err, ErrMissingFace):
		key = fmt.Sprintf("face:%d", e.Slot.Sheet)
	case errors.Is(err, deck.ErrMissingURL):
		if s, _ := a.resolver.Back(e.ID); s != nil {
			key = fmt.Sprintf("back:%d", s.ID)
		}
	case errors.Is(err, deck.ErrNoBackSheet):
		key = fmt.Sprintf("noback:%d", e.Slot.Sheet)
	default:
		key = "card:" + e.ID
	}
	a.report.Warn(key, "Omitting card", "id", e.ID, "error", err)
}

// Assemble builds the bags for entries
func (a *Assembler) Assemble(ctx context.Context, entries []card.Entry) []*Bag {
	cards := a.Cards(ctx, entries)

	if a.opts.Mode != config.BagModeCycle {
		return []*Bag{{
			Nickname: "Translated Cards - " + strings.ToUpper(a.opts.Locale),
			Script:   a.opts.Script,
			Cards:    cards,
		}}
	}

	var cycles []string
	byCycle := make(map[string][]Card)
	for _, c := range cards {
		if _, ok := byCycle[c.Cycle]; !ok {
			cycles = append(cycles, c.Cycle)
		}
		byCycle[c.Cycle] = append(byCycle[c.Cycle], c)
	}

	bags := make([]*Bag, 0, len(cycles))
	for _, cy := range cycles {
		var bagCards []Card
		for _, base := range a.opts.CarryOver[cy] {
			if base == cy {
				continue
			}
			bagCards = append(bagCards, byCycle[base]...)
		}
		bagCards = append(bagCards, byCycle[cy]...)

		bags = append(bags, &Bag{
			Nickname: a.cycleName(cy),
			Cycle:    cy,
			Script:   a.opts.Script,
			Cards:    bagCards,
		})
	}
	return bags
}

func (a *Assembler) cycleName(cycle string) string {
	name, ok := a.opts.CycleNames[cycle]
	if !ok || name == "" {
		name = "Cycle " + cycle
	}
	return name + " - " + strings.ToUpper(a.opts.Locale)
}
