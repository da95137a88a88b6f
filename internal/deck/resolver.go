package deck

import (
	"errors"
	"fmt"

	"github.com/arcanaland/translationbag/internal/card"
)

var (
	ErrNoBackSheet = errors.New("no back sheet covers card")
	ErrMissingURL  = errors.New("sheet has no uploaded URL")
)

// Resolver finds the back sheet holding a double-sided card's reverse face
type Resolver struct {
	backs []*Sheet
}

// NewResolver collects the back sheets from sheets, keeping their order
func NewResolver(sheets []*Sheet) *Resolver {
	r := &Resolver{}
	for _, s := range sheets {
		if s.Kind == KindBack {
			r.backs = append(r.backs, s)
		}
	}
	return r
}

// Back returns the back sheet whose front range contains frontID. Back
// sheets pack in the same order as fronts, so the card's back sits in the
// same slot as its face. The first matching sheet wins.
func (r *Resolver) Back(frontID string) (*Sheet, error) {
	for _, s := range r.backs {
		if card.Compare(s.FrontStart, frontID) > 0 || card.Compare(frontID, s.FrontEnd) > 0 {
			continue
		}
		if s.URL == "" {
			return s, fmt.Errorf("%w: sheet %d (%s)", ErrMissingURL, s.ID, frontID)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoBackSheet, frontID)
}
