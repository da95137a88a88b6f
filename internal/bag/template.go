package bag

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
)

//go:embed template.json
var defaultTemplate []byte

var ErrBadTemplate = errors.New("invalid bag template")

// Template is a TTS saved object whose first object state is the bag and
// whose first contained object is the card every record is cloned from.
type Template struct {
	doc  map[string]any
	card map[string]any
}

// LoadTemplate reads a template file, or the built-in one when path is empty
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		return ParseTemplate(defaultTemplate)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading template: %w", err)
	}
	return ParseTemplate(data)
}

// ParseTemplate validates the template layout
func ParseTemplate(data []byte) (*Template, error) {
	var doc map[string]any
	if err := decode(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTemplate, err)
	}

	bag, err := bagState(doc)
	if err != nil {
		return nil, err
	}
	contained, _ := bag["ContainedObjects"].([]any)
	if len(contained) == 0 {
		return nil, fmt.Errorf("%w: bag has no card template", ErrBadTemplate)
	}
	cardTmpl, ok := contained[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: card template is not an object", ErrBadTemplate)
	}
	if _, ok := cardTmpl["CustomDeck"].(map[string]any); !ok {
		return nil, fmt.Errorf("%w: card template has no CustomDeck", ErrBadTemplate)
	}

	return &Template{doc: doc, card: cardTmpl}, nil
}

func bagState(doc map[string]any) (map[string]any, error) {
	states, _ := doc["ObjectStates"].([]any)
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: no ObjectStates", ErrBadTemplate)
	}
	bag, ok := states[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: bag is not an object", ErrBadTemplate)
	}
	return bag, nil
}

// deckEntry returns the template card's only custom deck entry. Several
// entries resolve to the lowest key.
func (t *Template) deckEntry() map[string]any {
	decks := t.card["CustomDeck"].(map[string]any)
	keys := make([]string, 0, len(decks))
	for k := range decks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if e, ok := decks[k].(map[string]any); ok {
			return e
		}
	}
	return map[string]any{}
}

// GenericBackURL returns the back image of the template card
func (t *Template) GenericBackURL() string {
	s, _ := t.deckEntry()["BackURL"].(string)
	return s
}

// clone deep-copies decoded JSON
func clone(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = clone(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = clone(e)
		}
		return out
	default:
		return v
	}
}
