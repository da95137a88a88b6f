package bag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// Card is one card record in a bag
type Card struct {
	ID         string
	Name       string
	Cycle      string
	CardID     int // DeckKey*100 + slot
	DeckKey    int
	FaceURL    string
	BackURL    string
	NumWidth   int
	NumHeight  int
	UniqueBack bool
}

// Bag is one output file
type Bag struct {
	Nickname string
	Cycle    string // Empty for the single overall bag
	Script   string // Replaces the template's bag script when set
	Cards    []Card
}

// FileName returns the output file name of the bag
func (b *Bag) FileName() string {
	return b.Nickname + ".json"
}

// Render fills the template with the bag's cards
func (t *Template) Render(b *Bag) ([]byte, error) {
	doc := clone(t.doc).(map[string]any)
	state, err := bagState(doc)
	if err != nil {
		return nil, err
	}

	state["Nickname"] = b.Nickname
	if b.Script != "" {
		state["LuaScript"] = b.Script
	}

	contained := make([]any, 0, len(b.Cards))
	for _, c := range b.Cards {
		contained = append(contained, t.renderCard(c))
	}
	state["ContainedObjects"] = contained

	return encode(doc)
}

func (t *Template) renderCard(c Card) map[string]any {
	obj := clone(t.card).(map[string]any)
	deck := clone(t.deckEntry()).(map[string]any)

	deck["FaceURL"] = c.FaceURL
	deck["BackURL"] = c.BackURL
	deck["NumWidth"] = c.NumWidth
	deck["NumHeight"] = c.NumHeight
	deck["UniqueBack"] = c.UniqueBack
	if c.UniqueBack {
		deck["BackIsHidden"] = true
	}

	obj["GUID"] = uuid.NewString()[:6]
	obj["Nickname"] = c.Name
	obj["GMNotes"] = c.ID
	obj["CardID"] = c.CardID
	obj["CustomDeck"] = map[string]any{strconv.Itoa(c.DeckKey): deck}
	return obj
}

// Write renders the bag into dir and returns the file path
func (t *Template) Write(dir string, b *Bag) (string, error) {
	data, err := t.Render(b)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output folder: %w", err)
	}
	path := filepath.Join(dir, b.FileName())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("error writing bag: %w", err)
	}
	return path, nil
}

func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// encode writes indented UTF-8 without escaping <, > and &
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("error encoding bag: %w", err)
	}
	return buf.Bytes(), nil
}
