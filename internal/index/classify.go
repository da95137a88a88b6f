package index

import "github.com/arcanaland/translationbag/internal/card"

// Buckets splits the index by sidedness
type Buckets struct {
	Single []card.Entry
	Front  []card.Entry
	Back   []card.Entry // Back[i] is the reverse face of Front[i]
}

// Classify puts every entry into exactly one bucket. Single and Front keep
// index order; Back follows the order of its fronts so that front and back
// sheets pack into the same slots.
func (ix *Index) Classify() Buckets {
	var b Buckets
	for _, id := range ix.order {
		e := ix.entries[id]
		switch {
		case e.Back:
			continue
		case e.DoubleSided:
			b.Front = append(b.Front, *e)
			b.Back = append(b.Back, *ix.entries[e.Pair])
		default:
			b.Single = append(b.Single, *e)
		}
	}
	return b
}
