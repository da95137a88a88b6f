package card

import (
	"fmt"
	"strings"
)

// Key is the composite sort key of an identifier.
// Family compares numerically; since it is always FamilyLen digits a plain
// string comparison gives the same order.
type Key struct {
	Family string
	Letter string
	Suffix string
}

// ParseKey splits an identifier into family, variant letter and suffix
func ParseKey(id string) (Key, error) {
	if len(id) < FamilyLen || CountDigits(id[:FamilyLen]) != FamilyLen {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, id)
	}

	k := Key{Family: id[:FamilyLen]}
	rest := id[FamilyLen:]
	if rest != "" && rest[0] >= 'a' && rest[0] <= 'z' {
		k.Letter = rest[:1]
		rest = rest[1:]
	}
	k.Suffix = rest
	return k, nil
}

// Compare orders two keys by family, then letter, then suffix
func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.Family, o.Family); c != 0 {
		return c
	}
	if c := strings.Compare(k.Letter, o.Letter); c != 0 {
		return c
	}
	return strings.Compare(k.Suffix, o.Suffix)
}

// String joins the key back into an identifier
func (k Key) String() string {
	return k.Family + k.Letter + k.Suffix
}

// Compare orders two identifiers by their composite key. Malformed
// identifiers sort after well-formed ones, then lexically.
func Compare(a, b string) int {
	ka, errA := ParseKey(a)
	kb, errB := ParseKey(b)
	switch {
	case errA == nil && errB == nil:
		return ka.Compare(kb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
