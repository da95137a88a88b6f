package card

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// FamilyLen is the number of digits in a card family number
const FamilyLen = 5

var (
	ErrInsufficientDigits  = errors.New("not enough digits to build a card identifier")
	ErrMalformedFolder     = errors.New("folder name is not a numeric cycle prefix")
	ErrMalformedIdentifier = errors.New("identifier does not start with a 5-digit family")
)

// Resolve builds the canonical identifier for the file base name inside folder.
// File names that already carry a full family are returned unchanged; shorter
// names are zero-padded behind the folder's cycle digits.
func Resolve(folder, base string) (string, error) {
	fileDigits := CountDigits(base)
	if fileDigits >= FamilyLen {
		return base, nil
	}

	if folder == "" || CountDigits(folder) != len(folder) {
		return "", fmt.Errorf("%w: %q", ErrMalformedFolder, folder)
	}

	padding := FamilyLen - len(folder) - fileDigits
	if padding < 0 {
		return "", fmt.Errorf("%w: folder %q, file %q", ErrInsufficientDigits, folder, base)
	}

	return folder + strings.Repeat("0", padding) + base, nil
}

// CountDigits returns the number of decimal digits in s
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// Cycle returns the two-digit cycle prefix of an identifier
func Cycle(id string) (string, error) {
	k, err := ParseKey(id)
	if err != nil {
		return "", err
	}
	return k.Family[:2], nil
}

// TrimBack strips the first matching back suffix from id. The remainder must
// still be a valid identifier.
func TrimBack(id string, suffixes []string) (front, suffix string, ok bool) {
	for _, s := range suffixes {
		if s == "" || !strings.HasSuffix(id, s) {
			continue
		}
		front = strings.TrimSuffix(id, s)
		if _, err := ParseKey(front); err != nil {
			continue
		}
		return front, s, true
	}
	return "", "", false
}

// IsLetterSuffix reports whether a back suffix is a single letter, which makes
// it indistinguishable from a variant letter when no front exists.
func IsLetterSuffix(s string) bool {
	r := []rune(s)
	return len(r) == 1 && unicode.IsLetter(r[0])
}
