package validator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/arcanaland/translationbag/internal/card"
	"github.com/arcanaland/translationbag/internal/index"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
	Cards    int // Indexed identifiers, backs included
	Pairs    int // Double-sided fronts
}

type Validator struct {
	SourcePath   string
	BackSuffixes []string
	CheckImages  bool // Decode every image instead of trusting extensions
	Results      ValidationResults
}

func NewValidator(sourcePath string, backSuffixes []string) *Validator {
	return &Validator{
		SourcePath:   sourcePath,
		BackSuffixes: backSuffixes,
		Results:      ValidationResults{},
	}
}

func (v *Validator) Validate() (ValidationResults, error) {
	files, skipped, err := index.Scan(v.SourcePath)
	if err != nil {
		return v.Results, err
	}

	v.validateFolders(files)
	v.validateSkipped(skipped)
	ix := v.validateIndex(files)
	if v.CheckImages {
		v.validateImages(ix)
	}

	if ix.Len() == 0 {
		v.Results.Errors = append(v.Results.Errors, fmt.Sprintf("no card images found in %s", v.SourcePath))
	}

	return v.Results, nil
}

// validateFolders warns about folders whose names cannot pad short file names
func (v *Validator) validateFolders(files []index.File) {
	seen := make(map[string]bool)
	for _, f := range files {
		if card.CountDigits(f.Base) >= card.FamilyLen {
			continue
		}
		dir := filepath.Dir(f.Path)
		if seen[dir] {
			continue
		}
		seen[dir] = true

		if len(f.Folder) != 2 || card.CountDigits(f.Folder) != 2 {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("folder %s is not a two-digit cycle folder but holds short file names", dir))
		}
	}
}

// validateSkipped warns about files the build ignores
func (v *Validator) validateSkipped(skipped []string) {
	for _, path := range skipped {
		v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf("not a card image: %s", path))
	}
}

// validateIndex builds the index and sorts its problems by severity
func (v *Validator) validateIndex(files []index.File) *index.Index {
	ix, problems := index.Build(files, index.Options{BackSuffixes: v.BackSuffixes})

	for _, p := range problems {
		switch {
		case errors.Is(p, index.ErrDuplicateBack):
			v.Results.Warnings = append(v.Results.Warnings, p.Error())
		default:
			v.Results.Errors = append(v.Results.Errors, p.Error())
		}
	}

	v.Results.Cards = ix.Len()
	for _, e := range ix.Entries() {
		if e.DoubleSided && !e.Back {
			v.Results.Pairs++
		}
	}
	return ix
}

// validateImages checks that every indexed image decodes
func (v *Validator) validateImages(ix *index.Index) {
	for _, e := range ix.Entries() {
		if _, err := os.Stat(e.Path); err != nil {
			v.Results.Errors = append(v.Results.Errors, fmt.Sprintf("card image not found: %s", e.Path))
			continue
		}
		if _, err := imaging.Open(e.Path); err != nil {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("error decoding %s (%s): %v", e.Path, e.ID, err))
		}
	}
}
