package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/arcanaland/translationbag/internal/bag"
	"github.com/arcanaland/translationbag/internal/compose"
	"github.com/arcanaland/translationbag/internal/config"
	"github.com/arcanaland/translationbag/internal/deck"
	"github.com/arcanaland/translationbag/internal/hosting"
	"github.com/arcanaland/translationbag/internal/index"
	"github.com/arcanaland/translationbag/internal/names"
)

var ErrNoGenericBack = errors.New("no generic back URL: set generic_back_url or use a template whose card has a BackURL")

// Layout is the indexed and packed source tree
type Layout struct {
	Index    *index.Index
	Plan     deck.Plan
	Problems []index.Problem
	Skipped  []string
	Files    int
}

// Prepare scans the source folder, indexes it and packs the sheets.
// Nothing is read beyond directory listings.
func Prepare(cfg *config.Config) (*Layout, error) {
	files, skipped, err := index.Scan(cfg.SourceFolder)
	if err != nil {
		return nil, err
	}

	ix, problems := index.Build(files, index.Options{BackSuffixes: cfg.BackSuffixes})
	plan := deck.Pack(deck.Items(ix.Classify()), deck.Options{
		Capacity:        cfg.ImagesPerSheet,
		CycleBoundaries: cfg.CycleBoundaries,
		FirstID:         1,
	})
	ix.Assign(plan.Slots)

	return &Layout{
		Index:    ix,
		Plan:     plan,
		Problems: problems,
		Skipped:  skipped,
		Files:    len(files),
	}, nil
}

// Deps are the collaborators of a run
type Deps struct {
	Host     hosting.Host
	Names    *names.Service // Nil uses identifiers as names
	Template *bag.Template  // Nil loads cfg.Template
	TempDir  string         // Empty creates one under the cache dir
	Log      *slog.Logger
}

// Summary reports what a run produced
type Summary struct {
	Files     int
	Cards     int
	Problems  int
	Sheets    int
	Composed  int
	Published int
	Failed    int
	Bags      []string // Written bag files
	Warnings  int      // Distinct assembly problems
}

// Run executes the full build. Only configuration problems return an
// error; per-file, per-sheet and per-card failures are logged and skipped.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*Summary, error) {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	if deps.Host == nil {
		return nil, errors.New("no hosting backend configured")
	}

	tmpl := deps.Template
	if tmpl == nil {
		var err error
		if tmpl, err = bag.LoadTemplate(cfg.Template); err != nil {
			return nil, err
		}
	}
	genericBack := cfg.GenericBackURL
	if genericBack == "" {
		genericBack = tmpl.GenericBackURL()
	}
	if genericBack == "" {
		return nil, ErrNoGenericBack
	}

	var script string
	if cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			return nil, fmt.Errorf("error reading script: %w", err)
		}
		script = string(data)
	}

	background, err := compose.ParseBackground(cfg.Background)
	if err != nil {
		return nil, err
	}

	log.Info("Scanning source folder", "path", cfg.SourceFolder)
	layout, err := Prepare(cfg)
	if err != nil {
		return nil, err
	}
	for _, p := range layout.Problems {
		log.Warn("Skipping file", "problem", p.Error())
	}
	for _, path := range layout.Skipped {
		log.Debug("Ignoring non-image file", "path", path)
	}

	sum := &Summary{
		Files:    layout.Files,
		Cards:    layout.Index.Len(),
		Problems: len(layout.Problems),
		Sheets:   len(layout.Plan.Sheets),
	}
	log.Info("Indexed cards", "cards", sum.Cards, "sheets", sum.Sheets)

	tempDir, cleanup, err := prepareTempDir(deps.TempDir, cfg.KeepTempFolder, log)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	comp := compose.New(compose.Options{
		CellWidth:   cfg.ImageWidth,
		CellHeight:  cfg.ImageHeight,
		MaxBytes:    cfg.MaxUploadBytes,
		Quality:     cfg.ImageQuality,
		QualityStep: cfg.QualityReductionStep,
		Background:  background,
	}, log)

	for i, s := range layout.Plan.Sheets {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if cfg.MaxSheets > 0 && i >= cfg.MaxSheets {
			log.Warn("Sheet cap reached, remaining sheets are skipped", "max_sheets", cfg.MaxSheets, "skipped", len(layout.Plan.Sheets)-i)
			break
		}

		name := s.Name(cfg.Locale)
		render := func() (string, error) {
			log.Info("Creating sheet", "name", name, "kind", s.Kind, "cards", s.Len())
			res, err := comp.Sheet(s.Images, s.Rows, s.Cols, filepath.Join(tempDir, name+".jpg"))
			if err != nil {
				return "", err
			}
			sum.Composed++
			return res.Path, nil
		}

		url, err := hosting.Publish(ctx, deps.Host, name, render, log)
		if err != nil {
			log.Error("Error publishing sheet", "name", name, "error", err)
			sum.Failed++
			continue
		}
		s.URL = url
		sum.Published++
	}

	var salt int
	if cfg.SaltDeckIDs {
		salt = 1000 + rand.Intn(9000)
		log.Debug("Salting deck keys", "offset", salt)
	}

	var nameSource bag.Names
	if deps.Names != nil {
		nameSource = deps.Names
	}
	asm := bag.NewAssembler(nameSource, layout.Plan.Sheets, bag.Options{
		Mode:           cfg.BagMode,
		Locale:         cfg.Locale,
		GenericBackURL: genericBack,
		CycleNames:     cfg.CycleNames,
		CarryOver:      cfg.CarryOver,
		Script:         script,
		DeckSalt:       salt,
	}, log)

	log.Info("Creating output files")
	for _, b := range asm.Assemble(ctx, layout.Index.Entries()) {
		path, err := tmpl.Write(cfg.OutputFolder, b)
		if err != nil {
			return sum, err
		}
		log.Info("Wrote bag", "path", path, "cards", len(b.Cards))
		sum.Bags = append(sum.Bags, path)
	}
	sum.Warnings = asm.Reporter().Len()

	if deps.Names != nil {
		if err := deps.Names.Cache().Save(); err != nil {
			log.Warn("Error saving name cache", "error", err)
		}
	}

	return sum, nil
}

// prepareTempDir returns the sheet folder and a cleanup func that removes
// it unless keep is set
func prepareTempDir(dir string, keep bool, log *slog.Logger) (string, func(), error) {
	if dir == "" {
		base := config.GetCacheDir()
		if err := os.MkdirAll(base, 0755); err != nil {
			return "", nil, fmt.Errorf("error creating cache directory: %w", err)
		}
		var err error
		if dir, err = os.MkdirTemp(base, "sheets-"); err != nil {
			return "", nil, fmt.Errorf("error creating temp folder: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("error creating temp folder: %w", err)
	}

	cleanup := func() {
		if keep {
			log.Info("Keeping temp folder", "path", dir)
			return
		}
		log.Debug("Removing temp folder", "path", dir)
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("Error removing temp folder", "path", dir, "error", err)
		}
	}
	return dir, cleanup, nil
}
