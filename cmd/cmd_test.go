package cmd

import (
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/translationbag/internal/card"
	"github.com/arcanaland/translationbag/internal/config"
)

func TestApplyBuildFlags(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, buildCmd.Flags().Parse([]string{
		"--source", "/cards/de",
		"--capacity", "40",
		"--skip-upload",
		"--bag-mode", "cycle",
	}))

	require.NoError(t, applyBuildFlags(buildCmd, cfg))
	assert.Equal(t, "/cards/de", cfg.SourceFolder)
	assert.Equal(t, 40, cfg.ImagesPerSheet)
	assert.True(t, cfg.SkipUpload)
	assert.Equal(t, config.BagModeCycle, cfg.BagMode)
	// unset flags keep config values
	assert.Equal(t, config.Default().Locale, cfg.Locale)
	assert.Equal(t, config.Default().CycleBoundaries, cfg.CycleBoundaries)
}

func TestImageToAnsi(t *testing.T) {
	img := imaging.New(8, 8, color.NRGBA{R: 255, A: 255})
	art := imageToAnsi(img, 4, 3)

	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "▀▀▀▀", stripAnsi(lines[0]))
	assert.True(t, strings.HasPrefix(lines[0], "\x1b[38;2;2"), "expected a red foreground: %q", lines[0])
}

func TestStripAnsi(t *testing.T) {
	assert.Equal(t, "ab", stripAnsi("\x1b[38;2;1;2;3ma\x1b[0mb"))
}

func TestSidesLabel(t *testing.T) {
	assert.Equal(t, "single-sided", sidesLabel(card.Entry{ID: "01001"}))
	assert.Equal(t, "front, back is 01002-back", sidesLabel(card.Entry{ID: "01002", DoubleSided: true, Pair: "01002-back"}))
	assert.Equal(t, "back of 01002", sidesLabel(card.Entry{ID: "01002-back", DoubleSided: true, Back: true, Pair: "01002"}))
}
