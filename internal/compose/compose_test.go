package compose

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCard(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(imaging.New(20, 28, c), path))
	return path
}

func TestSheetLayout(t *testing.T) {
	dir := t.TempDir()
	red := writeCard(t, dir, "01001.png", color.NRGBA{R: 255, A: 255})
	green := writeCard(t, dir, "01002.png", color.NRGBA{G: 255, A: 255})
	blue := writeCard(t, dir, "01003.png", color.NRGBA{B: 255, A: 255})

	c := New(Options{CellWidth: 10, CellHeight: 14, Quality: 95}, nil)
	out := filepath.Join(dir, "sheets", "SheetDE01001-01003.jpg")
	res, err := c.Sheet([]string{red, green, blue}, 1, 3, out)
	require.NoError(t, err)
	assert.Empty(t, res.Missing)
	assert.Equal(t, 95, res.Quality)
	assert.Positive(t, res.Bytes)

	img, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
	assert.Equal(t, 14, img.Bounds().Dy())

	r, g, b, _ := img.At(5, 7).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Less(t, g>>8, uint32(60))
	assert.Less(t, b>>8, uint32(60))

	r, g, _, _ = img.At(15, 7).RGBA()
	assert.Greater(t, g>>8, uint32(200))
	assert.Less(t, r>>8, uint32(60))
}

func TestSheetMissingImageLeavesBlank(t *testing.T) {
	dir := t.TempDir()
	red := writeCard(t, dir, "01001.png", color.NRGBA{R: 255, A: 255})
	missing := filepath.Join(dir, "01002.png")

	c := New(Options{CellWidth: 10, CellHeight: 14}, nil)
	res, err := c.Sheet([]string{red, missing}, 1, 2, filepath.Join(dir, "out.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []string{missing}, res.Missing)
}

func TestSheetTooLarge(t *testing.T) {
	dir := t.TempDir()
	red := writeCard(t, dir, "01001.png", color.NRGBA{R: 255, A: 255})

	c := New(Options{CellWidth: 10, CellHeight: 14, MaxBytes: 10, Quality: 10, QualityStep: 4}, nil)
	_, err := c.Sheet([]string{red}, 1, 1, filepath.Join(dir, "out.jpg"))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.NoFileExists(t, filepath.Join(dir, "out.jpg"))
}

func TestSheetRejectsOverfullGrid(t *testing.T) {
	c := New(Options{}, nil)
	_, err := c.Sheet([]string{"a", "b", "c"}, 1, 2, filepath.Join(t.TempDir(), "out.jpg"))
	assert.Error(t, err)
}

func TestParseBackground(t *testing.T) {
	c, err := ParseBackground("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 128, B: 0, A: 255}, c)

	c, err = ParseBackground("")
	require.NoError(t, err)
	assert.Equal(t, color.Black, c)

	_, err = ParseBackground("orange")
	assert.Error(t, err)
}
