package validator

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func contains(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestValidateCleanTree(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "01/001.png")
	touch(t, root, "01/002.png")
	touch(t, root, "01/002-back.png")

	results, err := NewValidator(root, nil).Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Errors)
	assert.Empty(t, results.Warnings)
	assert.Equal(t, 3, results.Cards)
	assert.Equal(t, 1, results.Pairs)
}

func TestValidateProblems(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "01/001.png")
	touch(t, root, "01/123456.png")
	touch(t, root, "01/00009-back.png")
	touch(t, root, "01/notes.txt")
	touch(t, root, "extra/5.png")

	results, err := NewValidator(root, nil).Validate()
	require.NoError(t, err)

	assert.True(t, contains(results.Errors, "back face without a front"), results.Errors)
	assert.True(t, contains(results.Errors, "5.png"), results.Errors)
	assert.True(t, contains(results.Warnings, "notes.txt"), results.Warnings)
	assert.True(t, contains(results.Warnings, "not a two-digit cycle folder"), results.Warnings)
}

func TestValidateEmptyTree(t *testing.T) {
	results, err := NewValidator(t.TempDir(), nil).Validate()
	require.NoError(t, err)
	assert.True(t, contains(results.Errors, "no card images"))
}

func TestValidateMissingFolder(t *testing.T) {
	_, err := NewValidator(filepath.Join(t.TempDir(), "missing"), nil).Validate()
	assert.Error(t, err)
}

func TestValidateImages(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "01", "001.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(good), 0755))
	require.NoError(t, imaging.Save(imaging.New(4, 6, color.White), good))
	touch(t, root, "01/002.png")

	v := NewValidator(root, nil)
	v.CheckImages = true
	results, err := v.Validate()
	require.NoError(t, err)
	require.Len(t, results.Errors, 1)
	assert.Contains(t, results.Errors[0], "01002")
}
