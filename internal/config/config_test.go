package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Default().ImagesPerSheet, cfg.ImagesPerSheet)
	assert.FileExists(t, GetConfigFilePath())

	again, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg.BackSuffixes, again.BackSuffixes)
	assert.Equal(t, cfg.CycleNames, again.CycleNames)
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
locale = "fr"
images_per_sheet = 40
bag_mode = "cycle"

[carry_over]
"03" = ["01"]

[cloudinary]
cloud_name = "demo"
`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Locale)
	assert.Equal(t, 40, cfg.ImagesPerSheet)
	assert.Equal(t, BagModeCycle, cfg.BagMode)
	assert.Equal(t, []string{"01"}, cfg.CarryOver["03"])
	assert.Equal(t, "demo", cfg.Cloudinary.CloudName)
	// untouched keys keep defaults
	assert.Equal(t, 100, cfg.ImageQuality)
	assert.Equal(t, "AH LCG - FR", cfg.UploadFolder())
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
locale: es
back_suffixes: ["-back", "b"]
skip_upload: true
cycle_names:
  "04": "The Path to Carcosa"
`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Locale)
	assert.Equal(t, []string{"-back", "b"}, cfg.BackSuffixes)
	assert.True(t, cfg.SkipUpload)
	assert.Equal(t, "The Path to Carcosa", cfg.CycleNames["04"])
}

func TestEnvOverridesCredentials(t *testing.T) {
	t.Setenv("CLOUDINARY_API_KEY", "from-env")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cloudinary]\napi_key = \"from-file\"\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Cloudinary.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		cfg := Default()
		cfg.SourceFolder = t.TempDir()
		cfg.SkipUpload = true
		return cfg
	}

	t.Run("defaults with source", func(t *testing.T) {
		assert.NoError(t, valid(t).Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing source", func(c *Config) { c.SourceFolder = filepath.Join(c.SourceFolder, "nope") }, "source_folder"},
		{"capacity too big", func(c *Config) { c.ImagesPerSheet = 71 }, "images_per_sheet"},
		{"capacity zero", func(c *Config) { c.ImagesPerSheet = 0 }, "images_per_sheet"},
		{"quality", func(c *Config) { c.ImageQuality = 101 }, "image_quality"},
		{"bag mode", func(c *Config) { c.BagMode = "shelf" }, "bag_mode"},
		{"empty suffix", func(c *Config) { c.BackSuffixes = []string{""} }, "back_suffixes"},
		{"template missing", func(c *Config) { c.Template = "/does/not/exist.json" }, "template"},
		{"credentials", func(c *Config) { c.SkipUpload = false }, "cloudinary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCachePaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "translationbag"), GetCacheDir())
	assert.Equal(t, filepath.Join(dir, "translationbag", "names-de.json"), NameCachePath("DE"))
}

func TestWriteRoundTrip(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			want := Default()
			want.Locale = "it"
			want.CarryOver = map[string][]string{"05": {"01", "04"}}
			require.NoError(t, Write(path, want))

			got, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "it", got.Locale)
			assert.Equal(t, []string{"01", "04"}, got.CarryOver["05"])
			assert.Equal(t, want.BackSuffixes, got.BackSuffixes)
		})
	}
}
