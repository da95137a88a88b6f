package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const appName = "translationbag"

// Bag modes
const (
	BagModeSingle = "single"
	BagModeCycle  = "cycle"
)

// MaxImagesPerSheet is the most cards TTS accepts on one sheet
const MaxImagesPerSheet = 70

// Cloudinary holds the hosting credentials
type Cloudinary struct {
	CloudName string `toml:"cloud_name" yaml:"cloud_name"`
	APIKey    string `toml:"api_key" yaml:"api_key"`
	APISecret string `toml:"api_secret" yaml:"api_secret"`
	Folder    string `toml:"folder" yaml:"folder"`
}

// Config represents the application configuration
type Config struct {
	SourceFolder string `toml:"source_folder" yaml:"source_folder"`
	OutputFolder string `toml:"output_folder" yaml:"output_folder"`
	Locale       string `toml:"locale" yaml:"locale"`

	ImagesPerSheet       int    `toml:"images_per_sheet" yaml:"images_per_sheet"`
	MaxUploadBytes       int64  `toml:"max_upload_bytes" yaml:"max_upload_bytes"`
	ImageQuality         int    `toml:"image_quality" yaml:"image_quality"`
	QualityReductionStep int    `toml:"quality_reduction_step" yaml:"quality_reduction_step"`
	ImageWidth           int    `toml:"image_width" yaml:"image_width"`
	ImageHeight          int    `toml:"image_height" yaml:"image_height"`
	Background           string `toml:"background" yaml:"background"`

	MaxSheets       int      `toml:"max_sheets" yaml:"max_sheets"`
	KeepTempFolder  bool     `toml:"keep_temp_folder" yaml:"keep_temp_folder"`
	SkipUpload      bool     `toml:"skip_upload" yaml:"skip_upload"`
	CycleBoundaries bool     `toml:"cycle_boundaries" yaml:"cycle_boundaries"`
	BagMode         string   `toml:"bag_mode" yaml:"bag_mode"`
	BackSuffixes    []string `toml:"back_suffixes" yaml:"back_suffixes"`

	Template       string `toml:"template" yaml:"template"`
	Script         string `toml:"script" yaml:"script"`
	GenericBackURL string `toml:"generic_back_url" yaml:"generic_back_url"`
	SaltDeckIDs    bool   `toml:"salt_deck_ids" yaml:"salt_deck_ids"`
	LookupURL      string `toml:"lookup_url" yaml:"lookup_url"`

	CycleNames map[string]string   `toml:"cycle_names" yaml:"cycle_names"`
	CarryOver  map[string][]string `toml:"carry_over" yaml:"carry_over"`
	Cloudinary Cloudinary          `toml:"cloudinary" yaml:"cloudinary"`
}

// Default returns the configuration written by init
func Default() *Config {
	return &Config{
		SourceFolder:         "images",
		OutputFolder:         ".",
		Locale:               "de",
		ImagesPerSheet:       30,
		MaxUploadBytes:       10485760,
		ImageQuality:         100,
		QualityReductionStep: 2,
		ImageWidth:           750,
		ImageHeight:          1050,
		Background:           "#000000",
		MaxSheets:            0,
		CycleBoundaries:      true,
		BagMode:              BagModeSingle,
		BackSuffixes:         []string{"-back"},
		LookupURL:            "https://{locale}.arkhamdb.com/api/public/card/",
		CycleNames: map[string]string{
			"00": "Investigator Cards",
			"01": "Core Set",
			"02": "The Dunwich Legacy",
			"81": "Curse of the Rougarou",
		},
		CarryOver: map[string][]string{
			"02": {"01"},
		},
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return xdgCache
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".cache")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// GetCacheDir returns the directory holding the name cache and temp sheets
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), appName)
}

// NameCachePath returns the name cache file for a locale
func NameCachePath(locale string) string {
	return filepath.Join(GetCacheDir(), "names-"+strings.ToLower(locale)+".json")
}

// LoadConfig loads the config file, creating a default one if missing
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}
	return LoadFile(configPath)
}

// LoadFile decodes a TOML or YAML config file chosen by extension. Missing
// keys keep their default values.
func LoadFile(path string) (*Config, error) {
	config := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error decoding config file: %v", err)
		}
	default:
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("error decoding config file: %v", err)
		}
	}

	config.applyEnv()
	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	config := Default()
	if err := Write(GetConfigFilePath(), config); err != nil {
		return nil, err
	}
	config.applyEnv()
	return config, nil
}

// Write encodes config to path, as YAML for .yaml/.yml and TOML otherwise
func Write(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %v", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %v", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		encoder := yaml.NewEncoder(file)
		if err := encoder.Encode(config); err != nil {
			return fmt.Errorf("error encoding config: %v", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("error encoding config: %v", err)
		}
	default:
		encoder := toml.NewEncoder(file)
		if err := encoder.Encode(config); err != nil {
			return fmt.Errorf("error encoding config: %v", err)
		}
	}
	return nil
}

// applyEnv lets credentials stay out of the config file
func (c *Config) applyEnv() {
	if v := os.Getenv("CLOUDINARY_CLOUD_NAME"); v != "" {
		c.Cloudinary.CloudName = v
	}
	if v := os.Getenv("CLOUDINARY_API_KEY"); v != "" {
		c.Cloudinary.APIKey = v
	}
	if v := os.Getenv("CLOUDINARY_API_SECRET"); v != "" {
		c.Cloudinary.APISecret = v
	}
}

// UploadFolder returns the hosting folder for the configured locale
func (c *Config) UploadFolder() string {
	if c.Cloudinary.Folder != "" {
		return c.Cloudinary.Folder
	}
	return "AH LCG - " + strings.ToUpper(c.Locale)
}

// Validate reports problems that must stop a run before any work starts
func (c *Config) Validate() error {
	var errs []error

	if c.SourceFolder == "" {
		errs = append(errs, errors.New("source_folder is required"))
	} else if info, err := os.Stat(c.SourceFolder); err != nil {
		errs = append(errs, fmt.Errorf("source_folder: %v", err))
	} else if !info.IsDir() {
		errs = append(errs, fmt.Errorf("source_folder %s is not a directory", c.SourceFolder))
	}

	if c.Locale == "" {
		errs = append(errs, errors.New("locale is required"))
	}
	if c.ImagesPerSheet < 1 || c.ImagesPerSheet > MaxImagesPerSheet {
		errs = append(errs, fmt.Errorf("images_per_sheet must be between 1 and %d, got %d", MaxImagesPerSheet, c.ImagesPerSheet))
	}
	if c.ImageQuality < 1 || c.ImageQuality > 100 {
		errs = append(errs, fmt.Errorf("image_quality must be between 1 and 100, got %d", c.ImageQuality))
	}
	if c.QualityReductionStep < 1 {
		errs = append(errs, fmt.Errorf("quality_reduction_step must be positive, got %d", c.QualityReductionStep))
	}
	if c.ImageWidth < 1 || c.ImageHeight < 1 {
		errs = append(errs, fmt.Errorf("image size must be positive, got %dx%d", c.ImageWidth, c.ImageHeight))
	}
	if c.MaxSheets < 0 {
		errs = append(errs, fmt.Errorf("max_sheets must not be negative, got %d", c.MaxSheets))
	}

	switch c.BagMode {
	case BagModeSingle, BagModeCycle:
	default:
		errs = append(errs, fmt.Errorf("unknown bag_mode %q", c.BagMode))
	}

	for _, s := range c.BackSuffixes {
		if s == "" {
			errs = append(errs, errors.New("back_suffixes must not contain an empty suffix"))
			break
		}
	}

	for _, f := range []struct{ key, path string }{
		{"template", c.Template},
		{"script", c.Script},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", f.key, err))
		}
	}

	if !c.SkipUpload {
		cl := c.Cloudinary
		if cl.CloudName == "" || cl.APIKey == "" || cl.APISecret == "" {
			errs = append(errs, errors.New("cloudinary credentials are required unless skip_upload is set"))
		}
	}

	return errors.Join(errs...)
}
