package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/translationbag/internal/config"
	"github.com/arcanaland/translationbag/internal/hosting"
	"github.com/arcanaland/translationbag/internal/names"
	"github.com/arcanaland/translationbag/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build translation bags from a folder of card images",
	Long: `Build indexes the source folder, composes the card images into sheets,
uploads every sheet that is not online yet and writes the bag files.

Flags override the matching config keys for this run only.

Examples:
  translationbag build
  translationbag build --locale fr --source ./fr-cards --output ./bags
  translationbag build --skip-upload --max-sheets 2 --keep-temp`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applyBuildFlags(cmd, cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration:\n%v", err)
		}

		host, err := newHost(cfg)
		if err != nil {
			return err
		}

		cache := names.NewCache(config.NameCachePath(cfg.Locale))
		if err := cache.Load(); err != nil {
			logger.Warn("Ignoring unreadable name cache", "error", err)
		}
		client := names.NewClient(cfg.LookupURL, cfg.Locale, 15*time.Second, names.RetryPolicy{
			MaxRetries: 2,
			Backoff:    500 * time.Millisecond,
		})

		sum, err := pipeline.Run(cmd.Context(), cfg, pipeline.Deps{
			Host:  host,
			Names: names.NewService(client, cache),
			Log:   logger,
		})
		if sum != nil {
			printSummary(sum)
		}
		return err
	},
}

func init() {
	RootCmd.AddCommand(buildCmd)

	f := buildCmd.Flags()
	f.StringP("source", "s", "", "folder with the card images")
	f.StringP("output", "o", "", "folder for the bag files")
	f.StringP("locale", "l", "", "locale of the card names, e.g. de")
	f.Int("capacity", 0, fmt.Sprintf("cards per sheet (1-%d)", config.MaxImagesPerSheet))
	f.Int64("max-bytes", 0, "byte limit for one sheet image")
	f.Int("quality", 0, "starting JPEG quality (1-100)")
	f.Int("quality-step", 0, "quality reduction per retry")
	f.Int("max-sheets", 0, "stop after this many sheets (0 for all)")
	f.Bool("keep-temp", false, "keep the composed sheet images")
	f.Bool("skip-upload", false, "keep sheets in <output>/sheets instead of uploading")
	f.Bool("split-cycles", false, "start a new sheet whenever the cycle changes")
	f.String("bag-mode", "", "single or cycle")
}

// applyBuildFlags copies every flag set on the command line into cfg
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && f.Changed(name) {
			err = apply()
		}
	}

	set("source", func() (e error) { cfg.SourceFolder, e = f.GetString("source"); return })
	set("output", func() (e error) { cfg.OutputFolder, e = f.GetString("output"); return })
	set("locale", func() (e error) { cfg.Locale, e = f.GetString("locale"); return })
	set("capacity", func() (e error) { cfg.ImagesPerSheet, e = f.GetInt("capacity"); return })
	set("max-bytes", func() (e error) { cfg.MaxUploadBytes, e = f.GetInt64("max-bytes"); return })
	set("quality", func() (e error) { cfg.ImageQuality, e = f.GetInt("quality"); return })
	set("quality-step", func() (e error) { cfg.QualityReductionStep, e = f.GetInt("quality-step"); return })
	set("max-sheets", func() (e error) { cfg.MaxSheets, e = f.GetInt("max-sheets"); return })
	set("keep-temp", func() (e error) { cfg.KeepTempFolder, e = f.GetBool("keep-temp"); return })
	set("skip-upload", func() (e error) { cfg.SkipUpload, e = f.GetBool("skip-upload"); return })
	set("split-cycles", func() (e error) { cfg.CycleBoundaries, e = f.GetBool("split-cycles"); return })
	set("bag-mode", func() (e error) { cfg.BagMode, e = f.GetString("bag-mode"); return })

	return err
}

// newHost picks the hosting backend for the run
func newHost(cfg *config.Config) (hosting.Host, error) {
	if cfg.SkipUpload {
		return hosting.Local{Dir: filepath.Join(cfg.OutputFolder, "sheets")}, nil
	}
	c := cfg.Cloudinary
	return hosting.NewCloudinary(c.CloudName, c.APIKey, c.APISecret, cfg.UploadFolder())
}

func printSummary(sum *pipeline.Summary) {
	fmt.Println()
	fmt.Println(colorize.CyanString("Cards:   ") + colorize.HiWhiteString("%d indexed from %d files", sum.Cards, sum.Files))
	fmt.Println(colorize.CyanString("Sheets:  ") + colorize.HiWhiteString("%d planned, %d composed, %d published", sum.Sheets, sum.Composed, sum.Published))

	if sum.Problems > 0 {
		fmt.Println(colorize.YellowString("Skipped: ") + colorize.HiWhiteString("%d files", sum.Problems))
	}
	if sum.Failed > 0 {
		fmt.Println(colorize.RedString("Failed:  ") + colorize.HiWhiteString("%d sheets", sum.Failed))
	}
	if sum.Warnings > 0 {
		fmt.Println(colorize.YellowString("Warned:  ") + colorize.HiWhiteString("%d distinct problems while assembling", sum.Warnings))
	}

	for _, path := range sum.Bags {
		fmt.Println(colorize.GreenString("✅ ") + path)
	}
}
