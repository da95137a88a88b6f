package cmd

import (
	"log/slog"
	"os"
	"time"

	colorize "github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/translationbag/internal/config"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	logger = slog.Default()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "translationbag",
	Short: "Build localized Tabletop Simulator card bags",
	Long: `Translationbag turns a folder of translated card images into Tabletop Simulator bags.
It indexes the images, packs them into sheets, uploads the sheets and writes one
saved-object JSON per bag with every card pointing at its sheet and slot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (TOML or YAML, default $XDG_CONFIG_HOME/translationbag/config.toml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// setupLogging installs a tint handler on stderr; color follows the terminal
func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	plain := noColor || !term.IsTerminal(int(os.Stderr.Fd()))
	if noColor {
		colorize.NoColor = true
	}

	logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    plain,
	}))
	slog.SetDefault(logger)
}

// loadConfig reads --config when given, else the default config file
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFile(cfgFile)
	}
	return config.LoadConfig()
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
