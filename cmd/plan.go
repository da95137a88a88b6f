package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/translationbag/internal/deck"
	"github.com/arcanaland/translationbag/internal/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show how the source folder would be packed into sheets",
	Long: `Plan indexes the source folder and packs it into sheets without composing,
uploading or looking up anything. Use it to check sheet boundaries before a build.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applyBuildFlags(cmd, cfg); err != nil {
			return err
		}

		layout, err := pipeline.Prepare(cfg)
		if err != nil {
			return err
		}

		for _, p := range layout.Problems {
			fmt.Println(colorize.YellowString("skipped ") + p.Error())
		}
		if len(layout.Problems) > 0 {
			fmt.Println()
		}

		if len(layout.Plan.Sheets) == 0 {
			fmt.Println("No card images found in", cfg.SourceFolder)
			return nil
		}

		fmt.Printf("%-4s %-7s %-5s %-6s %-6s %s\n", "ID", "KIND", "CYCLE", "CARDS", "GRID", "NAME")
		for _, s := range layout.Plan.Sheets {
			fmt.Printf("%-4d %-7s %-5s %-6d %-6s %s\n",
				s.ID, s.Kind, s.Cycle, s.Len(), fmt.Sprintf("%dx%d", s.Cols, s.Rows), s.Name(cfg.Locale))
			if s.Kind == deck.KindBack && verbose {
				fmt.Printf("     backs for %s..%s\n", s.FrontStart, s.FrontEnd)
			}
		}

		fmt.Println()
		fmt.Println(colorize.CyanString("Cards:  ") + colorize.HiWhiteString("%d", layout.Index.Len()))
		fmt.Println(colorize.CyanString("Sheets: ") + colorize.HiWhiteString("%d", len(layout.Plan.Sheets)))
		if cfg.MaxSheets > 0 && cfg.MaxSheets < len(layout.Plan.Sheets) {
			fmt.Println(colorize.YellowString("Only the first %d sheets would be built (max_sheets)", cfg.MaxSheets))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(planCmd)

	f := planCmd.Flags()
	f.StringP("source", "s", "", "folder with the card images")
	f.StringP("locale", "l", "", "locale used in sheet names")
	f.Int("capacity", 0, "cards per sheet")
	f.Int("max-sheets", 0, "highlight the build cap")
	f.Bool("split-cycles", false, "start a new sheet whenever the cycle changes")
}
