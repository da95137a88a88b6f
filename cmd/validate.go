package cmd

import (
	"fmt"
	"os"

	"github.com/arcanaland/translationbag/internal/validator"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [folder]",
	Short: "Validate a folder of card images",
	Long: `Validate checks that every image in the folder resolves to a card identifier,
that no identifier appears twice and that every back face has a front.
Without an argument the configured source folder is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sourcePath := cfg.SourceFolder
		if len(args) == 1 {
			sourcePath = args[0]
		}

		// Check if path exists
		if _, err := os.Stat(sourcePath); os.IsNotExist(err) {
			return fmt.Errorf("source folder not found: %s", sourcePath)
		}

		v := validator.NewValidator(sourcePath, cfg.BackSuffixes)
		v.CheckImages, _ = cmd.Flags().GetBool("images")
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %v", err)
		}

		// Display validation results
		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("✅ Folder '%s' is valid: %d cards, %d double-sided.\n", sourcePath, results.Cards, results.Pairs)
		} else {
			fmt.Printf("❌ Folder '%s' has %d validation errors:\n", sourcePath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("images", false, "decode every image to catch corrupt files")
}
