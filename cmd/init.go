package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanaland/translationbag/internal/config"
)

// initCmd writes the default config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default config file",
	Long: `Init writes a config file with the default settings so it can be edited.
An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			configPath = config.GetConfigFilePath()
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(configPath); err == nil && !force {
			fmt.Println("Config file already exists at:", configPath)
			fmt.Println("Use --force to overwrite it with the defaults.")
			return nil
		}

		if err := config.Write(configPath, config.Default()); err != nil {
			return fmt.Errorf("error initializing config: %v", err)
		}

		fmt.Println("Config file initialized at:", configPath)
		fmt.Println("Set source_folder and the [cloudinary] credentials, then run 'translationbag build'.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
}
