package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the effective configuration to the config file",
	Long: `Write the effective configuration (defaults, file values and
environment overrides merged) to the path given by --config.

Examples:
  goebr2 config
  goebr2 --config runs/core.yaml config --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Printf("  Config written to: %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}
