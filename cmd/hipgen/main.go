package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helfem/hipgen/cmd/hipgen/commands"
	"github.com/helfem/hipgen/config"
	"github.com/helfem/hipgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "hipgen",
	Short: "hipgen - Hermite basis derivative code generator",
	Long: `hipgen - closed-form derivative generator for Hermite interpolating bases.

hipgen expands the derivatives of the Hermite interpolating basis
functions symbolically and renders them as source code, so the numeric
library ships explicit formulas instead of differentiating at runtime.

Available commands:
  generate - Render all configured targets
  check    - Verify committed outputs match a fresh render
  table    - Inspect the derivative term table
  watch    - Regenerate outputs when the config changes
  config   - Manage hipgen configuration
  version  - Show version information

Examples:
  hipgen generate              # Render C++, Go and Markdown outputs
  hipgen check                 # Fail if committed outputs are stale
  hipgen table --depth 4       # Print the first table levels
  hipgen config show           # Show active configuration`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		// Log settings come from config when it loads; a broken config
		// must not keep the logger from coming up
		jsonLogs := false
		if cfg, err := config.Load(); err == nil {
			jsonLogs = cfg.Log.JSON
		}

		if err := logger.InitializeWithLevel(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON where a command supports it")

	// Add commands
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.TableCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
