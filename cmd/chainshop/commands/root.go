package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chainShop/internal/config"
	"chainShop/internal/logging"
	"chainShop/internal/printer"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chainshop",
	Short: "chainshop - minimum makespan scheduling with contiguous blocks",
	Long: `chainshop splits an ordered sequence of jobs into at most m contiguous
blocks, one per identical machine, minimizing the largest block sum.

The exact pseudo-polynomial search is cross-checked against an independent
integer-program oracle; results can be stored as JSON files, in SQLite or
published to Redis and summarized as console or LaTeX tables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return printer.Error("Cannot load configuration", err.Error(), []string{"Check the file passed with --config"})
		}
		logger, err = logging.New(verbose)
		if err != nil {
			return printer.Error("Cannot initialize logging", err.Error(), nil)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command; ctx cancels long-running solves and benchmarks.
func Execute(ctx context.Context) error {
	// Errors are printed by the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, commit, date)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (defaults are used when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(solveCmd, validateCmd, benchCmd, tableCmd)
}
