// Package cli provides the command-line interface for showmarks.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/showmarks/internal/catalog"
	"github.com/raphaelgruber/showmarks/internal/config"
	"github.com/raphaelgruber/showmarks/internal/metrics"
	"github.com/raphaelgruber/showmarks/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose  bool
	dataPath string

	// Global config and logger
	cfg           config.Config
	logger        *slog.Logger
	closeLogger   func() error
	browseService *service.BrowseService
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "showmarks",
	Short: "Search podcast episodes by title and timestamp topic",
	Long: `Showmarks searches a catalog of podcast episodes and their timestamped
topics, ranks matches and links straight to the moment in the video.

The catalog is a JSON or YAML file, or a directory written by
"showmarks export --format markdown" (SHOWMARKS_DATA, default data.json).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if dataPath != "" {
			cfg.DataFile = dataPath
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		// Log lines go to the log file only so they never mix with command output.
		logger, closeLogger = config.QuietLogger(cfg)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLogger != nil {
			if err := closeLogger(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// localService loads the catalog on first use.
func localService() (*service.BrowseService, error) {
	if browseService != nil {
		return browseService, nil
	}

	collector := metrics.NewCollector()
	store, err := catalog.NewStore(cfg.DataFile, logger, catalog.WithLoadHook(collector.Hook(metrics.OpCatalogLoad)))
	if err != nil {
		return nil, err
	}

	browseService = service.NewBrowseService(store, collector, logger)
	return browseService, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "catalog file (overrides SHOWMARKS_DATA)")

	// Add subcommands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "showmarks %s\n", Version)
	},
}
