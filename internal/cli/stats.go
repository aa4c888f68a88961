package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/showmarks/internal/client"
	"github.com/raphaelgruber/showmarks/internal/service"
)

var (
	statsJSON   bool
	statsRemote bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Long: `Show episode and timestamp counts.

With --remote the counts and runtime metrics of a running server are shown.

Examples:
  showmarks stats
  showmarks stats --remote --json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVarP(&statsJSON, "json", "j", false, "print JSON")
	statsCmd.Flags().BoolVar(&statsRemote, "remote", false, "read statistics from the showmarks server")
}

func runStats(cmd *cobra.Command, args []string) error {
	var stats service.Stats
	if statsRemote {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		remote, err := client.New(cfg.ServerURL).Stats(ctx)
		if err != nil {
			return fmt.Errorf("get server stats: %w", err)
		}
		stats = *remote
	} else {
		svc, err := localService()
		if err != nil {
			return err
		}
		stats = svc.Stats()
	}

	if statsJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}
	newRenderer(false).stats(cmd.OutOrStdout(), stats)
	return nil
}
