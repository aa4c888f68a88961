package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/showmarks/internal/service"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <episode-number>",
	Short: "Show one episode with all timestamp links",
	Long: `Show one episode with every timestamp and its deep link.

Examples:
  showmarks show 42
  showmarks show 42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVarP(&showJSON, "json", "j", false, "print JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid episode number %q", args[0])
	}

	svc, err := localService()
	if err != nil {
		return err
	}
	return showTo(cmd.Context(), cmd.OutOrStdout(), svc, number, showJSON)
}

func showTo(ctx context.Context, w io.Writer, svc *service.BrowseService, number int, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ep, err := svc.Episode(ctx, number)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, ep)
	}
	newRenderer(true).episode(w, *ep, "")
	return nil
}
