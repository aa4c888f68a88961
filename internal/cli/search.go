package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/showmarks/internal/api"
	"github.com/raphaelgruber/showmarks/internal/client"
	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/service"
)

var (
	searchSort   string
	searchLimit  int
	searchJSON   bool
	searchRemote bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search episodes by title and timestamp topic",
	Long: `Search episode titles and timestamp topics.

An episode matches when any query word appears in its title or in one of its
topics (case-insensitive). Topic matches narrow the episode to the matching
timestamps. Results are ranked by relevance unless --sort says otherwise.

Examples:
  showmarks search rust
  showmarks search "error handling" --sort newest
  showmarks search kubernetes -n 5 --json
  showmarks search grpc --remote`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchSort, "sort", "s", "", "relevance, newest or oldest (default SHOWMARKS_SORT)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "max episodes to print (0 = all)")
	searchCmd.Flags().BoolVarP(&searchJSON, "json", "j", false, "print JSON")
	searchCmd.Flags().BoolVar(&searchRemote, "remote", false, "query the showmarks server instead of the local catalog")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := service.BrowseOptions{
		Query: joinArgs(args),
		Sort:  sortOrDefault(searchSort),
		Limit: searchLimit,
	}
	out := cmd.OutOrStdout()

	if searchRemote {
		return searchRemoteTo(ctx, out, client.New(cfg.ServerURL), opts, searchJSON)
	}

	svc, err := localService()
	if err != nil {
		return err
	}
	return searchLocalTo(ctx, out, svc, opts, searchJSON)
}

func searchLocalTo(ctx context.Context, w io.Writer, svc *service.BrowseService, opts service.BrowseOptions, asJSON bool) error {
	page, err := svc.Browse(ctx, opts)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if asJSON {
		return writeJSON(w, page)
	}
	newRenderer(verbose).page(w, page)
	return nil
}

func searchRemoteTo(ctx context.Context, w io.Writer, c *client.Client, opts service.BrowseOptions, asJSON bool) error {
	view, err := c.Browse(ctx, client.BrowseOptions{
		Query: opts.Query,
		Sort:  opts.Sort,
		Limit: opts.Limit,
	})
	if err != nil {
		return fmt.Errorf("remote search: %w", err)
	}
	if asJSON {
		return writeJSON(w, view)
	}
	newRenderer(verbose).page(w, pageFromView(view))
	return nil
}

// pageFromView converts an API page back into a service page for rendering.
func pageFromView(v *api.PageView) *service.Page {
	p := &service.Page{
		Query:           v.Query,
		Sort:            v.Sort,
		Episodes:        make([]models.Episode, 0, len(v.Episodes)),
		Results:         v.Results,
		Matches:         v.Matches,
		TotalEpisodes:   v.TotalEpisodes,
		TotalTimestamps: v.TotalTimestamps,
		Truncated:       v.Truncated,
		Summary:         v.Summary,
		CatalogVersion:  v.CatalogVersion,
	}
	for _, ev := range v.Episodes {
		ep := models.Episode{
			EpisodeNumber: ev.EpisodeNumber,
			Title:         ev.Title,
			Date:          ev.Date,
			YouTubeID:     ev.YouTubeID,
		}
		for _, ts := range ev.Timestamps {
			ep.Timestamps = append(ep.Timestamps, models.Timestamp{Timestamp: ts.Timestamp, Topic: ts.Topic})
		}
		p.Episodes = append(p.Episodes, ep)
	}
	return p
}

// sortOrDefault parses a --sort flag, falling back to the configured default.
func sortOrDefault(flag string) models.SortMode {
	if flag == "" {
		if cfg.DefaultSort != "" {
			return cfg.DefaultSort
		}
		return models.SortRelevance
	}
	return models.ParseSortMode(flag)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
