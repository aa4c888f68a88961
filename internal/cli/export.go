package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/showmarks/internal/catalog"
	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/parser"
	"github.com/raphaelgruber/showmarks/internal/service"
)

const formatMarkdown = "markdown"

var (
	exportQuery  string
	exportSort   string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export episodes to JSON, YAML or Markdown",
	Long: `Export the current view of the catalog.

JSON and YAML write a single catalog file that showmarks can load again.
Markdown writes one file per episode into <path>/episodes, with the episode
metadata in frontmatter. Without --format the format follows the file
extension, and anything else is treated as a Markdown directory.

Examples:
  showmarks export ./backup.yaml
  showmarks export ./notes --format markdown --query rust
  showmarks export ./latest.json --sort newest`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportQuery, "query", "", "export only episodes matching this query")
	exportCmd.Flags().StringVar(&exportSort, "sort", "", "relevance, newest or oldest")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "json, yaml or markdown")
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, err := localService()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	page, err := svc.Browse(ctx, service.BrowseOptions{
		Query: exportQuery,
		Sort:  sortOrDefault(exportSort),
	})
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if len(page.Episodes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No episodes to export.")
		return nil
	}

	format, err := resolveExportFormat(args[0], exportFormat)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exporting %d episodes...\n", len(page.Episodes))
	written, err := exportEpisodes(args[0], format, page.Episodes)
	if err != nil {
		return err
	}
	if verbose {
		for _, f := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "  Exported: %s\n", f)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nExported %d episodes to %s\n", len(page.Episodes), args[0])
	return nil
}

// resolveExportFormat picks the output format from the flag or the path.
func resolveExportFormat(path, flag string) (string, error) {
	switch strings.ToLower(flag) {
	case "json":
		return string(catalog.FormatJSON), nil
	case "yaml", "yml":
		return string(catalog.FormatYAML), nil
	case "markdown", "md":
		return formatMarkdown, nil
	case "":
		if f, err := catalog.FormatFor(path); err == nil {
			return string(f), nil
		}
		return formatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use json, yaml or markdown)", flag)
	}
}

// exportEpisodes writes episodes to path and returns the files written.
func exportEpisodes(path, format string, episodes []models.Episode) ([]string, error) {
	if format == formatMarkdown {
		return exportMarkdown(path, episodes)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := catalog.Encode(&buf, episodes, catalog.Format(format)); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return []string{path}, nil
}

func exportMarkdown(dir string, episodes []models.Episode) ([]string, error) {
	epDir := filepath.Join(dir, "episodes")
	if err := os.MkdirAll(epDir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	written := make([]string, 0, len(episodes))
	for _, ep := range episodes {
		content, err := parser.Render(ep)
		if err != nil {
			return written, fmt.Errorf("render episode %d: %w", ep.EpisodeNumber, err)
		}
		filename := filepath.Join(epDir, parser.Filename(ep))
		if err := os.WriteFile(filename, content, 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", filename, err)
		}
		written = append(written, filename)
	}
	return written, nil
}
