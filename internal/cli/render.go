package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/raphaelgruber/showmarks/internal/metrics"
	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/search"
	"github.com/raphaelgruber/showmarks/internal/service"
)

// Theme holds the color scheme for terminal output.
type Theme struct {
	Title     lipgloss.Color
	Match     lipgloss.Color
	MatchBg   lipgloss.Color
	Timestamp lipgloss.Color
	Link      lipgloss.Color
	Hint      lipgloss.Color
	Error     lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Title:     lipgloss.Color("#5FAFD7"), // light blue
	Match:     lipgloss.Color("#000000"),
	MatchBg:   lipgloss.Color("#FFD75F"), // yellow
	Timestamp: lipgloss.Color("#00D787"), // green
	Link:      lipgloss.Color("#6C6C6C"), // dim gray
	Hint:      lipgloss.Color("#6C6C6C"),
	Error:     lipgloss.Color("#FF005F"), // red
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) matchStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Match).Background(t.MatchBg)
}

func (t Theme) timestampStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Timestamp)
}

func (t Theme) linkStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Link).Underline(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

// renderer writes episodes as text, optionally styled.
type renderer struct {
	theme Theme
	color bool
	// links adds a deep link line under every timestamp.
	links bool
}

// newRenderer styles output only when stdout is a terminal.
func newRenderer(links bool) renderer {
	return renderer{
		theme: defaultTheme,
		color: term.IsTerminal(int(os.Stdout.Fd())),
		links: links,
	}
}

func (r renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// highlight marks query words in text. Plain output wraps matches in [brackets].
func (r renderer) highlight(text, query string) string {
	if r.color {
		style := r.theme.matchStyle()
		return search.Mark(text, query, func(m string) string { return style.Render(m) })
	}
	return search.Mark(text, query, func(m string) string { return "[" + m + "]" })
}

// episode writes one episode card.
func (r renderer) episode(w io.Writer, ep models.Episode, query string) {
	title := r.highlight(ep.Title, query)
	if r.color && query == "" {
		title = r.style(r.theme.titleStyle(), ep.Title)
	}

	header := fmt.Sprintf("#%d", ep.EpisodeNumber)
	if date := ep.Date.String(); date != "" {
		header += " · " + date
	}
	fmt.Fprintf(w, "%s · %s (%s)\n", header, title, pluralize(ep.TimestampCount(), "timestamp"))
	fmt.Fprintf(w, "  %s\n", r.style(r.theme.linkStyle(), ep.VideoURL()))

	for _, ts := range ep.Timestamps {
		fmt.Fprintf(w, "  %s – %s\n",
			r.style(r.theme.timestampStyle(), ts.Timestamp),
			r.highlight(ts.Topic, query))
		if r.links {
			fmt.Fprintf(w, "    %s\n", r.style(r.theme.linkStyle(), ep.TimestampURL(ts)))
		}
	}
}

// page writes the summary line followed by every episode.
func (r renderer) page(w io.Writer, p *service.Page) {
	fmt.Fprintln(w, r.style(r.theme.hintStyle(), p.Summary))
	if len(p.Episodes) == 0 {
		fmt.Fprintln(w, "\nNo results found.")
		return
	}
	for _, ep := range p.Episodes {
		fmt.Fprintln(w)
		r.episode(w, ep, p.Query)
	}
	if p.Truncated {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.style(r.theme.hintStyle(),
			fmt.Sprintf("… %d more, raise --limit to see them", p.Results-len(p.Episodes))))
	}
}

// stats writes catalog counts and runtime metrics.
func (r renderer) stats(w io.Writer, s service.Stats) {
	fmt.Fprintf(w, "Catalog Statistics\n")
	fmt.Fprintf(w, "═══════════════════════════════════════\n")
	fmt.Fprintf(w, "Source:     %s\n", s.Source)
	fmt.Fprintf(w, "Episodes:   %d\n", s.Episodes)
	fmt.Fprintf(w, "Timestamps: %d\n", s.Timestamps)
	if !s.LoadedAt.IsZero() {
		fmt.Fprintf(w, "Loaded at:  %s (version %d)\n", s.LoadedAt.Format("2006-01-02 15:04:05"), s.CatalogVersion)
	}

	rt := s.Runtime
	if rt.Search == nil && rt.Order == nil && rt.Render == nil && rt.CatalogLoad == nil {
		return
	}
	fmt.Fprintf(w, "\nRuntime (uptime %.1f seconds)\n", rt.UptimeSeconds)
	printOpStats(w, "Search", rt.Search)
	printOpStats(w, "Order", rt.Order)
	printOpStats(w, "Render", rt.Render)
	printOpStats(w, "Catalog load", rt.CatalogLoad)
}

// printOpStats displays timing statistics for an operation.
func printOpStats(w io.Writer, name string, op *metrics.OperationSnapshot) {
	if op == nil {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", name)
	fmt.Fprintf(w, "  Calls: %d, Errors: %d, Total: %dms\n", op.Count, op.Errors, op.TotalTimeMs)
	fmt.Fprintf(w, "  Time: avg %.1fms, min %dms, max %dms\n", op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
	if op.TotalResults != nil && op.AvgResults != nil && op.MaxResults != nil {
		fmt.Fprintf(w, "  Results: %d total, avg %.1f, max %d\n", *op.TotalResults, *op.AvgResults, *op.MaxResults)
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// joinArgs turns positional arguments into one query string.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
