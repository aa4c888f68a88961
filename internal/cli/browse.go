package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/showmarks/internal/metrics"
	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/service"
)

// searchDebounce delays a search until typing pauses.
const searchDebounce = 150 * time.Millisecond

var browseSort string

var browseCmd = &cobra.Command{
	Use:   "browse [query]...",
	Short: "Interactive search",
	Long: `Search episodes interactively. Results update as you type.

Keys:
  tab          cycle sort (relevance, newest, oldest)
  up/down      scroll
  pgup/pgdown  scroll a page
  esc, ctrl+c  quit`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVarP(&browseSort, "sort", "s", "", "initial sort mode")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	svc, err := localService()
	if err != nil {
		return err
	}

	model := newBrowseModel(svc, joinArgs(args), sortOrDefault(browseSort))
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("browse UI error: %w", err)
	}
	return nil
}

// debounceMsg fires after the debounce delay for the query edit seq.
type debounceMsg struct {
	seq int
}

// pageMsg carries the result of the search started for seq.
type pageMsg struct {
	seq  int
	page *service.Page
	err  error
}

// browseModel is the bubbletea model for interactive search.
type browseModel struct {
	svc    *service.BrowseService
	input  textinput.Model
	sort   models.SortMode
	render renderer

	// seq increases on every query or sort change. Only the newest search is shown.
	seq  int
	page *service.Page
	err  error

	width  int
	height int
	offset int
}

func newBrowseModel(svc *service.BrowseService, query string, sort models.SortMode) browseModel {
	ti := textinput.New()
	ti.Prompt = "search> "
	ti.Placeholder = "type to filter episodes"
	ti.CharLimit = 200
	ti.SetValue(query)
	ti.Focus()

	r := newRenderer(false)
	r.color = true

	return browseModel{
		svc:    svc,
		input:  ti,
		sort:   sort,
		render: r,
		height: 24,
	}
}

// Init runs the first search immediately.
func (m browseModel) Init() tea.Cmd {
	return m.search()
}

// Update handles messages and returns the updated model.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.sort = m.sort.Next()
			m.seq++
			return m, m.search()
		case "up":
			m.scroll(-1)
			return m, nil
		case "down":
			m.scroll(1)
			return m, nil
		case "pgup":
			m.scroll(-m.bodyHeight())
			return m, nil
		case "pgdown":
			m.scroll(m.bodyHeight())
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		m.seq++
		return m, tea.Batch(cmd, debounce(m.seq))

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.search()

	case pageMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.page, m.err = msg.page, msg.err
		m.offset = 0
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the search screen.
func (m browseModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m browseModel) renderContent() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	status := fmt.Sprintf("sort: %s", m.sort)
	if m.page != nil {
		status = m.page.Summary + " • " + status
	}
	b.WriteString(m.render.style(m.render.theme.hintStyle(), status))
	b.WriteString("\n\n")

	lines := m.resultLines()
	end := min(m.offset+m.bodyHeight(), len(lines))
	for _, line := range lines[min(m.offset, end):end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.render.style(m.render.theme.hintStyle(), "tab sort • ↑/↓ scroll • esc quit"))
	return b.String()
}

// resultLines renders the current page as display lines.
func (m browseModel) resultLines() []string {
	switch {
	case m.err != nil:
		return []string{m.render.style(m.render.theme.errorStyle(), "✗ "+m.err.Error())}
	case m.page == nil:
		return []string{"Loading..."}
	case len(m.page.Episodes) == 0:
		return []string{"No results found."}
	}

	start := time.Now()
	var b strings.Builder
	for i, ep := range m.page.Episodes {
		if i > 0 {
			b.WriteString("\n")
		}
		m.render.episode(&b, ep, m.page.Query)
	}
	m.svc.Metrics().RecordTiming(metrics.OpRender, time.Since(start))
	return strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
}

// bodyHeight is the number of result lines that fit between the header and the hint.
func (m browseModel) bodyHeight() int {
	return max(m.height-5, 1)
}

func (m *browseModel) scroll(delta int) {
	m.offset = max(m.offset+delta, 0)
	if n := len(m.resultLines()); m.offset > n-1 {
		m.offset = max(n-1, 0)
	}
}

// search starts a search for the current query and sort.
// Runs in a separate goroutine (command) to avoid blocking Update().
func (m browseModel) search() tea.Cmd {
	seq, query, sort := m.seq, m.input.Value(), m.sort
	return func() tea.Msg {
		page, err := m.svc.Browse(context.Background(), service.BrowseOptions{Query: query, Sort: sort})
		return pageMsg{seq: seq, page: page, err: err}
	}
}

// debounce returns a command that reports seq after the debounce delay.
func debounce(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}
