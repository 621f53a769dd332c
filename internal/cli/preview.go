package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicgrid/pkg/display"
	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/reflow"
	"github.com/matzehuels/topicgrid/pkg/topics"
)

const (
	// defaultCellWidth is how many layout pixels one terminal column shows.
	defaultCellWidth = 8.0

	// Terminal cells are roughly twice as tall as they are wide.
	cellAspect = 2.0

	minCellWidth = 2.0
	maxCellWidth = 32.0

	// headerLines is the number of lines View spends above the grid.
	headerLines = 3
)

var (
	previewBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim)
	previewPosterStyle = previewBoxStyle.BorderForeground(colorCyan)
	previewTitleStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	previewPromptStyle = lipgloss.NewStyle().Foreground(colorCyan)
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		category  string
		filter    string
		cellWidth float64
	)

	cmd := &cobra.Command{
		Use:   "preview [topics]",
		Short: "Preview the masonry layout in the terminal",
		Long: `Preview the masonry layout in the terminal.

The container width follows the terminal: each column of the terminal
stands for --cell-width pixels. Resizing the window reflows the grid.

Keys:
  ↑/↓ k/j   scroll
  + / -     zoom (pixels per terminal column)
  m         toggle masonry and list mode
  /         fuzzy filter titles (enter to apply, esc to clear)
  q         quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ts, err := loadTopics(cmd.Context(), args[0], category)
			if err != nil {
				return fmt.Errorf("load topics %s: %w", args[0], err)
			}
			ts = topics.InCategory(ts, category)

			m, err := newPreviewModel(ts, cfg.Masonry, cfg.Display.Resolve(category), cellWidth)
			if err != nil {
				return err
			}
			m.setFilter(filter)
			return runPreview(cmd.Context(), m)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only show topics in this category")
	cmd.Flags().StringVar(&filter, "filter", "", "initial fuzzy title filter")
	cmd.Flags().Float64Var(&cellWidth, "cell-width", defaultCellWidth, "layout pixels per terminal column")

	return cmd
}

func runPreview(ctx context.Context, m *previewModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// previewModel
// =============================================================================

// reflowedMsg reports that queued scheduler passes have run.
type reflowedMsg struct{ passes int }

// previewModel is the bubbletea model for the live preview. Window and
// filter changes go to the scheduler, whose passes run on a queue drained
// by a tea.Cmd, so a burst of resize events costs one layout pass.
type previewModel struct {
	all    []topics.Topic
	shown  []topics.Topic
	byID   map[string]topics.Topic
	config masonry.Config
	mode   display.Mode

	sched *reflow.Scheduler
	queue *reflow.Queue

	cellWidth float64
	cols      int
	rows      int
	offset    int

	filter  string
	editing bool
	draft   string
}

func newPreviewModel(ts []topics.Topic, cfg masonry.Config, mode display.Mode, cellWidth float64) (*previewModel, error) {
	engine, err := masonry.NewEngine(cfg, nil)
	if err != nil {
		return nil, err
	}
	if cellWidth <= 0 {
		cellWidth = defaultCellWidth
	}

	q := reflow.NewQueue()
	m := &previewModel{
		all:       ts,
		config:    cfg,
		mode:      mode,
		queue:     q,
		sched:     reflow.New(engine, q, reflow.WithEnabled(mode == display.Masonry)),
		cellWidth: cellWidth,
	}
	m.setFilter("")
	return m, nil
}

// setFilter narrows the shown topics and hands them to the scheduler.
func (m *previewModel) setFilter(query string) {
	m.filter = query
	m.shown = topics.Filter(m.all, query)
	m.byID = make(map[string]topics.Topic, len(m.shown))
	for _, t := range m.shown {
		m.byID[t.ID] = t
	}
	m.offset = 0
	m.sched.SetItems(topics.Items(m.shown))
}

func (m *previewModel) containerWidth() float64 {
	return float64(m.cols) * m.cellWidth
}

// drain returns a command that runs pending passes, or nil if none are
// queued.
func (m *previewModel) drain() tea.Cmd {
	if m.queue.Len() == 0 {
		return nil
	}
	q := m.queue
	return func() tea.Msg {
		return reflowedMsg{passes: q.Drain()}
	}
}

func (m *previewModel) Init() tea.Cmd {
	return m.drain()
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.sched.SetWidth(m.containerWidth())
		return m, m.drain()

	case reflowedMsg:
		return m, m.drain()

	case tea.KeyMsg:
		if m.editing {
			return m, m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			m.offset++
		case "pgup":
			m.offset = max(0, m.offset-m.viewport())
		case "pgdown", " ":
			m.offset += m.viewport()
		case "+", "=":
			m.zoom(m.cellWidth * 2)
		case "-":
			m.zoom(m.cellWidth / 2)
		case "m":
			m.toggleMode()
		case "/":
			m.editing = true
			m.draft = m.filter
		}
		return m, m.drain()
	}
	return m, nil
}

func (m *previewModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.setFilter(m.draft)
	case tea.KeyEsc:
		m.editing = false
		m.setFilter("")
	case tea.KeyBackspace:
		if r := []rune(m.draft); len(r) > 0 {
			m.draft = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.draft += string(msg.Runes)
	case tea.KeyCtrlC:
		return tea.Quit
	}
	return m.drain()
}

func (m *previewModel) zoom(cellWidth float64) {
	m.cellWidth = math.Min(math.Max(cellWidth, minCellWidth), maxCellWidth)
	m.sched.SetWidth(m.containerWidth())
}

func (m *previewModel) toggleMode() {
	if m.mode == display.Masonry {
		m.mode = display.List
	} else {
		m.mode = display.Masonry
	}
	m.sched.SetEnabled(m.mode == display.Masonry)
}

func (m *previewModel) viewport() int {
	return max(1, m.rows-headerLines)
}

// =============================================================================
// View
// =============================================================================

func (m *previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName + " preview"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.status()))
	b.WriteString("\n")
	if m.editing {
		b.WriteString(previewPromptStyle.Render("/") + m.draft + "▏")
	} else {
		b.WriteString(StyleDim.Render("↑/↓ scroll  +/- zoom  m mode  / filter  q quit"))
	}
	b.WriteString("\n")

	var body string
	l, ok := m.sched.Layout()
	if m.mode == display.Masonry && ok {
		body = m.renderGrid(l)
	} else {
		body = m.renderList()
	}

	lines := strings.Split(body, "\n")
	start := min(m.offset, max(0, len(lines)-1))
	end := min(len(lines), start+m.viewport())
	b.WriteString(strings.Join(lines[start:end], "\n"))

	return b.String()
}

func (m *previewModel) status() string {
	parts := []string{
		fmt.Sprintf("%.0fpx", m.containerWidth()),
		fmt.Sprintf("%d topics", len(m.shown)),
		m.mode.String(),
	}
	if l, ok := m.sched.Layout(); ok && m.mode == display.Masonry {
		parts = append(parts, fmt.Sprintf("%d columns", l.Columns))
		if l.Degenerate {
			parts = append(parts, "narrow")
		}
	}
	parts = append(parts, fmt.Sprintf("%d passes", m.sched.Passes()))
	if m.filter != "" {
		parts = append(parts, fmt.Sprintf("filter %q", m.filter))
	}
	return strings.Join(parts, " · ")
}

// renderGrid draws every placement as a box in its column, starting at the
// row its heightAbove maps to.
func (m *previewModel) renderGrid(l masonry.Layout) string {
	rowHeight := m.cellWidth * cellAspect
	colCells := max(4, int(l.ColumnWidth/m.cellWidth))
	gapCells := max(1, int(math.Round(l.GridSpacing/m.cellWidth)))

	columns := make([][]string, l.Columns)
	blank := strings.Repeat(" ", colCells)
	for _, p := range l.Placements {
		col := columns[p.Column]
		top := int(math.Round(p.HeightAbove / rowHeight))
		for len(col) < top {
			col = append(col, blank)
		}
		rows := max(3, int(math.Round(p.Height/rowHeight)))
		col = append(col, strings.Split(m.box(p, colCells, rows), "\n")...)
		columns[p.Column] = col
	}

	rendered := make([]string, 0, 2*len(columns))
	gap := strings.Repeat(" ", gapCells)
	for i, col := range columns {
		if i > 0 {
			rendered = append(rendered, gap)
		}
		rendered = append(rendered, lipgloss.NewStyle().Width(colCells).Render(strings.Join(col, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *previewModel) box(p masonry.Placement, width, rows int) string {
	t := m.byID[p.ItemID]
	inner := max(1, width-2)

	lines := []string{previewTitleStyle.Render(truncate(t.Title, inner))}
	if th := t.Thumbnail(); th != nil && th.Width > 0 && th.Height > 0 {
		lines = append(lines, StyleDim.Render(truncate(fmt.Sprintf("%.0f×%.0f", th.Width, th.Height), inner)))
	}

	style := previewBoxStyle
	if masonry.Aspect(t.Item(), m.config) < 1 {
		style = previewPosterStyle
	}
	return style.
		Width(inner).
		Height(rows - 2).
		MaxHeight(rows).
		Render(strings.Join(lines, "\n"))
}

func (m *previewModel) renderList() string {
	lines := make([]string, len(m.shown))
	for i, t := range m.shown {
		lines[i] = fmt.Sprintf("%s %s", StyleDim.Render(fmt.Sprintf("%3d", i+1)), truncate(t.Title, max(10, m.cols-4)))
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
