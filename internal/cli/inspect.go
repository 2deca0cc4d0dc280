package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codematrix/pkg/config"
	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/matrix"
	"github.com/matzehuels/codematrix/pkg/render/sink"
)

// inspectCommand creates the inspect command, an interactive browser over
// the segments of a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect [catalog.json | layout.json]",
		Short: "Browse matrix segments and their boxes interactively",
		Long: `Browse the sixteen matrix segments and the boxes placed in each.

Without a terminal, the segment table is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := c.loadLayout(ctx, args[0], noCache)
			if err != nil {
				return err
			}
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(cmd.OutOrStdout(), segmentTable(l.Counts))
				return nil
			}
			_, err = tea.NewProgram(newInspectModel(args[0], l), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// loadLayout decodes a layout file or computes the layout of a catalog.
func (c *CLI) loadLayout(ctx context.Context, input string, noCache bool) (*layout.Layout, error) {
	data, err := readInput(input)
	if err != nil {
		return nil, err
	}
	if isLayoutDocument(data) {
		return sink.ReadJSON(data)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions(cfg, data, input)
	opts.VizType = config.VizMatrix
	cat, docHash, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return runner.Layout(ctx, cat, docHash, opts)
}

// =============================================================================
// inspectModel - segment browser
// =============================================================================

var (
	inspectSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	inspectNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	inspectDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	inspectPaneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	inspectFocusStyle    = inspectPaneStyle.BorderForeground(colorCyan)
)

type pane int

const (
	paneSegments pane = iota
	paneBoxes
)

type segmentEntry struct {
	seg   matrix.Segment
	boxes []layout.Placement
}

type inspectModel struct {
	title    string
	segments []segmentEntry
	focus    pane
	cursor   int // selected segment
	box      int // selected box within the segment
	offset   int // first visible box
	height   int // visible box rows
}

func newInspectModel(title string, l *layout.Layout) inspectModel {
	m := inspectModel{title: title, height: 15}
	for _, seg := range matrix.All() {
		m.segments = append(m.segments, segmentEntry{seg: seg, boxes: l.InSegment(seg)})
	}
	return m
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.focus == paneSegments {
				return m, tea.Quit
			}
			m.focus = paneSegments
		case "tab", "enter", "right", "l":
			if m.focus == paneSegments && len(m.segments[m.cursor].boxes) > 0 {
				m.focus = paneBoxes
			}
		case "left", "h":
			m.focus = paneSegments
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

// move shifts the cursor of the focused pane by d, keeping the selected
// box inside the visible window.
func (m *inspectModel) move(d int) {
	if m.focus == paneSegments {
		next := m.cursor + d
		if next >= 0 && next < len(m.segments) {
			m.cursor, m.box, m.offset = next, 0, 0
		}
		return
	}
	n := len(m.segments[m.cursor].boxes)
	next := m.box + d
	if next < 0 || next >= n {
		return
	}
	m.box = next
	if m.box < m.offset {
		m.offset = m.box
	}
	if m.box >= m.offset+m.height {
		m.offset = m.box - m.height + 1
	}
}

func (m inspectModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Matrix: " + m.title))
	b.WriteString("\n")
	b.WriteString(inspectDimStyle.Render("↑/↓ navigate  ⏎/→ boxes  ← segments  q quit"))
	b.WriteString("\n\n")

	left, right := inspectPaneStyle, inspectPaneStyle
	if m.focus == paneSegments {
		left = inspectFocusStyle
	} else {
		right = inspectFocusStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(m.segmentList()),
		right.Render(m.boxList()),
	))
	return b.String()
}

func (m inspectModel) segmentList() string {
	var b strings.Builder
	for i, e := range m.segments {
		line := fmt.Sprintf("%-18s %4d", e.seg.Key(), len(e.boxes))
		switch {
		case i == m.cursor:
			b.WriteString(inspectSelectedStyle.Render("▸ " + line))
		case len(e.boxes) == 0:
			b.WriteString(inspectDimStyle.Render("  " + line))
		default:
			b.WriteString(inspectNormalStyle.Render("  " + line))
		}
		if i < len(m.segments)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m inspectModel) boxList() string {
	e := m.segments[m.cursor]
	var b strings.Builder
	b.WriteString(StyleValue.Render(fmt.Sprintf("%s / %s", e.seg.Column.Label(), e.seg.Row.Label())))
	b.WriteString("\n")
	if len(e.boxes) == 0 {
		b.WriteString(inspectDimStyle.Render("(empty)"))
		return b.String()
	}

	end := min(m.offset+m.height, len(e.boxes))
	for i := m.offset; i < end; i++ {
		p := e.boxes[i]
		name := p.Name
		if p.Owner != "" {
			name = "  " + name
		}
		line := fmt.Sprintf("%-28s %-20s %6.0f,%-6.0f %4.0fx%-4.0f", truncate(name, 28), p.Kind, p.X, p.Y, p.Width, p.Height)
		if m.focus == paneBoxes && i == m.box {
			b.WriteString(inspectSelectedStyle.Render(line))
		} else {
			b.WriteString(inspectNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(inspectDimStyle.Render(fmt.Sprintf("[%d/%d]", m.box+1, len(e.boxes))))
	if m.focus == paneBoxes {
		if id := e.boxes[m.box].ID; id != "" {
			b.WriteString("\n" + inspectDimStyle.Render(id))
		}
	}
	return b.String()
}

// truncate shortens s to n runes, marking the cut with "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
