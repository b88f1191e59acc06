// Package cli renders percolation grids and run outcomes on a text terminal.
package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/janpfeifer/hexperc/internal/engine"
	"github.com/janpfeifer/hexperc/internal/hexgrid"
)

// Glyphs used for the three cell states. Each hexagon takes one character,
// and odd rows are shifted half a column to suggest the hexagonal packing.
const (
	whiteGlyph  = "o"
	blackGlyph  = "x"
	unsetGlyph  = "."
	originGlyph = "@"
)

var (
	whiteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	blackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	unsetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	originStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Bold(true)
	bannerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("13")).
			Foreground(lipgloss.Color("0")).
			Padding(1, 2)
)

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len(ansiFilter.ReplaceAllString(s, ""))
}

func printCentered(w io.Writer, block string) {
	lines := strings.Split(block, "\n")
	terminalWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		terminalWidth = 80
	}
	blockWidth := 0
	for _, line := range lines {
		if width := displayWidth(line); width > blockWidth {
			blockWidth = width
		}
	}
	indent := (terminalWidth - blockWidth) / 2
	if indent < 0 {
		indent = 0
	}
	for _, line := range lines {
		if len(line) == 0 {
			_, _ = fmt.Fprintln(w)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// UI renders a session on a terminal. It never mutates the session.
type UI struct {
	w                  io.Writer
	color, clearScreen bool

	// maxRadius limits the rendered window around the lattice origin, so a
	// long run doesn't outgrow the terminal.
	maxRadius int32
}

// New creates a terminal renderer writing to stdout. With clearScreen set,
// every Render call redraws from the top-left, for watch mode.
func New(color, clearScreen bool) *UI {
	return &UI{
		w:           os.Stdout,
		color:       color,
		clearScreen: clearScreen,
		maxRadius:   terminalRadius(),
	}
}

// terminalRadius returns the largest lattice radius that fits the terminal,
// leaving a few lines for the header and outcome.
func terminalRadius() int32 {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 15
	}
	radius := min((height-6)/2, width/4-1)
	if radius < 3 {
		radius = 3
	}
	return int32(radius)
}

func (ui *UI) styled(style lipgloss.Style, s string) string {
	if !ui.color {
		return s
	}
	return style.Render(s)
}

// Render draws the session: a header with the live best distance, the grid
// window, and the outcome once the run finished.
func (ui *UI) Render(s *engine.Session) {
	if ui.clearScreen {
		_, _ = fmt.Fprint(ui.w, "\033c")
	}
	_, _ = fmt.Fprintf(ui.w, "\n%s  best distance: %d\n\n",
		ui.styled(whiteStyle, s.State().String()), s.BestDistance())
	ui.PrintGrid(s)
	if s.State() == engine.StateFinished {
		_, _ = fmt.Fprintln(ui.w)
		ui.PrintOutcome(s.Outcome())
	}
}

// PrintGrid draws the cells of the session's snapshot that fall inside the
// window around the lattice origin. Axial cell (q,r) lands at screen column
// 2q+r and row r, so the six neighbors of any cell are adjacent on screen.
func (ui *UI) PrintGrid(s *engine.Session) {
	cells := make(map[hexgrid.Pos]hexgrid.Color)
	for pos, color := range s.Snapshot() {
		cells[pos] = color
	}
	origins := make(map[hexgrid.Pos]bool)
	for _, pos := range s.Origins() {
		origins[pos] = true
	}

	radius := ui.maxRadius
	var buf bytes.Buffer
	for r := -radius; r <= radius; r++ {
		var line strings.Builder
		// Cell (q,r) sits at column 2q+r: each row starts one more half-cell
		// to the right than the one above.
		line.WriteString(strings.Repeat(" ", int(r+radius)))
		for q := -radius; q <= radius; q++ {
			pos := hexgrid.Pos{q, r}
			if pos.Distance(hexgrid.Origin) > radius {
				line.WriteString("  ")
				continue
			}
			glyph := unsetGlyph
			style := unsetStyle
			switch cells[pos] {
			case hexgrid.White:
				glyph, style = whiteGlyph, whiteStyle
			case hexgrid.Black:
				glyph, style = blackGlyph, blackStyle
			}
			if origins[pos] {
				glyph = originGlyph
				style = originStyle.Foreground(style.GetForeground())
			}
			line.WriteString(ui.styled(style, glyph))
			line.WriteByte(' ')
		}
		buf.WriteString(strings.TrimRight(line.String(), " "))
		buf.WriteByte('\n')
	}
	printCentered(ui.w, buf.String())
}

// PrintOutcome prints the terminal record of a finished run.
func (ui *UI) PrintOutcome(outcome engine.Outcome) {
	var headline string
	switch outcome.Result {
	case engine.ResultEscaped:
		headline = fmt.Sprintf("*** ESCAPED at distance %d! ***", outcome.Distance)
	case engine.ResultEncircled:
		headline = fmt.Sprintf("*** ENCIRCLED, best distance %d ***", outcome.Distance)
	case engine.ResultWhiteWins:
		headline = fmt.Sprintf("*** WHITE WINS! (contested up to distance %d) ***", outcome.Distance)
	case engine.ResultBlackWins:
		headline = fmt.Sprintf("*** BLACK WINS! (contested up to distance %d) ***", outcome.Distance)
	case engine.ResultUnresolved:
		headline = fmt.Sprintf("*** UNRESOLVED at the %d horizon ***", outcome.Distance)
	case engine.ResultInterrupted:
		headline = fmt.Sprintf("*** INTERRUPTED, best distance %d ***", outcome.Distance)
	default:
		headline = fmt.Sprintf("*** %s ***", outcome.Result)
	}
	block := fmt.Sprintf("%s\n%s mode, %d cells traversed", headline, outcome.Mode, outcome.Steps)
	if ui.color {
		block = bannerStyle.Render(block)
	}
	printCentered(ui.w, block)
	_, _ = fmt.Fprintln(ui.w)
}

// PrintPockets reports the sealed pocket sizes left by an escape run.
func (ui *UI) PrintPockets(sizes []int) {
	if len(sizes) == 0 {
		_, _ = fmt.Fprintln(ui.w, "No sealed pockets found.")
		return
	}
	parts := make([]string, len(sizes))
	for i, size := range sizes {
		parts[i] = fmt.Sprintf("%d", size)
	}
	_, _ = fmt.Fprintf(ui.w, "%d sealed pocket(s), sizes: [%s]\n",
		len(sizes), strings.Join(parts, ", "))
}
