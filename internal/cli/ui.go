package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/rangedeck/pkg/canvas"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
	styleEmpty   = styleCell.Foreground(colorDim)
	styleCursor  = styleCell.Foreground(colorCyan).Bold(true)
	styleCarried = styleCell.Foreground(colorYellow).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconEmpty   = "·"
)

// out is where status output goes. Tests swap it.
var out io.Writer = os.Stdout

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(out, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(out, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(out, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(out, "  "+StyleDim.Render(msg))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(out, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Layout Output
// =============================================================================

// summary describes a state on one line: item count, columns, zoom, mode
// and undo depth.
func summary(st layout.State, items, cols int) string {
	parts := []string{
		fmt.Sprintf("%d items", items),
		fmt.Sprintf("%d columns", cols),
		fmt.Sprintf("zoom %.2f", st.Zoom),
	}
	switch {
	case st.SimpleMode:
		parts = append(parts, "simple")
	case st.Canvas:
		parts = append(parts, "canvas")
	case st.ColumnOverride > 0:
		parts = append(parts, "preset")
	default:
		parts = append(parts, "auto")
	}
	if n := len(st.History); n > 0 {
		parts = append(parts, fmt.Sprintf("%d undo", n))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// gridView renders display slots as a table with cols columns. Each cell
// shows its slot index and label. cursor and carried highlight a cell; pass
// -1 and "" for none.
func gridView(slots grid.Slots, cols int, label func(string) string, cursor int, carried string) string {
	if cols < 1 {
		cols = 1
	}
	var rows [][]string
	for start := 0; start < len(slots); start += cols {
		row := make([]string, cols)
		for j := range row {
			i := start + j
			id := slots.At(i)
			if id == grid.Empty {
				row[j] = fmt.Sprintf("%d %s", i, iconEmpty)
				continue
			}
			row[j] = fmt.Sprintf("%d %s", i, label(id))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			i := row*cols + col
			id := slots.At(i)
			switch {
			case i == cursor:
				return styleCursor
			case carried != "" && id == carried:
				return styleCarried
			case id == grid.Empty:
				return styleEmpty
			}
			return styleCell
		})
	return t.Render()
}

// cardsView renders canvas cards ordered as stored.
func cardsView(cards []canvas.Card, label func(string) string, selected string) string {
	rows := make([][]string, len(cards))
	for i, c := range cards {
		rows[i] = []string{
			label(c.ID),
			fmt.Sprintf("%.0f", c.Position.X),
			fmt.Sprintf("%.0f", c.Position.Y),
			fmt.Sprintf("%.0f×%.0f", c.Size.Width, c.Size.Height),
			fmt.Sprintf("%d", c.Z),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Card", "X", "Y", "Size", "Z").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if row < len(cards) && cards[row].ID == selected {
				return styleCursor
			}
			return styleCell
		})
	return t.Render()
}

// listView renders the simple stacked list.
func listView(order grid.Slots, label func(string) string) string {
	var b strings.Builder
	for i, id := range grid.Compact(order) {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%2d.", i+1)), label(id))
	}
	return b.String()
}
