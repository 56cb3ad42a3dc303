package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rangedeck/pkg/compare"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/layout"
	"github.com/matzehuels/rangedeck/pkg/reorder"
)

// Keyboard steps.
const (
	zoomStep  = 0.1
	cardStep  = 20.0
	cardLarge = 100.0
)

var (
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	statusStyle = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// tuiCommand creates the "tui" command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui <key>",
		Short: "Rearrange a comparison interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			p := tea.NewProgram(newDeckModel(cmd.Context(), s.ctrl, s.label), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(deckModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}
}

// =============================================================================
// deckModel - Interactive comparison
// =============================================================================

// deckModel drives a Controller from the keyboard. In grid mode a cursor
// walks the display slots; space picks the item up and a side key drops it.
// On the canvas tab selects a card and the arrows move or resize it.
type deckModel struct {
	ctx   context.Context
	ctrl  *compare.Controller
	label func(string) string

	cursor   int
	carrying string
	card     int
	preset   int

	status string
	err    error
}

func newDeckModel(ctx context.Context, ctrl *compare.Controller, label func(string) string) deckModel {
	return deckModel{ctx: ctx, ctrl: ctrl, label: label, preset: -1}
}

func (m deckModel) Init() tea.Cmd { return nil }

func (m deckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""

	switch key.String() {
	case "q", "ctrl+c":
		m.ctrl.DragCancel()
		return m, tea.Quit
	case "esc":
		if m.carrying == "" {
			return m, tea.Quit
		}
		m.cancelCarry()
		return m, nil
	case "u":
		restored, err := m.ctrl.Undo(m.ctx)
		if !restored && err == nil {
			m.status = "nothing to undo"
		}
		return m.done(err)
	case "a":
		return m.done(m.ctrl.Adjust(m.ctx))
	case "R":
		changed, err := m.ctrl.Reset(m.ctx)
		if !changed && err == nil {
			m.status = "already in original order"
		}
		return m.done(err)
	case "p":
		return m.done(m.nextPreset())
	case "+", "=":
		return m.done(m.ctrl.SetZoom(m.ctx, m.ctrl.State().Zoom+zoomStep))
	case "-":
		return m.done(m.ctrl.SetZoom(m.ctx, m.ctrl.State().Zoom-zoomStep))
	case "s":
		simple := !m.ctrl.State().SimpleMode
		if simple && m.carrying != "" {
			m.cancelCarry()
		}
		return m.done(m.ctrl.SetSimpleMode(m.ctx, simple))
	}

	// the stacked list has no cursor or cards
	if m.ctrl.State().SimpleMode {
		return m, nil
	}
	if m.ctrl.Canvas() {
		return m.updateCanvas(key)
	}
	return m.updateGrid(key)
}

func (m deckModel) updateGrid(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	slots := m.ctrl.Slots()
	cols := m.ctrl.Columns()

	switch key.String() {
	case "left", "h":
		m.cursor = max(m.cursor-1, 0)
	case "right", "l":
		m.cursor = min(m.cursor+1, len(slots)-1)
	case "up", "k":
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case "down", "j":
		if m.cursor+cols < len(slots) {
			m.cursor += cols
		}
	case " ", "space":
		if m.carrying != "" {
			m.cancelCarry()
			break
		}
		if id := slots.At(m.cursor); id != grid.Empty {
			m.ctrl.DragStart(id)
			m.carrying = id
		}
	case "enter":
		return m.drop(grid.SideLeft)
	case "[":
		return m.drop(grid.SideLeft)
	case "]":
		return m.drop(grid.SideRight)
	case "t":
		return m.drop(grid.SideTop)
	case "b":
		return m.drop(grid.SideBottom)
	}
	return m, nil
}

func (m deckModel) updateCanvas(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.ctrl.State().Cards
	if len(cards) == 0 {
		return m, nil
	}
	m.card = min(m.card, len(cards)-1)
	id := cards[m.card].ID

	switch key.String() {
	case "tab":
		m.card = (m.card + 1) % len(cards)
	case "shift+tab":
		m.card = (m.card + len(cards) - 1) % len(cards)
	case "left", "h":
		return m.done(m.ctrl.MoveCard(m.ctx, id, -cardStep, 0))
	case "right", "l":
		return m.done(m.ctrl.MoveCard(m.ctx, id, cardStep, 0))
	case "up", "k":
		return m.done(m.ctrl.MoveCard(m.ctx, id, 0, -cardStep))
	case "down", "j":
		return m.done(m.ctrl.MoveCard(m.ctx, id, 0, cardStep))
	case "shift+left":
		return m.done(m.ctrl.ResizeCard(m.ctx, id, -cardLarge, 0))
	case "shift+right":
		return m.done(m.ctrl.ResizeCard(m.ctx, id, cardLarge, 0))
	case "shift+up":
		return m.done(m.ctrl.ResizeCard(m.ctx, id, 0, -cardLarge))
	case "shift+down":
		return m.done(m.ctrl.ResizeCard(m.ctx, id, 0, cardLarge))
	case "f":
		_, err := m.ctrl.BringToFront(m.ctx, id)
		return m.done(err)
	}
	return m, nil
}

// drop releases the carried item on the cursor slot.
func (m deckModel) drop(side grid.Side) (tea.Model, tea.Cmd) {
	if m.carrying == "" {
		return m, nil
	}
	before := m.ctrl.State().Order
	m.ctrl.DragOverSide(m.cursor, side)
	st, err := m.ctrl.Drop(m.ctx, m.cursor)
	if err == nil {
		if grid.Equal(before, st.Order) {
			m.status = "nothing moved"
		} else {
			m.cursor = grid.DisplaySlots(st.Order, m.ctrl.Columns()).IndexOf(m.carrying)
		}
	}
	m.carrying = ""
	return m.done(err)
}

func (m *deckModel) cancelCarry() {
	m.ctrl.DragCancel()
	m.carrying = ""
}

// nextPreset applies the next preset that fits the item count.
func (m *deckModel) nextPreset() error {
	presets := m.ctrl.Presets()
	for step := 1; step <= len(presets); step++ {
		i := (m.preset + step) % len(presets)
		if !presets[i].Enabled {
			continue
		}
		m.preset = i
		p := reorder.Preset{Rows: presets[i].Rows, Cols: presets[i].Cols}
		m.status = "preset " + p.String()
		return m.ctrl.ApplyPreset(m.ctx, p)
	}
	m.status = "no preset fits"
	return nil
}

// done records err and keeps the cursor inside the grid. Store failures
// end the program.
func (m deckModel) done(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	if n := len(m.ctrl.Slots()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m, nil
}

func (m deckModel) View() string {
	st := m.ctrl.State()
	cols := m.ctrl.Columns()

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.ctrl.Key()))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(summary(st, len(m.ctrl.Items()), cols)))
	b.WriteString("\n\n")

	switch {
	case st.SimpleMode:
		b.WriteString(listView(st.Order, m.label))
	case st.Canvas:
		var selected string
		if len(st.Cards) > 0 {
			selected = st.Cards[min(m.card, len(st.Cards)-1)].ID
		}
		b.WriteString(cardsView(st.Cards, m.label, selected))
		b.WriteString("\n")
	default:
		b.WriteString(gridView(m.ctrl.Slots(), cols, m.label, m.cursor, m.carrying))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.carrying != "" {
		b.WriteString(statusStyle.Render(fmt.Sprintf("carrying %s", m.label(m.carrying))))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help(st)))
	return b.String()
}

func (m deckModel) help(st layout.State) string {
	common := "u undo  a adjust  R reset  p preset  +/- zoom  s simple  q quit"
	switch {
	case st.SimpleMode:
		return "s grid  q quit"
	case st.Canvas:
		return "tab select  ←↑↓→ move  shift+←↑↓→ resize  f front  " + common
	case m.carrying != "":
		return "←↑↓→ aim  ⏎/[ left  ] right  t top  b bottom  space/esc cancel"
	}
	return "←↑↓→ navigate  space pick up  " + common
}
