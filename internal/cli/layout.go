package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/reorder"
)

// showCommand creates the "show" command.
func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show the arrangement of a comparison",
		Long: `Show the arrangement of a comparison.

The key is a notebook id, "global" for the selected scenarios of every
notebook, or a key printed by "rangedeck new".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s.ctrl.State())
			}
			printComparison(s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored state as JSON")
	return cmd
}

// printComparison prints the title, summary and current view of s.
func printComparison(s *session) {
	st := s.ctrl.State()
	cols := s.ctrl.Columns()

	fmt.Fprintln(out, StyleTitle.Render(s.ctrl.Key()))
	fmt.Fprintln(out, "  "+StyleDim.Render(summary(st, len(s.ctrl.Items()), cols)))
	switch {
	case st.SimpleMode:
		fmt.Fprint(out, listView(st.Order, s.label))
	case st.Canvas:
		fmt.Fprintln(out, cardsView(st.Cards, s.label, ""))
	default:
		fmt.Fprintln(out, gridView(s.ctrl.Slots(), cols, s.label, -1, ""))
	}
}

// moveCommand creates the "move" command.
func (c *CLI) moveCommand() *cobra.Command {
	var sideName string

	cmd := &cobra.Command{
		Use:   "move <key> <item> <index>",
		Short: "Drag an item onto a grid slot",
		Long: `Drag an item onto the display slot at index.

Dropping on an empty slot moves the item there and leaves its old slot empty.
Dropping on another item inserts next to it; --side picks the edge
(left, right, top, bottom) and defaults to left.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[2])
			if err != nil || index < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "index must be a non-negative integer, got %q", args[2])
			}
			side, err := grid.ParseSide(sideName)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid --side")
			}

			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			before := s.ctrl.State().Order
			s.ctrl.DragStart(args[1])
			s.ctrl.DragOverSide(index, side)
			st, err := s.ctrl.Drop(cmd.Context(), index)
			if err != nil {
				return err
			}
			if grid.Equal(before, st.Order) {
				printWarning("Nothing moved")
				return nil
			}
			printSuccess("Moved %s", StyleHighlight.Render(s.label(args[1])))
			printComparison(s)
			return nil
		},
	}

	cmd.Flags().StringVar(&sideName, "side", "left", "edge of the target item: left, right, top, bottom")
	return cmd
}

// undoCommand creates the "undo" command.
func (c *CLI) undoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <key>",
		Short: "Restore the previous arrangement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			restored, err := s.ctrl.Undo(cmd.Context())
			if err != nil {
				return err
			}
			if !restored {
				printInfo("Nothing to undo")
				return nil
			}
			printSuccess("Restored previous arrangement")
			printComparison(s)
			return nil
		},
	}
}

// adjustCommand creates the "adjust" command.
func (c *CLI) adjustCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <key>",
		Short: "Close the gaps between items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ctrl.Adjust(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Removed empty slots")
			printComparison(s)
			return nil
		},
	}
}

// resetCommand creates the "reset" command.
func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <key>",
		Short: "Restore the original order, zoom and columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			changed, err := s.ctrl.Reset(cmd.Context())
			if err != nil {
				return err
			}
			if !changed {
				printInfo("Already in original order")
				return nil
			}
			printSuccess("Reset to original order")
			printComparison(s)
			return nil
		},
	}
}

// presetCommand creates the "preset" command.
func (c *CLI) presetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preset <key> [RxC]",
		Short: "Apply a preset grid shape, or list the presets",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 1 {
				for _, p := range s.ctrl.Presets() {
					name := reorder.Preset{Rows: p.Rows, Cols: p.Cols}.String()
					if p.Enabled {
						printKeyValue(name, StyleSuccess.Render("fits"))
					} else {
						printKeyValue(name, StyleDim.Render("-"))
					}
				}
				return nil
			}

			p, err := reorder.ParsePreset(args[1])
			if err != nil {
				return err
			}
			if !p.Enabled(len(s.ctrl.Items())) {
				printWarning("%s does not fit %d items", p, len(s.ctrl.Items()))
			}
			if err := s.ctrl.ApplyPreset(cmd.Context(), p); err != nil {
				return err
			}
			printSuccess("Applied %s", StyleHighlight.Render(p.String()))
			printComparison(s)
			return nil
		},
	}
}

// zoomCommand creates the "zoom" command.
func (c *CLI) zoomCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zoom <key> <level>",
		Short: "Set the zoom level (0.5 to 2)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidZoom, err, "zoom must be a number")
			}
			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ctrl.SetZoom(cmd.Context(), level); err != nil {
				return err
			}
			printSuccess("Zoom %.2f", s.ctrl.State().Zoom)
			return nil
		},
	}
}

// modeCommand creates the "mode" command.
func (c *CLI) modeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "mode <key> grid|simple",
		Short:     "Switch between the arrangement and the simple list",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"grid", "simple"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var simple bool
			switch args[1] {
			case "grid":
			case "simple":
				simple = true
			default:
				return errors.New(errors.ErrCodeInvalidInput, "mode must be grid or simple, got %q", args[1])
			}
			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ctrl.SetSimpleMode(cmd.Context(), simple); err != nil {
				return err
			}
			printSuccess("Mode %s", args[1])
			return nil
		},
	}
}
