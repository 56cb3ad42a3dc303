package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rangedeck/pkg/compare"
	"github.com/matzehuels/rangedeck/pkg/errors"
)

// cardCommand creates the "card" command group for canvas comparisons.
func (c *CLI) cardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Move, resize and raise cards of a canvas comparison",
	}
	cmd.AddCommand(c.cardDeltaCommand("move", "Move a card by dx, dy", (*compare.Controller).MoveCard))
	cmd.AddCommand(c.cardDeltaCommand("resize", "Grow or shrink a card by dw, dh", (*compare.Controller).ResizeCard))
	cmd.AddCommand(c.cardFrontCommand())
	return cmd
}

var verbs = map[string]string{"move": "Moved", "resize": "Resized"}

type cardDelta func(c *compare.Controller, ctx context.Context, id string, dx, dy float64) error

func (c *CLI) cardDeltaCommand(name, short string, apply cardDelta) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <key> <card> <dx> <dy>",
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dx, err := parseDelta(args[2])
			if err != nil {
				return err
			}
			dy, err := parseDelta(args[3])
			if err != nil {
				return err
			}

			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := apply(s.ctrl, cmd.Context(), args[1], dx, dy); err != nil {
				return err
			}
			card, _ := s.ctrl.State().Card(args[1])
			printSuccess("%s %s", verbs[name], StyleHighlight.Render(s.label(args[1])))
			printDetail("at (%.0f, %.0f), %.0f×%.0f", card.Position.X, card.Position.Y, card.Size.Width, card.Size.Height)
			return nil
		},
	}
}

func (c *CLI) cardFrontCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "front <key> <card>",
		Short: "Bring a card to the front",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.ctrl.Canvas() {
				return errors.New(errors.ErrCodeUnsupported, "comparison %q is not on the canvas", args[0])
			}
			ok, err := s.ctrl.BringToFront(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "card %q not found", args[1])
			}
			card, _ := s.ctrl.State().Card(args[1])
			printSuccess("Raised %s", StyleHighlight.Render(s.label(args[1])))
			printDetail("z %d", card.Z)
			return nil
		},
	}
}

func parseDelta(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s is not a number", strconv.Quote(s))
	}
	return v, nil
}
