package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/layout"
)

// newCommand creates the "new" command, which starts an ad-hoc comparison
// of scenarios picked from any notebook.
func (c *CLI) newCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "new <scenario>...",
		Short: "Start a comparison of hand-picked scenarios",
		Long: `Start a comparison of hand-picked scenarios and print its key.

The scenarios must exist in the catalog. Use the printed key with the other
commands, for example "rangedeck show <key>".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := c.openCatalog()
			if err != nil {
				return err
			}

			items := make([]layout.Item, 0, len(args))
			for _, id := range args {
				sc, _, ok := cat.Scenario(id)
				if !ok {
					return errors.New(errors.ErrCodeNotFound, "scenario %q not found in %s", id, c.cfg.Catalog)
				}
				items = append(items, sc.Item())
			}

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			key := uuid.NewString()
			if _, err := s.Get(ctx, key, items); err != nil {
				return err
			}

			if quiet {
				fmt.Fprintln(out, key)
				return nil
			}
			printSuccess("Created comparison of %d scenarios", len(items))
			printKeyValue("Key", key)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the key")
	return cmd
}
