package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rangedeck/pkg/store"
)

// storeCommand creates the layout store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the saved layouts",
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeListCommand creates the "store list" subcommand.
func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the saved comparisons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			keys, err := s.Keys(ctx)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				printInfo("No saved layouts")
				return nil
			}
			for _, key := range keys {
				st, ok, err := s.Peek(ctx, key)
				if err != nil || !ok {
					printKeyValue(key, StyleWarning.Render("unreadable"))
					continue
				}
				printKeyValue(key, fmt.Sprintf("%d items, updated %s", st.Original.Items(), st.UpdatedAt.Local().Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [key]",
		Short: "Forget one saved layout, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			keys := args
			if len(keys) == 0 {
				if keys, err = s.Keys(ctx); err != nil {
					return err
				}
			}
			if len(keys) == 0 {
				printInfo("Store is empty")
				return nil
			}

			count := 0
			for _, key := range keys {
				if err := s.Delete(ctx, key); err != nil {
					return err
				}
				count++
			}
			printSuccess("Cleared %d saved layouts", count)
			return nil
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where layouts are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(out, storeLocation(c.cfg.Store))
			return nil
		},
	}
}

// storeLocation describes where cfg keeps its data.
func storeLocation(cfg store.Config) string {
	switch cfg.Backend {
	case store.BackendMemory:
		return "memory"
	case store.BackendSQLite:
		if cfg.SQLitePath != "" {
			return cfg.SQLitePath
		}
		return filepath.Join(cfg.Dir, store.DefaultSQLiteFile)
	case store.BackendRedis:
		return cfg.RedisURL
	case store.BackendMongo:
		return cfg.MongoURI
	}
	return cfg.Dir
}
