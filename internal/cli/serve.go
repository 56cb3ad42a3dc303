package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rangedeck/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("addr") {
				c.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("log-file") {
				c.cfg.Server.Log.File = logFile
			}

			logger := loggerFromContext(ctx)
			if w := c.cfg.Server.Log.Writer(); w != nil {
				defer w.Close()
				logger = newLogger(io.MultiWriter(os.Stderr, w), logger.GetLevel())
				ctx = withLogger(ctx, logger)
			}

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			cat, err := c.openCatalog()
			if err != nil {
				return err
			}

			srv := server.New(s, cat, server.Options{
				Width:       c.cfg.Viewport.Width,
				Breakpoints: c.cfg.Viewport.Breakpoints,
				Logger:      logger,
			})

			prog := newProgress(logger)
			logger.Info("Serving", "addr", c.cfg.Server.Addr, "store", s.Backend().Name(), "notebooks", len(cat.Notebooks))
			if err := srv.ListenAndServe(ctx, c.cfg.Server.Addr); err != nil {
				return err
			}
			prog.done("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this rotated file")
	return cmd
}
