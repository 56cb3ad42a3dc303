// Package cli implements the rangedeck command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rangedeck/internal/config"
	"github.com/matzehuels/rangedeck/pkg/buildinfo"
	"github.com/matzehuels/rangedeck/pkg/catalog"
	"github.com/matzehuels/rangedeck/pkg/compare"
	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/layout"
	"github.com/matzehuels/rangedeck/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "rangedeck"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	backend     string
	catalogPath string
	width       float64

	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "rangedeck arranges poker scenarios for side-by-side comparison",
		Long:         `rangedeck lays out the scenarios of a notebook, or the global selection, in a reorderable grid or on a free canvas and remembers the arrangement per comparison.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	flags.StringVar(&c.backend, "store", "", "store backend: "+strings.Join(store.Backends, ", "))
	flags.StringVar(&c.catalogPath, "catalog", "", "catalog file")
	flags.Float64Var(&c.width, "width", 0, "viewport width in pixels used for the column count")

	root.AddCommand(c.showCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.undoCommand())
	root.AddCommand(c.adjustCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.presetCommand())
	root.AddCommand(c.zoomCommand())
	root.AddCommand(c.modeCommand())
	root.AddCommand(c.cardCommand())
	root.AddCommand(c.newCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	c.registerKeyCompletion(root)

	return root
}

// registerKeyCompletion completes the key of every command taking one.
func (c *CLI) registerKeyCompletion(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		if strings.Contains(sub.Use, "<key>") {
			sub.ValidArgsFunction = c.completeKeys
		}
		c.registerKeyCompletion(sub)
	}
}

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	path := c.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store.Backend = c.backend
	}
	if flags.Changed("catalog") {
		cfg.Catalog = c.catalogPath
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = c.width
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	c.Logger.Debug("config loaded", "path", path, "store", cfg.Store.Backend, "catalog", cfg.Catalog)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Store and comparison helpers
// =============================================================================

// openStore opens the configured backend. Network backends show a spinner
// while connecting.
func (c *CLI) openStore(ctx context.Context) (*store.Store, error) {
	var spin *Spinner
	switch c.cfg.Store.Backend {
	case store.BackendRedis, store.BackendMongo:
		spin = newSpinnerWithContext(ctx, "Connecting to "+c.cfg.Store.Backend+"...")
		spin.Start()
	}

	b, err := store.Open(ctx, c.cfg.Store)
	if spin != nil {
		cancelled := spin.Cancelled()
		spin.Stop()
		if cancelled && err == nil {
			_ = b.Close()
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return store.New(b, store.WithLogger(loggerFromContext(ctx))), nil
}

func (c *CLI) openCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(c.cfg.Catalog)
	if errors.Is(err, errors.ErrCodeNotFound) {
		c.Logger.Debug("no catalog, only ad-hoc comparisons are available", "path", c.cfg.Catalog)
		return &catalog.Catalog{}, nil
	}
	return cat, err
}

// session is an open comparison plus the resources behind it.
type session struct {
	ctrl    *compare.Controller
	store   *store.Store
	catalog *catalog.Catalog
}

func (s *session) Close() {
	s.ctrl.Close()
	_ = s.store.Close()
}

// label returns the display name of an item.
func (s *session) label(id string) string {
	if sc, _, ok := s.catalog.Scenario(id); ok {
		return sc.Label()
	}
	return id
}

// openComparison resolves the items for key and opens its controller.
func (c *CLI) openComparison(ctx context.Context, key string) (*session, error) {
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := c.openCatalog()
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	items, err := resolveItems(ctx, cat, st, key)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	ctrl, err := compare.Open(ctx, st, key, items, compare.Options{
		Columns: c.cfg.Columns(),
		Logger:  loggerFromContext(ctx),
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &session{ctrl: ctrl, store: st, catalog: cat}, nil
}

// resolveItems returns the items for key: from the catalog when it knows
// the key, otherwise from an ad-hoc comparison created with `rangedeck new`.
func resolveItems(ctx context.Context, cat *catalog.Catalog, s *store.Store, key string) ([]layout.Item, error) {
	items, err := cat.Items(key)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		return items, err
	}
	st, ok, perr := s.Peek(ctx, key)
	if perr != nil {
		return nil, perr
	}
	if !ok {
		return nil, err
	}
	ids := []string(st.Original)
	if len(ids) == 0 && st.Signature != "" {
		ids = strings.Split(st.Signature, ",")
	}
	items = make([]layout.Item, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		kind := catalog.KindRange
		if sc, _, ok := cat.Scenario(id); ok {
			kind = sc.Kind
		}
		items = append(items, layout.Item{ID: id, Kind: kind})
	}
	return items, nil
}
