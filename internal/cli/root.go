// Package cli implements the portalgrid command-line interface.
//
// Commands:
//   - query: link origin and goal to their block portals and test reachability
//   - render: print the clearance display of a map
//   - graph: write the portal graph as DOT or SVG
//   - snapshot: write the preprocessed map as JSON
//   - serve: answer queries over HTTP
//
// Every command reads a text map (see package mapfile). Settings come from
// an optional TOML file (--config) and are overridden by flags. --verbose
// enables debug logging; the logger travels through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/portalgrid/internal/config"
	"github.com/katalvlaran/portalgrid/mapfile"
	"github.com/katalvlaran/portalgrid/navmap"
)

var version = "dev"

// SetVersion sets the string printed by --version.
func SetVersion(v string) { version = v }

// settings is shared by all commands of one invocation.
type settings struct {
	configPath string
	verbose    bool
	noColor    bool
	cfg        config.Config
}

// NewRootCommand builds the command tree. Logs go to stderr.
func NewRootCommand(stderr io.Writer) *cobra.Command {
	s := &settings{cfg: config.Default()}

	root := &cobra.Command{
		Use:           "portalgrid",
		Short:         "Hierarchical reachability queries on grid maps",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.load(cmd); err != nil {
				return err
			}
			level := s.cfg.Level()
			if s.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&s.configPath, "config", "c", "", "TOML configuration file")
	pf.BoolVarP(&s.verbose, "verbose", "v", false, "enable verbose logging")
	pf.IntVar(&s.cfg.BlockSize, "block-size", s.cfg.BlockSize, "block side length (power of two)")
	pf.IntVar(&s.cfg.AgentSize, "agent-size", s.cfg.AgentSize, "agent size for queries")
	pf.IntVar(&s.cfg.Workers, "workers", s.cfg.Workers, "blocks linked concurrently")
	pf.BoolVar(&s.cfg.DiagonalPortals, "diagonal", s.cfg.DiagonalPortals, "extract diagonal border portals")
	pf.BoolVar(&s.noColor, "no-color", false, "disable colored output")

	root.AddCommand(s.queryCommand())
	root.AddCommand(s.renderCommand())
	root.AddCommand(s.graphCommand())
	root.AddCommand(s.snapshotCommand())
	root.AddCommand(s.serveCommand())

	return root
}

// Execute runs the CLI with ctx.
func Execute(ctx context.Context, stderr io.Writer) error {
	return NewRootCommand(stderr).ExecuteContext(ctx)
}

// load reads the config file, if any, and re-applies flags the user set so
// they win over the file.
func (s *settings) load(cmd *cobra.Command) error {
	if s.configPath != "" {
		fileCfg, err := config.Load(s.configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("block-size") {
			fileCfg.BlockSize = s.cfg.BlockSize
		}
		if flags.Changed("agent-size") {
			fileCfg.AgentSize = s.cfg.AgentSize
		}
		if flags.Changed("workers") {
			fileCfg.Workers = s.cfg.Workers
		}
		if flags.Changed("diagonal") {
			fileCfg.DiagonalPortals = s.cfg.DiagonalPortals
		}
		s.cfg = fileCfg
	}
	if s.noColor {
		s.cfg.Render.Color = false
	}

	return s.cfg.Validate()
}

// loadMap reads and preprocesses the map at path.
func (s *settings) loadMap(ctx context.Context, path string) (*mapfile.Scenario, *navmap.Map, error) {
	logger := loggerFromContext(ctx)

	p := newProgress(logger)
	sc, err := mapfile.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	p.done(fmt.Sprintf("Loaded %dx%d map", sc.Grid.Width(), sc.Grid.Height()))

	p = newProgress(logger)
	opts := append(s.cfg.MapOptions(logger), navmap.WithContext(ctx))
	m, err := navmap.New(sc.Grid, opts...)
	if err != nil {
		return nil, nil, err
	}
	p.done(fmt.Sprintf("Preprocessed %d blocks, %d portals, %d edges",
		m.Layout().Count(), m.PortalCount(), m.Graph().Len()))

	return sc, m, nil
}
