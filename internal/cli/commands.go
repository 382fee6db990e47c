package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/internal/server"
	"github.com/katalvlaran/portalgrid/render"
)

var errBadPoint = errors.New("point must be X,Y")

// parsePoint parses "x,y".
func parsePoint(s string) (grid.Coord, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Coord{}, fmt.Errorf("%w: %q", errBadPoint, s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil || x < 0 || y < 0 || x >= grid.MaxDimension || y >= grid.MaxDimension {
		return grid.Coord{}, fmt.Errorf("%w: %q", errBadPoint, s)
	}

	return grid.XY(x, y), nil
}

func (s *settings) queryCommand() *cobra.Command {
	var originFlag, goalFlag string

	cmd := &cobra.Command{
		Use:   "query MAPFILE",
		Short: "Link origin and goal to their block portals and test reachability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, m, err := s.loadMap(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			origin, goal := sc.Origin, sc.Goal
			if originFlag != "" {
				if origin, err = parsePoint(originFlag); err != nil {
					return err
				}
				sc.HasOrigin = true
			}
			if goalFlag != "" {
				if goal, err = parsePoint(goalFlag); err != nil {
					return err
				}
				sc.HasGoal = true
			}
			sc.Origin, sc.Goal = origin, goal
			if origin, goal, err = sc.Endpoints(); err != nil {
				return err
			}

			size := s.cfg.AgentSize
			origins, err := m.LinkPositionAndPortals(origin, size)
			if err != nil {
				return err
			}
			goals, err := m.LinkPositionAndPortals(goal, size)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Origin %s:\n", origin)
			for _, p := range origins {
				fmt.Fprintf(out, "  %s\n", p)
			}
			fmt.Fprintf(out, "Goal %s:\n", goal)
			for _, p := range goals {
				fmt.Fprintf(out, "  %s\n", p)
			}

			ok, err := m.Connected(origin, goal, size)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "No path")
				return nil
			}
			fmt.Fprintln(out, "Path found")
			if route, err := m.PortalRoute(origins, goals, size); err == nil && route.Found {
				fmt.Fprintf(out, "Portal route: %d portals, length %d\n", len(route.Path), route.Cost)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&originFlag, "origin", "", "origin X,Y (default: the map's S cell)")
	cmd.Flags().StringVar(&goalFlag, "goal", "", "goal X,Y (default: the map's G cell)")

	return cmd
}

func (s *settings) renderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render MAPFILE",
		Short: "Print the clearance display of a map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, m, err := s.loadMap(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			mk := render.Markers{Origin: sc.Origin, Goal: sc.Goal, HasOrigin: sc.HasOrigin, HasGoal: sc.HasGoal}
			return render.Clearance(cmd.OutOrStdout(), m.Grid(), mk, render.DisplayOptions{
				BlockSize: m.Layout().BlockSize,
				Color:     s.cfg.Render.Color,
			})
		},
	}
}

func (s *settings) graphCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "graph MAPFILE",
		Short: "Write the portal graph as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := s.loadMap(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data := []byte(render.GraphDOT(m.Graph(), m.Layout()))
			switch format {
			case "dot":
			case "svg":
				if data, err = render.SVG(cmd.Context(), string(data)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}
			return writeOutput(cmd, output, func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or svg")

	return cmd
}

func (s *settings) snapshotCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot MAPFILE",
		Short: "Write the preprocessed map as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := s.loadMap(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, m.Snapshot().Encode)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (s *settings) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve MAPFILE",
		Short: "Answer map queries over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := s.loadMap(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if addr == "" {
				addr = s.cfg.Server.Addr
			}
			logger := loggerFromContext(cmd.Context())
			return server.ListenAndServe(cmd.Context(), addr, server.New(m, logger), logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")

	return cmd
}

// writeOutput calls write with the file at path, or with the command's
// stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	loggerFromContext(cmd.Context()).Info("wrote " + path)

	return f.Close()
}
