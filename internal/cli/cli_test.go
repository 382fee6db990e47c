package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/navmap"
)

// writeGapMap writes a 32×16 map split by a wall at x=15 with a gap at y=8.
func writeGapMap(t *testing.T) string {
	t.Helper()
	var sb strings.Builder
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			switch {
			case x == 3 && y == 3:
				sb.WriteByte('S')
			case x == 28 && y == 12:
				sb.WriteByte('G')
			case x == 15 && y != 8:
				sb.WriteByte('0')
			default:
				sb.WriteByte('1')
			}
			if x == 15 {
				sb.WriteByte('|')
			}
		}
		sb.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "gap.map")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(io.Discard)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestParsePoint(t *testing.T) {
	c, err := parsePoint("12, 7")
	require.NoError(t, err)
	assert.Equal(t, grid.XY(12, 7), c)

	c, err = parsePoint("65535,0")
	require.NoError(t, err)
	assert.Equal(t, grid.XY(65535, 0), c)

	for _, bad := range []string{"", "12", "a,b", "-1,3", "70000,3", "3,65536"} {
		_, err := parsePoint(bad)
		assert.ErrorIs(t, err, errBadPoint, bad)
	}
}

func TestQuery(t *testing.T) {
	path := writeGapMap(t)

	out, err := run(t, "query", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Origin (3, 3):\n  (15, 8) E 1\n")
	assert.Contains(t, out, "Goal (28, 12):\n  (16, 8) W 1\n")
	assert.Contains(t, out, "Path found")
	assert.Contains(t, out, "Portal route: 2 portals, length 1")

	out, err = run(t, "--agent-size", "2", "query", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No path")

	out, err = run(t, "query", "--origin", "20,3", "--goal", "28,12", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Origin (20, 3):")
	assert.Contains(t, out, "Path found")

	_, err = run(t, "query", "--origin", "nope", path)
	assert.ErrorIs(t, err, errBadPoint)
}

func TestRender(t *testing.T) {
	out, err := run(t, "--no-color", "render", writeGapMap(t))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 18)
	assert.True(t, strings.HasSuffix(lines[0], " 0"))
	assert.Contains(t, lines[3], "S")
	assert.Contains(t, out, "0000000000111111 1111222222222233")
}

func TestGraphDOT(t *testing.T) {
	out, err := run(t, "graph", writeGapMap(t))
	require.NoError(t, err)
	assert.Contains(t, out, "digraph portals")
	assert.Contains(t, out, `"15_8" -> "16_8" [style=dashed]`)

	_, err = run(t, "graph", "--format", "png", writeGapMap(t))
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	_, err := run(t, "snapshot", "-o", path, writeGapMap(t))
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	s, err := navmap.DecodeSnapshot(f)
	require.NoError(t, err)
	assert.Equal(t, 32, s.Width)
	assert.Len(t, s.Blocks, 2)

	m, err := navmap.FromSnapshot(s)
	require.NoError(t, err)
	ok, err := m.Connected(grid.XY(3, 3), grid.XY(28, 12), 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "portalgrid.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("agent_size = 2\n[render]\ncolor = false\n"), 0o600))
	mapPath := writeGapMap(t)

	out, err := run(t, "--config", cfgPath, "query", mapPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No path")

	out, err = run(t, "--config", cfgPath, "--agent-size", "1", "query", mapPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Path found")

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("workers = 0\n"), 0o600))
	_, err = run(t, "--config", bad, "query", mapPath)
	assert.Error(t, err)
}

func TestSnapshotJSONIsValid(t *testing.T) {
	out, err := run(t, "snapshot", writeGapMap(t))
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestMissingMap(t *testing.T) {
	_, err := run(t, "render", filepath.Join(t.TempDir(), "missing.map"))
	assert.Error(t, err)
}

func TestQuery_AgentWiderThanPinch(t *testing.T) {
	var sb strings.Builder
	for y := 0; y < 16; y++ {
		for x := 0; x < 48; x++ {
			switch {
			case x == 3 && y == 3:
				sb.WriteByte('S')
			case x == 40 && y == 3:
				sb.WriteByte('G')
			case x == 24 && y != 8:
				sb.WriteByte('0')
			default:
				sb.WriteByte('1')
			}
		}
		sb.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "pinch.map")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))

	out, err := run(t, "--agent-size", "3", "query", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No path")

	out, err = run(t, "query", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Path found")
}
