package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lenslayout/pkg/graph"
)

// runCLI executes the root command with args and an isolated config
// directory, failing the test on error.
func runCLI(t *testing.T, args ...string) {
	t.Helper()
	require.NoError(t, execCLI(t, args...))
}

func execCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(os.Stderr, log.ErrorLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(os.Stderr)
	return root.ExecuteContext(t.Context())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(os.Stderr, log.ErrorLevel).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"generate", "layout", "transform", "watch", "serve", "cache", "config", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"svg", []string{"svg"}},
		{"json, dot,svg", []string{"json", "dot", "svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFormats(tt.in))
		})
	}
}

func TestOutputBase(t *testing.T) {
	assert.Equal(t, "lattice", outputBase("lattice.graph.json"))
	assert.Equal(t, "dir/g", outputBase("dir/g.json"))
	assert.Equal(t, "plain", outputBase("plain"))
}

func TestFlagOr(t *testing.T) {
	var n int
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().IntVar(&n, "n", 1, "")

	assert.Equal(t, 7, flagOr(cmd, "n", n, 7), "unset flag falls back")

	require.NoError(t, cmd.Flags().Set("n", "3"))
	assert.Equal(t, 3, flagOr(cmd, "n", n, 7), "set flag wins")
}

func TestBadConfigFails(t *testing.T) {
	cfgPath := writeConfig(t, "[layout]\nalgorithm = \"spring\"\n")
	err := execCLI(t, "--config", cfgPath, "config", "show")
	assert.Error(t, err)
}

func TestGenerateLattice(t *testing.T) {
	out := filepath.Join(t.TempDir(), "lattice.graph.json")
	runCLI(t, "generate", "lattice", "-o", out, "--seed", "3")

	g, err := graph.ReadGraphFile(out)
	require.NoError(t, err)
	assert.Equal(t, 16, g.NodeCount())
	for _, id := range g.Nodes() {
		assert.Equal(t, 6, g.OutDegree(id), id)
	}
}

func TestLayoutAndTransformRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lattice.graph.json")
	runCLI(t, "generate", "lattice", "-o", input, "--kleinberg=false")

	runCLI(t, "layout", input, "-a", "circle", "--no-cache", "-f", "json,dot")
	base := filepath.Join(dir, "lattice.layout")
	assert.FileExists(t, base+".dot")

	l, err := graph.ReadLayoutFile(base + ".json")
	require.NoError(t, err)
	require.Len(t, l.Positions, 16)
	assert.Equal(t, "circle", l.Algorithm)
	assert.Empty(t, l.View)

	viewed := filepath.Join(dir, "viewed.json")
	runCLI(t, "transform", base+".json", "-o", viewed, "--zoom", "2", "--pan-x", "10")

	v, err := graph.ReadLayoutFile(viewed)
	require.NoError(t, err)
	require.Len(t, v.View, 16)

	// Drop the layout positions and recover them from the view.
	recovered := filepath.Join(dir, "recovered.json")
	v.Positions = nil
	require.NoError(t, graph.WriteLayoutFile(v, recovered))
	runCLI(t, "transform", recovered, "--inverse", "--zoom", "2", "--pan-x", "10")

	r, err := graph.ReadLayoutFile(recovered)
	require.NoError(t, err)
	for id, p := range l.Positions {
		assert.InDelta(t, p.X, r.Positions[id].X, 1e-6, id)
		assert.InDelta(t, p.Y, r.Positions[id].Y, 1e-6, id)
	}
}

func TestTransformInverseWithoutView(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "g.graph.json")
	runCLI(t, "generate", "lattice", "-o", input, "--kleinberg=false")
	runCLI(t, "layout", input, "-a", "tree", "--no-cache")

	err := execCLI(t, "transform", filepath.Join(dir, "g.layout.json"), "--inverse")
	assert.Error(t, err)
}
