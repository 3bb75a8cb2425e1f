package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshgrid/mesh"
	"github.com/notargets/meshgrid/mesh/readers"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&logs)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeMesh(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "test.msh")
	require.NoError(t, os.WriteFile(fn, []byte(content), 0644))
	return fn
}

func TestStatsCommand(t *testing.T) {
	builder := readers.NewGmsh22TestBuilder().WithPhysicalName(1, "inner")
	out, err := runRoot(t, "stats", writeMesh(t, builder.BuildCubeTest()))
	require.NoError(t, err)
	assert.Contains(t, out, "Cells: 12 (max id 12)")
	assert.Contains(t, out, "Downward index: Built")
	assert.Contains(t, out, "Skin sub-entities of dimension 2: 12")
	assert.Contains(t, out, "Regions: 1")
	assert.Contains(t, out, "Group 1 \"inner\": 12 cells")

	_, err = runRoot(t, "stats", "mesh.neu")
	assert.Error(t, err)
}

func TestStatsWithParameters(t *testing.T) {
	params := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(params, []byte("Title: Tight\nMaxNodesPerCell: 4\n"), 0644))
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("params", "") })

	// The mixed mesh holds a hexahedron, over the cap
	mixed := writeMesh(t, readers.NewGmsh22TestBuilder().BuildMixedElementTest())
	_, err := runRoot(t, "stats", "--params", params, mixed)
	assert.ErrorIs(t, err, mesh.ErrCapacityExceeded)

	out, err := runRoot(t, "stats", "--params", params, writeMesh(t, readers.NewGmsh22TestBuilder().BuildTwoTetTest()))
	require.NoError(t, err)
	assert.Contains(t, out, "\"Tight\"")
	assert.Contains(t, out, "Cells: 2")
}

func TestCompactCommand(t *testing.T) {
	builder := readers.NewGmsh22TestBuilder().WithPhysicalName(1, "left").WithPhysicalName(2, "right")
	in := writeMesh(t, builder.BuildTwoTetTest())
	outFile := filepath.Join(t.TempDir(), "out.msh")

	out, err := runRoot(t, "compact", "-r", "1", "-p", in, outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Compacted nodes 5 -> 4, cells 2 -> 1")

	mf, err := readers.ReadMeshFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, 4, mf.Grid.NumNodes())
	assert.Equal(t, 1, mf.Grid.NumCells())
	require.Contains(t, mf.Groups, 2)
	assert.NotContains(t, mf.Groups, 1)
	assert.Equal(t, "right", mf.Groups[2].Name)
	assert.Equal(t, []float64{1, 1, 1}, mf.Coordinates[3])
}

func TestBenchCommand(t *testing.T) {
	out, err := runRoot(t, "bench", "--nx", "2", "--ny", "2", "--nz", "1", "--skin")
	require.NoError(t, err)
	assert.Contains(t, out, "Cells: 20 (max id 20)")
	assert.Contains(t, out, "Skin sub-entities of dimension 2: 16")
	assert.Contains(t, out, "Compaction:")
	assert.Contains(t, out, "18 cells left")
	assert.Contains(t, out, "meshgrid_grid_build_duration_seconds view=compact: 1 samples")
	assert.Contains(t, out, "meshgrid_grid_cells: 18")

	_, err = runRoot(t, "bench", "--nx", "1", "--ny", "1", "--nz", "1", "--profile", "gpu")
	assert.Error(t, err)
	require.NoError(t, BenchCmd.Flags().Set("profile", ""))
}
