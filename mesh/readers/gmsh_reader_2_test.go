package readers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshgrid/mesh"
	"github.com/notargets/meshgrid/types"
)

// Helper function to create temporary test files
func createTempMshFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.msh")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

// TestReadGmsh22Version tests reading version information
func TestReadGmsh22Version(t *testing.T) {
	content := `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
0
$EndNodes
$Elements
0
$EndElements`

	mf, err := ReadGmsh22(createTempMshFile(t, content))
	if err != nil {
		t.Fatalf("Failed to read Gmsh file: %v", err)
	}
	if mf.FormatVersion != "2.2" {
		t.Errorf("Expected version 2.2, got %s", mf.FormatVersion)
	}
	assert.Zero(t, mf.Grid.NumNodes())
	assert.Zero(t, mf.Grid.NumCells())
}

func TestReadGmsh22Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"Version4", "$MeshFormat\n4.1 0 8\n$EndMeshFormat\n", "unsupported Gmsh format version"},
		{"Binary", "$MeshFormat\n2.2 1 8\n$EndMeshFormat\n", "binary"},
		{"NoFormat", "$Nodes\n0\n$EndNodes\n", "could not find $MeshFormat"},
		{"UnknownNode", "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n1\n1 0 0 0\n$EndNodes\n" +
			"$Elements\n1\n1 1 2 0 0 1 2\n$EndElements\n", "unknown node 2"},
		{"ShortElement", "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n1\n1 0 0 0\n$EndNodes\n" +
			"$Elements\n1\n1 4 2 0 0 1\n$EndElements\n", "expected 4 nodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGmsh22(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}

	_, err := ReadMeshFile("grid.neu")
	assert.Error(t, err)
}

// TestReadGmsh22StandardMeshes tests reading standard test meshes
func TestReadGmsh22StandardMeshes(t *testing.T) {
	builder := NewGmsh22TestBuilder().WithPhysicalName(1, "left").WithPhysicalName(2, "right")

	t.Run("TwoTetMesh", func(t *testing.T) {
		mf, err := ReadMeshFile(createTempMshFile(t, builder.BuildTwoTetTest()))
		require.NoError(t, err)

		g := mf.Grid
		assert.Equal(t, 5, g.NumNodes())
		assert.Equal(t, 2, g.NumCells())
		for c := mesh.CellID(0); c < 2; c++ {
			ct, err := g.CellType(c)
			require.NoError(t, err)
			assert.Equal(t, types.Tet, ct)
		}
		require.NoError(t, mesh.ValidateElementConnectivity(g, [][]mesh.NodeID{
			{0, 1, 2, 3},
			{1, 2, 3, 4},
		}))
		assert.Equal(t, []float64{1, 1, 1}, mf.Coordinates[4])
		assert.Equal(t, mesh.NodeID(4), mf.NodeIDs[5])

		require.Len(t, mf.Groups, 2)
		assert.Equal(t, "left", mf.Groups[1].Name)
		assert.Equal(t, []mesh.CellID{0}, mf.Groups[1].Cells)
		assert.Equal(t, "right", mf.Groups[2].Name)
		assert.Equal(t, []mesh.CellID{1}, mf.Groups[2].Cells)

		require.NoError(t, g.BuildLinks())
		require.NoError(t, g.BuildDownward(false))
		nbs, err := g.Neighbors(0, false)
		require.NoError(t, err)
		assert.Equal(t, []mesh.CellID{1}, nbs)
	})

	t.Run("MixedMesh", func(t *testing.T) {
		mf, err := ParseGmsh22(strings.NewReader(NewGmsh22TestBuilder().BuildMixedElementTest()))
		require.NoError(t, err)

		st := mf.Grid.Statistics()
		assert.Equal(t, 9, st.Nodes)
		assert.Equal(t, 7, st.Cells)
		assert.Equal(t, 2, st.CellsByType[types.Tet])
		assert.Equal(t, 1, st.CellsByType[types.Hex])
		assert.Equal(t, 1, st.CellsByType[types.Quad])
		assert.Equal(t, 1, st.CellsByType[types.Point]) // the ball marker has no Gmsh type
		require.Contains(t, mf.Groups, 10)
		assert.Equal(t, "physical_10", mf.Groups[10].Name)
		assert.Len(t, mf.Groups[10].Cells, 7)
	})

	t.Run("CubeMesh", func(t *testing.T) {
		mf, err := ParseGmsh22(strings.NewReader(builder.BuildCubeTest()))
		require.NoError(t, err)
		assert.Equal(t, 12, mf.Grid.NumCells())
		assert.Equal(t, []float64{0.5, 0.5, 0.5}, mf.Coordinates[8])
	})
}

func TestReadGmsh22SkipsSections(t *testing.T) {
	content := `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
3
10 0 0 0
20 1 0 0
30 0 1 0
$EndNodes
$NodeData
1
"temperature"
$EndNodeData
$Elements
2
1 2 2 7 1 10 20 30
2 11 2 7 1 10 20 30 10 20 30 10 20 30 10
$EndElements`

	mf, err := ParseGmsh22(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 3, mf.Grid.NumNodes())
	assert.Equal(t, 1, mf.Grid.NumCells())
	assert.Equal(t, 1, mf.Skipped[11])
	assert.Equal(t, mesh.NodeID(2), mf.NodeIDs[30])
	assert.Equal(t, []mesh.CellID{0}, mf.Groups[7].Cells)
}

func TestMeshFileRemap(t *testing.T) {
	builder := NewGmsh22TestBuilder()
	mf, err := ParseGmsh22(strings.NewReader(builder.BuildTwoTetTest()))
	require.NoError(t, err)
	g := mf.Grid
	require.NoError(t, g.RemoveCell(0))
	require.NoError(t, g.RemoveNode(0))

	cm, err := g.Compact(nil, nil)
	require.NoError(t, err)
	mf.Remap(cm)

	assert.Len(t, mf.Coordinates, 4)
	assert.Equal(t, []float64{1, 0, 0}, mf.Coordinates[0])
	_, found := mf.NodeIDs[1]
	assert.False(t, found)
	assert.Equal(t, mesh.NodeID(3), mf.NodeIDs[5])
	assert.Empty(t, mf.Groups[1].Cells)
	assert.Equal(t, []mesh.CellID{0}, mf.Groups[2].Cells)
}

func TestWriteGmsh22RoundTrip(t *testing.T) {
	builder := NewGmsh22TestBuilder().WithPhysicalName(1, "left").WithPhysicalName(2, "right")
	mf, err := ParseGmsh22(strings.NewReader(builder.BuildTwoTetTest()))
	require.NoError(t, err)
	require.NoError(t, mf.Grid.RemoveCell(0))
	require.NoError(t, mf.Grid.RemoveNode(0))

	filename := filepath.Join(t.TempDir(), "out.msh")
	require.NoError(t, WriteGmsh22File(filename, mf))
	back, err := ReadMeshFile(filename)
	require.NoError(t, err)

	assert.Equal(t, 4, back.Grid.NumNodes())
	assert.Equal(t, 1, back.Grid.NumCells())
	require.NoError(t, mesh.ValidateElementConnectivity(back.Grid, [][]mesh.NodeID{{0, 1, 2, 3}}))
	assert.Equal(t, []float64{1, 1, 1}, back.Coordinates[3])
	assert.Equal(t, "right", back.Groups[2].Name)
	assert.Equal(t, []mesh.CellID{0}, back.Groups[2].Cells)
	assert.Empty(t, back.Groups[1].Cells)

	// Polygons have no Gmsh 2.2 element type
	_, err = mf.Grid.AddCell(types.Polygon, []mesh.NodeID{1, 2, 3, 4})
	require.NoError(t, err)
	var buf strings.Builder
	assert.Error(t, WriteGmsh22(&buf, mf))
}
