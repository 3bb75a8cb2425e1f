package mesh

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/meshgrid/types"
)

func TestExtrudeQuadToHex(t *testing.T) {
	g := NewGrid()
	g.AddNodes(4)
	face, err := g.AddCell(types.Quad, []NodeID{0, 1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, g.BuildLinks())

	dup := make(NodeDomains)
	for n := NodeID(0); n < 4; n++ {
		dup.Set(n, 1, g.AddNode())
	}
	hex, err := g.ExtrudeVolumeFromFace(face, 0, 1, dup)
	require.NoError(t, err)
	ct, err := g.CellType(hex)
	require.NoError(t, err)
	assert.Equal(t, types.Hex, ct)
	nodes, err := g.CellNodes(hex)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{0, 1, 2, 3, 4, 5, 6, 7}, nodes)

	// The linked insertion keeps the link table
	assert.Equal(t, Built, g.Links().State())
	cells, err := g.IncidentCells(6)
	require.NoError(t, err)
	assert.Equal(t, []CellID{hex}, cells)

	// The face bounds the new volume
	require.NoError(t, g.BuildDownward(false))
	volumes, err := g.ParentVolumesOfCell(face)
	require.NoError(t, err)
	assert.Equal(t, []CellID{hex}, volumes)
}

func TestExtrudeTriangleBetweenDomains(t *testing.T) {
	g := NewGrid()
	g.AddNodes(3)
	face, err := g.AddCell(types.Triangle, []NodeID{0, 1, 2})
	require.NoError(t, err)

	// Node 1 is duplicated on both sides, the others only on side 2
	dup := make(NodeDomains)
	dup.Set(1, 1, g.AddNode())
	for n := NodeID(0); n < 3; n++ {
		dup.Set(n, 2, g.AddNode())
	}
	assert.Equal(t, NodeID(0), dup.Node(0, 1))
	assert.Equal(t, NodeID(3), dup.Node(1, 1))

	prism, err := g.ExtrudeVolumeFromFace(face, 1, 2, dup)
	require.NoError(t, err)
	nodes, err := g.CellNodes(prism)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{0, 3, 2, 4, 5, 6}, nodes)
	ct, _ := g.CellType(prism)
	assert.Equal(t, types.Prism, ct)
}

func TestExtrudeUnsupportedFace(t *testing.T) {
	g := NewGrid()
	g.AddNodes(6)
	tri6, err := g.AddCell(types.Triangle6, []NodeID{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	poly, err := g.AddCell(types.Polygon, []NodeID{0, 1, 2, 3, 4})
	require.NoError(t, err)
	tet, err := g.AddCell(types.Tet, []NodeID{0, 1, 2, 3})
	require.NoError(t, err)

	for _, c := range []CellID{tri6, poly, tet} {
		_, err = g.ExtrudeVolumeFromFace(c, 0, 1, NodeDomains{})
		assert.ErrorIs(t, err, ErrUnsupportedFaceShape)
	}
	assert.Equal(t, 3, g.NumCells())
	_, err = g.ExtrudeVolumeFromFace(42, 0, 1, NodeDomains{})
	assert.ErrorIs(t, err, ErrInconsistentState)

	// Polygons with 3 or 4 corners extrude like triangles and quads
	poly3, err := g.AddCell(types.Polygon, []NodeID{0, 1, 2})
	require.NoError(t, err)
	poly4, err := g.AddCell(types.Polygon, []NodeID{0, 1, 2, 3})
	require.NoError(t, err)
	dup := make(NodeDomains)
	for n := NodeID(0); n < 4; n++ {
		dup.Set(n, 1, g.AddNode())
	}
	prism, err := g.ExtrudeVolumeFromFace(poly3, 0, 1, dup)
	require.NoError(t, err)
	ct, _ := g.CellType(prism)
	assert.Equal(t, types.Prism, ct)
	nodes, err := g.CellNodes(prism)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{0, 1, 2, 6, 7, 8}, nodes)
	hex, err := g.ExtrudeVolumeFromFace(poly4, 0, 1, dup)
	require.NoError(t, err)
	ct, _ = g.CellType(hex)
	assert.Equal(t, types.Hex, ct)
	nodes, err = g.CellNodes(hex)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{0, 1, 2, 3, 6, 7, 8, 9}, nodes)

	corners, err := g.OrderedNodesOfFace(tri6)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{0, 1, 2}, corners)
	_, err = g.OrderedNodesOfFace(tet)
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestBallDiameters(t *testing.T) {
	g := NewGrid()
	g.AddNodes(2)
	g.AllocateDiameters(10)
	line, err := g.AddCell(types.Line, []NodeID{0, 1})
	require.NoError(t, err)
	ball, err := g.AddCell(types.Ball, []NodeID{1})
	require.NoError(t, err)

	d, err := g.BallDiameter(ball)
	require.NoError(t, err)
	assert.Equal(t, 0., d)
	require.NoError(t, g.SetBallDiameter(ball, 0.125))
	d, err = g.BallDiameter(ball)
	require.NoError(t, err)
	assert.Equal(t, 0.125, d)

	assert.ErrorIs(t, g.SetBallDiameter(line, 1), ErrInvalidType)
	_, err = g.BallDiameter(line)
	assert.ErrorIs(t, err, ErrInvalidType)

	var bd BallDiameters
	assert.Equal(t, 0., bd.Get(3))
	bd.Set(3, math.Pi)
	assert.Equal(t, 4, bd.Len())
	assert.Equal(t, math.Pi, bd.Get(3))
	assert.Equal(t, 0., bd.Get(-1))
}

func TestRegions(t *testing.T) {
	tm := GetStandardTestMeshes()
	g, _ := tm.LineChainMesh.MustConvertToGrid()
	_, err := g.Regions()
	assert.ErrorIs(t, err, ErrInconsistentState)
	buildViews(t, g, false)
	regions, err := g.Regions()
	require.NoError(t, err)
	assert.Equal(t, [][]CellID{{0, 1, 2}, {3}, {4}}, regions)

	g, _ = tm.TwoTetMesh.MustConvertToGrid()
	require.NoError(t, g.RemoveCell(1))
	buildViews(t, g, false)
	regions, err = g.Regions()
	require.NoError(t, err)
	assert.Equal(t, [][]CellID{{0}}, regions)
}

func TestStatistics(t *testing.T) {
	tm := GetStandardTestMeshes()
	g, _ := tm.MixedMesh.MustConvertToGrid()
	st := g.Statistics()
	assert.Equal(t, 9, st.Nodes)
	assert.Equal(t, 7, st.Cells)
	assert.Equal(t, 2, st.CellsByType[types.Tet])
	assert.Equal(t, 1, st.CellsByType[types.Ball])
	assert.Equal(t, NotBuilt, st.DownwardState)
	assert.Zero(t, st.SubEntities)

	buildViews(t, g, false)
	st = g.Statistics()
	assert.Equal(t, g.Downward().NumSubEntities(), st.SubEntities)
	var buf bytes.Buffer
	st.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "Cells: 7 (max id 7)")
	assert.Contains(t, out, "Tet: 2")
	assert.Contains(t, out, "Downward index: Built")
	assert.Contains(t, out, "Skin sub-entities of dimension 2")
}

func TestStructuredHexGrid(t *testing.T) {
	_, err := NewStructuredHexGrid(0, 1, 1, false)
	assert.Error(t, err)

	g, err := NewStructuredHexGrid(3, 2, 2, true)
	require.NoError(t, err)
	assert.Equal(t, 4*3*3, g.NumNodes())
	nHex, nQuad := 3*2*2, 2*(3*2+3*2+2*2)
	assert.Equal(t, nHex+nQuad, g.NumCells())
	buildViews(t, g, false)

	// Every boundary quad lies on the skin of exactly one hex
	for c := CellID(nHex); c < CellID(nHex+nQuad); c++ {
		volumes, err := g.ParentVolumesOfCell(c)
		require.NoError(t, err)
		assert.Len(t, volumes, 1, "quad %d", c)
	}
	var skinned int
	for c := CellID(0); c < CellID(nHex); c++ {
		skin, err := g.Neighbors(c, true)
		require.NoError(t, err)
		skinned += len(skin)
	}
	assert.Equal(t, nQuad, skinned)
	// The corner hex touches three others
	nbs, err := g.Neighbors(0, false)
	require.NoError(t, err)
	assert.Len(t, nbs, 3)
}
