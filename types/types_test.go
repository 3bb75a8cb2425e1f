package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Test packed int for edge labeling
		en := NewEdgeKey([2]int{1, 0})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))

		en = NewEdgeKey([2]int{0, 1})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{1, 0}, en.GetVertices(true))

		en = NewEdgeKey([2]int{100, 1})
		assert.Equal(t, EdgeKey(100*(1<<32)+1), en)
		assert.Equal(t, [2]int{1, 100}, en.GetVertices(false))

		// Test maximum/minimum indices
		en = NewEdgeKey([2]int{1<<32 - 1, 1<<32 - 1})
		assert.Equal(t, EdgeKey(1<<64-1), en)
		assert.Equal(t, [2]int{1<<32 - 1, 1<<32 - 1}, en.GetVertices(false))

		assert.Panics(t, func() { NewEdgeKey([2]int{-1, 2}) })
	}
	{ // Growth keeps contents and fills the tail
		s := []float64{1, 2}
		s = GrowSlice(s, 5, -1.)
		assert.Equal(t, []float64{1, 2, -1, -1, -1}, s)
		s2 := GrowSlice(s, 3, 0.)
		assert.Equal(t, s, s2)
		var empty []int
		assert.Equal(t, []int{7, 7}, GrowSlice(empty, 2, 7))
	}
}

func TestCellTypeProperties(t *testing.T) {
	tests := []struct {
		ct    CellType
		dim   int
		nodes int
	}{
		{Point, 0, 1},
		{Ball, 0, 1},
		{Line, 1, 2},
		{Line3, 1, 3},
		{Triangle, 2, 3},
		{Triangle6, 2, 6},
		{Quad, 2, 4},
		{Quad8, 2, 8},
		{Polygon, 2, 0},
		{Tet, 3, 4},
		{Hex, 3, 8},
		{Prism, 3, 6},
		{Pyramid, 3, 5},
		{Polyhedron, 3, 0},
	}
	assert.Equal(t, len(tests), len(AllCellTypes()))
	for _, tt := range tests {
		t.Run(tt.ct.String(), func(t *testing.T) {
			assert.True(t, tt.ct.IsValid())
			assert.Equal(t, tt.dim, tt.ct.GetDimension())
			assert.Equal(t, tt.nodes, tt.ct.GetNumNodes())
		})
	}
	assert.False(t, Unknown.IsValid())
	assert.False(t, CellType(200).IsValid())
	assert.Equal(t, "Invalid", CellType(200).String())
	assert.Equal(t, -1, Unknown.GetDimension())

	assert.True(t, Polygon.ValidArity(5))
	assert.False(t, Polygon.ValidArity(2))
	assert.True(t, Hex.ValidArity(8))
	assert.False(t, Hex.ValidArity(6))
	assert.False(t, Unknown.ValidArity(0))
}

func TestBoundaryTemplates(t *testing.T) {
	expectedCounts := map[CellType]int{
		Line: 2, Line3: 2,
		Triangle: 3, Triangle6: 3, Quad: 4, Quad8: 4,
		Tet: 4, Hex: 6, Prism: 5, Pyramid: 5,
	}
	for ct, count := range expectedCounts {
		tmpl := ct.GetBoundaryTemplate(ct.GetNumNodes())
		assert.Len(t, tmpl, count, ct.String())
		for _, local := range tmpl {
			for _, l := range local {
				assert.Less(t, l, ct.GetNumNodes(), ct.String())
			}
		}
	}
	// Every volume edge appears in exactly two faces
	for _, ct := range []CellType{Tet, Hex, Prism, Pyramid} {
		fromFaces := EdgesFromFaces(ct.GetBoundaryTemplate(ct.GetNumNodes()))
		assert.Len(t, fromFaces, len(ct.GetEdgeTemplate()), ct.String())
	}
	assert.Equal(t, [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}}, PolygonEdges(5))

	faces := GetElementFaces(Tet, []int{10, 11, 12, 13})
	assert.Equal(t, [][]int{{10, 12, 11}, {10, 11, 13}, {11, 12, 13}, {10, 13, 12}}, faces)
	assert.Empty(t, GetElementFaces(Triangle, []int{1, 2, 3}))
}
