package types

// Local node index groupings defining the boundary pieces of each cell type.
// Face orderings follow the outward normal convention used by the volume readers.

var (
	tetFaces = [][]int{
		{0, 2, 1}, // Face 0
		{0, 1, 3}, // Face 1
		{1, 2, 3}, // Face 2
		{0, 3, 2}, // Face 3
	}
	hexFaces = [][]int{
		{0, 3, 2, 1}, // Face 0 (bottom)
		{4, 5, 6, 7}, // Face 1 (top)
		{0, 1, 5, 4}, // Face 2
		{1, 2, 6, 5}, // Face 3
		{2, 3, 7, 6}, // Face 4
		{3, 0, 4, 7}, // Face 5
	}
	prismFaces = [][]int{
		{0, 2, 1},    // Face 0 (bottom tri)
		{3, 4, 5},    // Face 1 (top tri)
		{0, 1, 4, 3}, // Face 2 (quad)
		{1, 2, 5, 4}, // Face 3 (quad)
		{2, 0, 3, 5}, // Face 4 (quad)
	}
	pyramidFaces = [][]int{
		{0, 3, 2, 1}, // Face 0 (base quad)
		{0, 1, 4},    // Face 1 (tri)
		{1, 2, 4},    // Face 2 (tri)
		{2, 3, 4},    // Face 3 (tri)
		{3, 0, 4},    // Face 4 (tri)
	}

	tetEdges = [][]int{
		{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3},
	}
	hexEdges = [][]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	prismEdges = [][]int{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
		{0, 3}, {1, 4}, {2, 5},
	}
	pyramidEdges = [][]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{0, 4}, {1, 4}, {2, 4}, {3, 4},
	}

	triangleEdges  = [][]int{{0, 1}, {1, 2}, {2, 0}}
	triangle6Edges = [][]int{{0, 1, 3}, {1, 2, 4}, {2, 0, 5}} // corner, corner, mid
	quadEdges      = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	quad8Edges     = [][]int{{0, 1, 4}, {1, 2, 5}, {2, 3, 6}, {3, 0, 7}}

	lineVertices = [][]int{{0}, {1}}
)

// GetBoundaryTemplate returns the local node groupings of the boundary pieces
// of dimension GetDimension()-1 for a cell of type c holding n nodes.
// Polyhedron boundaries are per cell and are not returned here.
// The returned slices are shared and must not be modified.
func (c CellType) GetBoundaryTemplate(n int) [][]int {
	switch c {
	case Line, Line3:
		return lineVertices
	case Triangle:
		return triangleEdges
	case Triangle6:
		return triangle6Edges
	case Quad:
		return quadEdges
	case Quad8:
		return quad8Edges
	case Polygon:
		return PolygonEdges(n)
	case Tet:
		return tetFaces
	case Hex:
		return hexFaces
	case Prism:
		return prismFaces
	case Pyramid:
		return pyramidFaces
	default:
		return nil
	}
}

// GetEdgeTemplate returns the edges of a fixed-arity volume
func (c CellType) GetEdgeTemplate() [][]int {
	switch c {
	case Tet:
		return tetEdges
	case Hex:
		return hexEdges
	case Prism:
		return prismEdges
	case Pyramid:
		return pyramidEdges
	default:
		return nil
	}
}

// PolygonEdges returns the closed loop of edges of an n-gon
func PolygonEdges(n int) (edges [][]int) {
	edges = make([][]int, n)
	for i := 0; i < n; i++ {
		edges[i] = []int{i, (i + 1) % n}
	}
	return
}

// EdgesFromFaces collects the unique edges of a set of polygonal faces,
// in order of first appearance
func EdgesFromFaces(faces [][]int) (edges [][]int) {
	seen := make(map[EdgeKey]bool)
	for _, face := range faces {
		for i := range face {
			e := [2]int{face[i], face[(i+1)%len(face)]}
			ek := NewEdgeKey(e)
			if seen[ek] {
				continue
			}
			seen[ek] = true
			edges = append(edges, []int{e[0], e[1]})
		}
	}
	return
}

// GetElementFaces returns the faces of a volume as vertex lists
func GetElementFaces(elemType CellType, vertices []int) (faces [][]int) {
	tmpl := elemType.GetBoundaryTemplate(len(vertices))
	if elemType.GetDimension() != 3 {
		return [][]int{}
	}
	faces = make([][]int, len(tmpl))
	for i, local := range tmpl {
		faces[i] = make([]int, len(local))
		for j, l := range local {
			faces[i][j] = vertices[l]
		}
	}
	return
}
