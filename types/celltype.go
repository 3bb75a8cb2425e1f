package types

// CellType is the closed set of cell shapes known to the connectivity engine

type CellType uint8

const (
	Unknown CellType = iota
	// 0D cells
	Point
	Ball // point marker carrying a diameter
	// 1D cells
	Line
	Line3 // 3-node line (quadratic)
	// 2D cells
	Triangle
	Triangle6 // 6-node triangle (quadratic)
	Quad
	Quad8   // 8-node quad (quadratic)
	Polygon // any number of nodes >= 3
	// 3D cells
	Tet
	Hex
	Prism
	Pyramid
	Polyhedron // described by its faces
	numCellTypes
)

var cellTypeNames = [...]string{
	"Unknown",
	"Point", "Ball",
	"Line", "Line3",
	"Triangle", "Triangle6", "Quad", "Quad8", "Polygon",
	"Tet", "Hex", "Prism", "Pyramid", "Polyhedron",
}

func (c CellType) String() string {
	if c < numCellTypes {
		return cellTypeNames[c]
	}
	return "Invalid"
}

// IsValid reports whether c is one of the supported cell types
func (c CellType) IsValid() bool {
	return c > Unknown && c < numCellTypes
}

// AllCellTypes returns every valid cell type in enumeration order
func AllCellTypes() (ct []CellType) {
	ct = make([]CellType, 0, numCellTypes-1)
	for c := Point; c < numCellTypes; c++ {
		ct = append(ct, c)
	}
	return
}

// GetDimension returns the topological dimension of the cell, -1 if invalid
func (c CellType) GetDimension() int {
	switch c {
	case Point, Ball:
		return 0
	case Line, Line3:
		return 1
	case Triangle, Triangle6, Quad, Quad8, Polygon:
		return 2
	case Tet, Hex, Prism, Pyramid, Polyhedron:
		return 3
	default:
		return -1
	}
}

// GetNumNodes returns the fixed node count of the cell type. Polygon and
// Polyhedron return 0, their node count is given per cell.
func (c CellType) GetNumNodes() int {
	switch c {
	case Point, Ball:
		return 1
	case Line:
		return 2
	case Line3:
		return 3
	case Triangle:
		return 3
	case Triangle6:
		return 6
	case Quad:
		return 4
	case Quad8:
		return 8
	case Tet:
		return 4
	case Hex:
		return 8
	case Prism:
		return 6
	case Pyramid:
		return 5
	default:
		return 0
	}
}

// IsVariableArity reports whether the node count is given per cell
func (c CellType) IsVariableArity() bool {
	return c == Polygon || c == Polyhedron
}

// IsQuadratic reports whether the cell carries mid-edge nodes
func (c CellType) IsQuadratic() bool {
	return c == Line3 || c == Triangle6 || c == Quad8
}

// ValidArity checks a node count against the cell type
func (c CellType) ValidArity(n int) bool {
	switch c {
	case Polygon:
		return n >= 3
	case Polyhedron:
		return n >= 4
	default:
		return c.IsValid() && n == c.GetNumNodes()
	}
}

// GetNumCornerNodes returns the number of corner (vertex) nodes for a cell of
// type c with n nodes
func (c CellType) GetNumCornerNodes(n int) int {
	switch c {
	case Line3:
		return 2
	case Triangle6:
		return 3
	case Quad8:
		return 4
	default:
		return n
	}
}

// ShapeForNodes returns the linear face or edge type having n corner nodes
func ShapeForNodes(dim, n int) CellType {
	switch dim {
	case 0:
		return Point
	case 1:
		if n == 3 {
			return Line3
		}
		return Line
	case 2:
		switch n {
		case 3:
			return Triangle
		case 4:
			return Quad
		default:
			return Polygon
		}
	}
	return Unknown
}
