package mesh

import (
	"fmt"
	"slices"

	"github.com/notargets/meshgrid/types"
)

// TestMeshes provides a collection of standard test meshes shared by the grid
// tests and the file reader tests
type TestMeshes struct {
	// Node definitions
	CubeNodes  NodeSet
	TetraNodes NodeSet

	// Element definitions
	SingleTet     ElementSet
	SingleHex     ElementSet
	SinglePrism   ElementSet
	SinglePyramid ElementSet

	// Complete mesh definitions
	TwoTetMesh    CompleteMesh
	MixedMesh     CompleteMesh
	CubeMesh      CompleteMesh
	TwoQuadMesh   CompleteMesh
	LineChainMesh CompleteMesh
}

// NodeSet represents a set of nodes with their coordinates
type NodeSet struct {
	Nodes     [][]float64    // Coordinates [N][3]
	NodeMap   map[string]int // Logical name -> array index
	NodeIDMap map[string]int // Logical name -> node ID (1-based, as in mesh files)
}

// ElementSet represents a set of elements with connectivity
type ElementSet struct {
	Type       types.CellType
	Elements   [][]string     // Connectivity using logical node names
	Properties []ElementProps // Additional properties per element
}

// ElementProps holds additional element properties
type ElementProps struct {
	PhysicalTag  int
	GeometricTag int
}

// CompleteMesh represents a complete mesh with nodes and elements
type CompleteMesh struct {
	Nodes     NodeSet
	Elements  []ElementSet
	Dimension int
}

// GetStandardTestMeshes returns a set of standard test meshes
func GetStandardTestMeshes() *TestMeshes {
	tm := &TestMeshes{}

	tm.CubeNodes = createCubeNodes()
	tm.TetraNodes = createTetraNodes()

	tm.SingleTet = createSingleTet()
	tm.SingleHex = createSingleHex()
	tm.SinglePrism = createSinglePrism()
	tm.SinglePyramid = createSinglePyramid()

	tm.TwoTetMesh = createTwoTetMesh()
	tm.MixedMesh = createMixedMesh()
	tm.CubeMesh = createCubeMesh()
	tm.TwoQuadMesh = createTwoQuadMesh()
	tm.LineChainMesh = createLineChainMesh()

	return tm
}

func newNodeSet(nodes [][]float64, nodeMap map[string]int) NodeSet {
	nodeIDMap := make(map[string]int)
	for name, idx := range nodeMap {
		nodeIDMap[name] = idx + 1
	}
	return NodeSet{
		Nodes:     nodes,
		NodeMap:   nodeMap,
		NodeIDMap: nodeIDMap,
	}
}

// Node set creators

func createCubeNodes() NodeSet {
	nodes := [][]float64{
		{0, 0, 0}, // 0: origin
		{1, 0, 0}, // 1: x
		{1, 1, 0}, // 2: xy
		{0, 1, 0}, // 3: y
		{0, 0, 1}, // 4: z
		{1, 0, 1}, // 5: xz
		{1, 1, 1}, // 6: xyz
		{0, 1, 1}, // 7: yz
		// Cube center, apex of the inner tetrahedra
		{0.5, 0.5, 0.5}, // 8: center
	}
	return newNodeSet(nodes, map[string]int{
		"origin": 0, "x": 1, "xy": 2, "y": 3,
		"z": 4, "xz": 5, "xyz": 6, "yz": 7,
		"center": 8,
	})
}

func createTetraNodes() NodeSet {
	// Standard tetrahedron with vertices at:
	// (0,0,0), (1,0,0), (0,1,0), (0,0,1)
	nodes := [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	return newNodeSet(nodes, map[string]int{
		"v0": 0, "v1": 1, "v2": 2, "v3": 3,
	})
}

// Element set creators

func singleElement(ct types.CellType, names ...string) ElementSet {
	return ElementSet{
		Type:       ct,
		Elements:   [][]string{names},
		Properties: []ElementProps{{PhysicalTag: 1, GeometricTag: 1}},
	}
}

func createSingleTet() ElementSet {
	return singleElement(types.Tet, "v0", "v1", "v2", "v3")
}

func createSingleHex() ElementSet {
	return singleElement(types.Hex, "origin", "x", "xy", "y", "z", "xz", "xyz", "yz")
}

func createSinglePrism() ElementSet {
	return singleElement(types.Prism, "origin", "x", "y", "z", "xz", "yz")
}

func createSinglePyramid() ElementSet {
	return singleElement(types.Pyramid, "origin", "x", "xy", "y", "center")
}

// Complete mesh creators

func createTwoTetMesh() CompleteMesh {
	// Two tetrahedra sharing the face v1 v2 v3
	nodes := newNodeSet([][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	}, map[string]int{
		"v0": 0, "v1": 1, "v2": 2, "v3": 3, "v4": 4,
	})

	elements := []ElementSet{
		{
			Type: types.Tet,
			Elements: [][]string{
				{"v0", "v1", "v2", "v3"},
				{"v1", "v2", "v3", "v4"},
			},
			Properties: []ElementProps{
				{PhysicalTag: 1, GeometricTag: 1},
				{PhysicalTag: 2, GeometricTag: 2},
			},
		},
	}

	return CompleteMesh{
		Nodes:     nodes,
		Elements:  elements,
		Dimension: 3,
	}
}

func createMixedMesh() CompleteMesh {
	// One of each volume type, a boundary face and a ball marker
	nodes := createCubeNodes()

	elements := []ElementSet{
		{
			Type: types.Tet,
			Elements: [][]string{
				{"origin", "x", "y", "z"},
				{"x", "xy", "y", "center"},
			},
		},
		{
			Type: types.Hex,
			Elements: [][]string{
				{"origin", "x", "xy", "y", "z", "xz", "xyz", "yz"},
			},
		},
		{
			Type: types.Prism,
			Elements: [][]string{
				{"origin", "x", "y", "z", "xz", "yz"},
			},
		},
		{
			Type: types.Pyramid,
			Elements: [][]string{
				{"origin", "x", "xy", "y", "center"},
			},
		},
		{
			Type: types.Quad,
			Elements: [][]string{
				{"z", "xz", "xyz", "yz"},
			},
		},
		{
			Type: types.Ball,
			Elements: [][]string{
				{"center"},
			},
		},
	}

	for i := range elements {
		for range elements[i].Elements {
			elements[i].Properties = append(elements[i].Properties,
				ElementProps{PhysicalTag: 10, GeometricTag: 1})
		}
	}

	return CompleteMesh{
		Nodes:     nodes,
		Elements:  elements,
		Dimension: 3,
	}
}

func createCubeMesh() CompleteMesh {
	// The unit cube split into 12 tetrahedra around its center, two per side
	nodes := createCubeNodes()

	sides := [][4]string{
		{"origin", "y", "xy", "x"},
		{"z", "xz", "xyz", "yz"},
		{"origin", "x", "xz", "z"},
		{"x", "xy", "xyz", "xz"},
		{"xy", "y", "yz", "xyz"},
		{"y", "origin", "z", "yz"},
	}
	set := ElementSet{Type: types.Tet}
	for _, q := range sides {
		set.Elements = append(set.Elements,
			[]string{q[0], q[1], q[2], "center"},
			[]string{q[0], q[2], q[3], "center"})
		set.Properties = append(set.Properties,
			ElementProps{PhysicalTag: 1, GeometricTag: 1},
			ElementProps{PhysicalTag: 1, GeometricTag: 1})
	}

	return CompleteMesh{
		Nodes:     nodes,
		Elements:  []ElementSet{set},
		Dimension: 3,
	}
}

func createTwoQuadMesh() CompleteMesh {
	// Two quads sharing the edge b1 t1, with the shared edge also a line cell
	nodes := newNodeSet([][]float64{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
		{0, 1, 0}, {1, 1, 0}, {2, 1, 0},
	}, map[string]int{
		"b0": 0, "b1": 1, "b2": 2,
		"t0": 3, "t1": 4, "t2": 5,
	})

	elements := []ElementSet{
		{
			Type: types.Quad,
			Elements: [][]string{
				{"b0", "b1", "t1", "t0"},
				{"b1", "b2", "t2", "t1"},
			},
			Properties: []ElementProps{
				{PhysicalTag: 1, GeometricTag: 1},
				{PhysicalTag: 1, GeometricTag: 1},
			},
		},
		{
			Type: types.Line,
			Elements: [][]string{
				{"t1", "b1"},
			},
			Properties: []ElementProps{
				{PhysicalTag: 2, GeometricTag: 2},
			},
		},
	}

	return CompleteMesh{
		Nodes:     nodes,
		Elements:  elements,
		Dimension: 2,
	}
}

func createLineChainMesh() CompleteMesh {
	// Three segments end to end with point markers on both ends
	nodes := newNodeSet([][]float64{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0},
	}, map[string]int{
		"p0": 0, "p1": 1, "p2": 2, "p3": 3,
	})

	elements := []ElementSet{
		{
			Type: types.Line,
			Elements: [][]string{
				{"p0", "p1"},
				{"p1", "p2"},
				{"p2", "p3"},
			},
		},
		{
			Type: types.Point,
			Elements: [][]string{
				{"p0"},
				{"p3"},
			},
		},
	}

	return CompleteMesh{
		Nodes:     nodes,
		Elements:  elements,
		Dimension: 1,
	}
}

// Conversion helpers

// ConvertToGrid loads a CompleteMesh into a new Grid. Nodes are added in node
// set index order, cells in element set order. The returned map gives the
// NodeID of every logical node name.
func (cm *CompleteMesh) ConvertToGrid(opts ...Option) (g *Grid, names map[string]NodeID, err error) {
	g = NewGrid(opts...)

	order := make([]string, 0, len(cm.Nodes.NodeMap))
	for name := range cm.Nodes.NodeMap {
		order = append(order, name)
	}
	slices.SortFunc(order, func(a, b string) int {
		return cm.Nodes.NodeMap[a] - cm.Nodes.NodeMap[b]
	})
	names = make(map[string]NodeID, len(order))
	first := g.AddNodes(len(order))
	for i, name := range order {
		names[name] = first + NodeID(i)
	}

	for _, elemSet := range cm.Elements {
		for _, elemNodes := range elemSet.Elements {
			nodeIDs := make([]NodeID, len(elemNodes))
			for j, nodeName := range elemNodes {
				id, ok := names[nodeName]
				if !ok {
					return nil, nil, fmt.Errorf("unknown node name %q", nodeName)
				}
				nodeIDs[j] = id
			}
			if _, err = g.AddCell(elemSet.Type, nodeIDs); err != nil {
				return nil, nil, err
			}
		}
	}
	return
}

// MustConvertToGrid is ConvertToGrid for fixtures known to be valid
func (cm *CompleteMesh) MustConvertToGrid(opts ...Option) (*Grid, map[string]NodeID) {
	g, names, err := cm.ConvertToGrid(opts...)
	if err != nil {
		panic(err)
	}
	return g, names
}

// Validation helpers

// ValidateElementConnectivity checks the node lists of cells 0..len(expected)-1
func ValidateElementConnectivity(g *Grid, expected [][]NodeID) error {
	if g.NumCells() != len(expected) {
		return fmt.Errorf("element count mismatch: got %d, expected %d", g.NumCells(), len(expected))
	}

	for i := range expected {
		nodes, err := g.CellNodes(CellID(i))
		if err != nil {
			return err
		}
		if !slices.Equal(nodes, expected[i]) {
			return fmt.Errorf("element %d: got %v, expected %v", i, nodes, expected[i])
		}
	}

	return nil
}
