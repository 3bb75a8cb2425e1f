package mesh

import "slices"

// SubMesh is a caller-owned set of node and cell ids, such as a physical group
// read from a mesh file. It follows a compaction through Remap.
type SubMesh struct {
	Name  string
	Nodes []NodeID
	Cells []CellID
}

func NewSubMesh(name string) *SubMesh {
	return &SubMesh{Name: name}
}

func (sm *SubMesh) AddNode(n NodeID) {
	if !slices.Contains(sm.Nodes, n) {
		sm.Nodes = append(sm.Nodes, n)
	}
}

func (sm *SubMesh) AddCell(c CellID) {
	if !slices.Contains(sm.Cells, c) {
		sm.Cells = append(sm.Cells, c)
	}
}

func (sm *SubMesh) ContainsCell(c CellID) bool { return slices.Contains(sm.Cells, c) }

func (sm *SubMesh) ContainsNode(n NodeID) bool { return slices.Contains(sm.Nodes, n) }

// Remap translates the held ids through cm, ids dropped by the compaction are
// removed from the set
func (sm *SubMesh) Remap(cm CompactionMap) {
	nodes := sm.Nodes[:0]
	for _, n := range sm.Nodes {
		if nn := cm.NewNode(n); nn != Removed {
			nodes = append(nodes, nn)
		}
	}
	sm.Nodes = nodes
	cells := sm.Cells[:0]
	for _, c := range sm.Cells {
		if nc := cm.NewCell(c); nc != Removed {
			cells = append(cells, nc)
		}
	}
	sm.Cells = cells
}

// AddCellNodes adds the nodes of every held cell to the node set
func (sm *SubMesh) AddCellNodes(g *Grid) (err error) {
	for _, c := range sm.Cells {
		var nodes []NodeID
		if nodes, err = g.CellNodes(c); err != nil {
			return
		}
		for _, n := range nodes {
			sm.AddNode(n)
		}
	}
	return
}
