package mesh

import (
	"fmt"
	"io"
	"slices"

	"github.com/notargets/meshgrid/types"
)

// Statistics is a snapshot of the grid contents
type Statistics struct {
	Nodes, Cells  int
	MaxNodeID     NodeID
	MaxCellID     CellID
	CellsByType   map[types.CellType]int
	LinksState    ViewState
	DownwardState ViewState
	SubEntities   int
	SkinByDim     map[int]int // skin sub-entities per dimension, when downward is built
}

func (g *Grid) Statistics() (st Statistics) {
	st = Statistics{
		Nodes:         g.numNodes,
		Cells:         g.numCells,
		MaxNodeID:     g.MaxNodeID(),
		MaxCellID:     g.MaxCellID(),
		CellsByType:   make(map[types.CellType]int),
		LinksState:    g.links.state,
		DownwardState: g.down.state,
		SkinByDim:     make(map[int]int),
	}
	for c, ct := range g.cellTypes {
		if g.cellAlive[c] {
			st.CellsByType[ct]++
		}
	}
	if g.down.state == Built {
		st.SubEntities = len(g.down.subs)
		for _, sub := range g.down.subs {
			if len(sub.parents) == 1 {
				st.SkinByDim[sub.dim]++
			}
		}
	}
	return
}

// Print writes the statistics in a human readable form
func (st Statistics) Print(w io.Writer) {
	fmt.Fprintf(w, "Grid Statistics:\n")
	fmt.Fprintf(w, "  Nodes: %d (max id %d)\n", st.Nodes, st.MaxNodeID)
	fmt.Fprintf(w, "  Cells: %d (max id %d)\n", st.Cells, st.MaxCellID)
	fmt.Fprintf(w, "  Cell types:\n")
	for _, ct := range types.AllCellTypes() {
		if count := st.CellsByType[ct]; count != 0 {
			fmt.Fprintf(w, "    %s: %d\n", ct, count)
		}
	}
	fmt.Fprintf(w, "  Link table: %s\n", st.LinksState)
	fmt.Fprintf(w, "  Downward index: %s\n", st.DownwardState)
	if st.DownwardState != Built {
		return
	}
	fmt.Fprintf(w, "  Sub-entities: %d\n", st.SubEntities)
	dims := make([]int, 0, len(st.SkinByDim))
	for dim := range st.SkinByDim {
		dims = append(dims, dim)
	}
	slices.Sort(dims)
	for _, dim := range dims {
		fmt.Fprintf(w, "  Skin sub-entities of dimension %d: %d\n", dim, st.SkinByDim[dim])
	}
}
