package mesh

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
	"unsafe"

	"github.com/james-bowman/sparse"

	"github.com/notargets/meshgrid/utils"
)

// LinkTable is the upward incidence view: for each node, the ids of the live
// cells whose node list contains it.
type LinkTable struct {
	state ViewState
	cells [][]CellID // indexed by NodeID
}

func (lt *LinkTable) State() ViewState { return lt.state }

// IncidentCells returns the cells touching node n, the slice is shared
func (lt *LinkTable) IncidentCells(n NodeID) (cells []CellID, err error) {
	if lt.state != Built {
		return nil, fmt.Errorf("link table is %s: %w", lt.state, ErrInconsistentState)
	}
	if n < 0 || int(n) >= len(lt.cells) {
		return nil, fmt.Errorf("node %d is outside the link table: %w", n, ErrInconsistentState)
	}
	return lt.cells[n], nil
}

// build assembles the node x cell incidence as a sparse matrix; column n of
// the compressed column form is the incidence list of node n.
func (lt *LinkTable) build(g *Grid) (err error) {
	var (
		nEntries int
		nNodes   = len(g.nodeAlive)
		nCells   = len(g.cellTypes)
	)
	for c := 0; c < nCells; c++ {
		if g.cellAlive[c] {
			nEntries += g.cellOffsets[c+1] - g.cellOffsets[c]
		}
	}
	// DOK map entry, CSC index, and the final list entry per incidence
	required := uint64(nEntries) * uint64(64+2*int(unsafe.Sizeof(int(0)))+int(unsafe.Sizeof(CellID(0))))
	if err = utils.CheckMemoryBudget(required, g.memoryBudget); err != nil {
		return fmt.Errorf("link table build: %v: %w", err, ErrAllocationFailure)
	}

	cells := make([][]CellID, nNodes)
	if nEntries != 0 {
		incidence := sparse.NewDOK(nCells, nNodes)
		for c := 0; c < nCells; c++ {
			if !g.cellAlive[c] {
				continue
			}
			for _, n := range g.cellNodes(CellID(c)) {
				incidence.Set(c, int(n), 1)
			}
		}
		raw := incidence.ToCSC().RawMatrix()
		for n := 0; n < nNodes; n++ {
			lo, hi := raw.Indptr[n], raw.Indptr[n+1]
			if lo == hi {
				continue
			}
			list := make([]CellID, hi-lo)
			for i, c := range raw.Ind[lo:hi] {
				list[i] = CellID(c)
			}
			slices.Sort(list)
			cells[n] = list
		}
	}
	lt.cells = cells
	lt.state = Built
	return
}

// insertIncremental appends c to the lists of its nodes, growing the table for
// nodes added since the build
func (lt *LinkTable) insertIncremental(c CellID, nodes []NodeID) {
	for _, n := range nodes {
		if int(n) >= len(lt.cells) {
			lt.cells = append(lt.cells, make([][]CellID, int(n)+1-len(lt.cells))...)
		}
		if l := lt.cells[n]; len(l) != 0 && l[len(l)-1] == c {
			continue // repeated node in one cell
		}
		lt.cells[n] = append(lt.cells[n], c)
	}
}

// addNodes gives nodes created after the build their empty incidence lists
func (lt *LinkTable) addNodes(count int) {
	if lt.state == Built {
		lt.cells = append(lt.cells, make([][]CellID, count)...)
	}
}

func (lt *LinkTable) remove(c CellID, n NodeID) {
	if int(n) < len(lt.cells) {
		lt.cells[n] = slices.DeleteFunc(lt.cells[n], func(x CellID) bool { return x == c })
	}
}

func (lt *LinkTable) clear() {
	lt.cells = nil
	lt.state = NotBuilt
}

// BuildLinks (re)builds the link table from every live cell
func (g *Grid) BuildLinks() (err error) {
	start := time.Now()
	if err = g.links.build(g); err != nil {
		return
	}
	dur := time.Since(start)
	g.metrics.observeBuild("links", dur)
	g.logger.Info("link table built",
		slog.Int("nodes", len(g.nodeAlive)),
		slog.Int("cells", g.numCells),
		slog.Duration("elapsed", dur))
	return
}

func (g *Grid) ClearLinks() { g.links.clear() }

func (g *Grid) Links() *LinkTable { return g.links }

func (g *Grid) IncidentCells(n NodeID) (cells []CellID, err error) {
	if err = g.checkNode(n); err != nil {
		return
	}
	var shared []CellID
	if shared, err = g.links.IncidentCells(n); err != nil {
		return
	}
	return slices.Clone(shared), nil
}
