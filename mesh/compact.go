package mesh

import (
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/notargets/meshgrid/types"
	"github.com/notargets/meshgrid/utils"
)

// CompactionMap carries the old to new id assignment of a compaction. Anyone
// holding raw node or cell ids across Compact must translate them through it.
type CompactionMap struct {
	Nodes []NodeID // indexed by old NodeID, Removed for dropped nodes
	Cells []CellID // indexed by old CellID, Removed for dropped cells
}

func (cm CompactionMap) NewNode(n NodeID) NodeID {
	if n < 0 || int(n) >= len(cm.Nodes) {
		return Removed
	}
	return cm.Nodes[n]
}

func (cm CompactionMap) NewCell(c CellID) CellID {
	if c < 0 || int(c) >= len(cm.Cells) {
		return Removed
	}
	return cm.Cells[c]
}

// Compact renumbers nodes and cells densely, dropping dead slots and those
// refused by the keep predicates (nil keeps everything alive). Kept cells are
// copied in runs, their node lists translated. Both adjacency views are
// cleared and must be rebuilt.
func (g *Grid) Compact(keepCell func(CellID) bool, keepNode func(NodeID) bool) (cm CompactionMap, err error) {
	start := time.Now()
	var (
		nNodes    = len(g.nodeAlive)
		nCells    = len(g.cellTypes)
		keptNodes int
		keptCells int
	)
	cm.Nodes = make([]NodeID, nNodes)
	for n := 0; n < nNodes; n++ {
		if g.nodeAlive[n] && (keepNode == nil || keepNode(NodeID(n))) {
			cm.Nodes[n] = NodeID(keptNodes)
			keptNodes++
		} else {
			cm.Nodes[n] = Removed
		}
	}
	var keptConn int
	cm.Cells = make([]CellID, nCells)
	for c := 0; c < nCells; c++ {
		cid := CellID(c)
		if !g.cellAlive[c] || (keepCell != nil && !keepCell(cid)) {
			cm.Cells[c] = Removed
			continue
		}
		for _, n := range g.cellNodes(cid) {
			if cm.Nodes[n] == Removed {
				return CompactionMap{}, fmt.Errorf("kept cell %d uses dropped node %d: %w",
					c, n, ErrInconsistentState)
			}
		}
		cm.Cells[c] = CellID(keptCells)
		keptCells++
		keptConn += g.cellOffsets[c+1] - g.cellOffsets[c]
	}
	required := uint64(keptCells)*uint64(2+unsafe.Sizeof(int(0))) +
		uint64(keptConn)*uint64(unsafe.Sizeof(NodeID(0))) + uint64(keptNodes)
	if err = utils.CheckMemoryBudget(required, g.memoryBudget); err != nil {
		return CompactionMap{}, fmt.Errorf("compaction: %v: %w", err, ErrAllocationFailure)
	}

	var (
		cellTypes    = make([]types.CellType, 0, keptCells)
		cellOffsets  = make([]int, 1, keptCells+1)
		connectivity = make([]NodeID, 0, keptConn)
		cellAlive    = make([]bool, keptCells)
		polyFaces    = make(map[CellID][][]int, len(g.polyFaces))
		nodeAlive    = make([]bool, keptNodes)
	)
	for c := 0; c < nCells; {
		if cm.Cells[c] == Removed {
			c++
			continue
		}
		end := c + 1
		for end < nCells && cm.Cells[end] != Removed {
			end++
		}
		var (
			lo, hi = g.cellOffsets[c], g.cellOffsets[end]
			base   = len(connectivity)
		)
		cellTypes = append(cellTypes, g.cellTypes[c:end]...)
		for _, n := range g.connectivity[lo:hi] {
			connectivity = append(connectivity, cm.Nodes[n])
		}
		for k := c + 1; k <= end; k++ {
			cellOffsets = append(cellOffsets, g.cellOffsets[k]-lo+base)
		}
		c = end
	}
	for c := range cellAlive {
		cellAlive[c] = true
	}
	for n := range nodeAlive {
		nodeAlive[n] = true
	}
	for c, faces := range g.polyFaces {
		if nc := cm.Cells[c]; nc != Removed {
			polyFaces[nc] = faces
		}
	}
	if g.balls != nil {
		g.balls.remap(cm.Cells, keptCells)
	}

	g.nodeAlive, g.numNodes = nodeAlive, keptNodes
	g.cellTypes, g.cellOffsets, g.connectivity = cellTypes, cellOffsets, connectivity
	g.cellAlive, g.numCells = cellAlive, keptCells
	g.polyFaces = polyFaces
	g.links.clear()
	g.down.clear()

	dur := time.Since(start)
	g.metrics.observeBuild("compact", dur)
	g.metrics.setCounts(keptNodes, keptCells)
	g.logger.Info("grid compacted",
		slog.Int("nodes", keptNodes),
		slog.Int("droppedNodes", nNodes-keptNodes),
		slog.Int("cells", keptCells),
		slog.Int("droppedCells", nCells-keptCells),
		slog.Duration("elapsed", dur))
	return
}
