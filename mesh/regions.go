package mesh

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Regions returns the connected components of the cell adjacency graph, cells
// joined when they share a sub-entity. Each region is sorted, regions are
// ordered by their lowest cell id.
func (g *Grid) Regions() (regions [][]CellID, err error) {
	if err = g.checkDownward(); err != nil {
		return
	}
	adj := simple.NewUndirectedGraph()
	for c, alive := range g.cellAlive {
		if alive {
			adj.AddNode(simple.Node(c))
		}
	}
	for _, sub := range g.down.subs {
		for i := 1; i < len(sub.parents); i++ {
			from, to := sub.parents[0], sub.parents[i]
			if from == to || adj.HasEdgeBetween(int64(from), int64(to)) {
				continue
			}
			adj.SetEdge(adj.NewEdge(simple.Node(from), simple.Node(to)))
		}
	}
	for _, cc := range topo.ConnectedComponents(adj) {
		region := make([]CellID, len(cc))
		for i, n := range cc {
			region[i] = CellID(n.ID())
		}
		slices.Sort(region)
		regions = append(regions, region)
	}
	slices.SortFunc(regions, func(a, b []CellID) int { return int(a[0] - b[0]) })
	return
}
