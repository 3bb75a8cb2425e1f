package mesh

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/notargets/meshgrid/types"
	"github.com/notargets/meshgrid/utils"
)

// subEntity is a boundary piece shared by every cell that touches it
type subEntity struct {
	dim     int
	nodes   []NodeID // in the orientation of the first cell that produced it
	parents []CellID // cells of dimension dim+1 bounded by it
	users   []CellID // volumes listing it as an edge
	cell    CellID   // first-class cell with the same nodes, or Removed
}

// Downward is the downward connectivity view: each cell's ordered list of
// boundary sub-entities, with sub-entities deduplicated on their node set.
type Downward struct {
	state     ViewState
	withEdges bool
	subs      []subEntity
	cellSubs  [][]SubEntityID // indexed by CellID, template order
	cellEdges [][]SubEntityID // volumes only, when built with edges
	cellToSub []SubEntityID   // first-class cell to its sub-entity, or Removed
}

func (d *Downward) State() ViewState    { return d.state }
func (d *Downward) WithEdges() bool     { return d.withEdges }
func (d *Downward) NumSubEntities() int { return len(d.subs) }

func (d *Downward) clear() {
	*d = Downward{}
}

// subKeyer identifies a sub-entity by dimension and sorted node set. Linear
// edges use the packed EdgeKey, everything else a string key.
type subKeyer struct {
	edges  map[types.EdgeKey]SubEntityID
	others map[string]SubEntityID
	sb     strings.Builder
	sorted []NodeID
}

func newSubKeyer(sizeHint int) *subKeyer {
	return &subKeyer{
		edges:  make(map[types.EdgeKey]SubEntityID, sizeHint),
		others: make(map[string]SubEntityID, sizeHint),
	}
}

func (sk *subKeyer) lookup(dim int, nodes []NodeID, next SubEntityID) (s SubEntityID, found bool) {
	if dim == 1 && len(nodes) == 2 {
		ek := types.NewEdgeKey([2]int{int(nodes[0]), int(nodes[1])})
		if s, found = sk.edges[ek]; !found {
			sk.edges[ek] = next
			s = next
		}
		return
	}
	sk.sorted = append(sk.sorted[:0], nodes...)
	slices.Sort(sk.sorted)
	sk.sb.Reset()
	sk.sb.WriteString(strconv.Itoa(dim))
	for _, n := range sk.sorted {
		sk.sb.WriteByte(':')
		sk.sb.WriteString(strconv.Itoa(int(n)))
	}
	key := sk.sb.String()
	if s, found = sk.others[key]; !found {
		sk.others[key] = next
		s = next
	}
	return
}

func (d *Downward) subFor(sk *subKeyer, dim int, nodes []NodeID) SubEntityID {
	s, found := sk.lookup(dim, nodes, SubEntityID(len(d.subs)))
	if !found {
		d.subs = append(d.subs, subEntity{dim: dim, nodes: nodes, cell: Removed})
	}
	return s
}

func appendOnce(list []CellID, c CellID) []CellID {
	if len(list) != 0 && list[len(list)-1] == c {
		return list
	}
	return append(list, c)
}

func (d *Downward) build(g *Grid, withEdges bool) (err error) {
	var (
		nCells  = len(g.cellTypes)
		nPieces int
	)
	for c := 0; c < nCells; c++ {
		if !g.cellAlive[c] || g.cellTypes[c].GetDimension() < 1 {
			continue
		}
		nPieces += len(g.boundaryTemplate(CellID(c)))
		if withEdges && g.cellTypes[c].GetDimension() == 3 {
			nPieces += len(g.edgeTemplate(CellID(c)))
		}
	}
	// map entry, sub-entity record and per-cell id for every enumerated piece
	if err = utils.CheckMemoryBudget(uint64(nPieces)*160, g.memoryBudget); err != nil {
		return fmt.Errorf("downward build: %v: %w", err, ErrAllocationFailure)
	}

	var (
		nd = Downward{
			withEdges: withEdges,
			cellSubs:  make([][]SubEntityID, nCells),
			cellToSub: make([]SubEntityID, nCells),
		}
		sk = newSubKeyer(nPieces / 2)
	)
	if withEdges {
		nd.cellEdges = make([][]SubEntityID, nCells)
	}
	for c := 0; c < nCells; c++ {
		nd.cellToSub[c] = Removed
		if !g.cellAlive[c] {
			continue
		}
		dim := g.cellTypes[c].GetDimension()
		if dim < 1 {
			continue
		}
		var (
			cid   = CellID(c)
			nodes = g.cellNodes(cid)
			tmpl  = g.boundaryTemplate(cid)
		)
		nd.cellSubs[c] = make([]SubEntityID, len(tmpl))
		for i, local := range tmpl {
			s := nd.subFor(sk, dim-1, pick(nodes, local))
			nd.subs[s].parents = appendOnce(nd.subs[s].parents, cid)
			nd.cellSubs[c][i] = s
		}
		if withEdges && dim == 3 {
			etmpl := g.edgeTemplate(cid)
			nd.cellEdges[c] = make([]SubEntityID, len(etmpl))
			for i, local := range etmpl {
				s := nd.subFor(sk, 1, pick(nodes, local))
				nd.subs[s].users = appendOnce(nd.subs[s].users, cid)
				nd.cellEdges[c][i] = s
			}
		}
	}
	nd.resolveCells(g)
	nd.state = Built
	*d = nd
	return
}

// resolveCells pairs sub-entities with first-class cells having the same
// dimension and node set, found among the cells incident on the first node
func (d *Downward) resolveCells(g *Grid) {
	for s := range d.subs {
		sub := &d.subs[s]
		for _, c := range g.links.cells[sub.nodes[0]] {
			// Ball markers carry a diameter, they do not stand for a vertex
			if g.cellTypes[c].GetDimension() != sub.dim || g.cellTypes[c] == types.Ball {
				continue
			}
			if sameNodeSet(g.cellNodes(c), sub.nodes) {
				sub.cell = c
				d.cellToSub[c] = SubEntityID(s)
				break
			}
		}
	}
}

func sameNodeSet(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := slices.Clone(a), slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)
	return slices.Equal(sa, sb)
}

// BuildDownward (re)builds the downward index. The link table must be built.
// With edges, volumes also get their edge sub-entities, shared with the edges
// of face cells.
func (g *Grid) BuildDownward(withEdges bool) (err error) {
	if g.links.state != Built {
		return fmt.Errorf("downward build needs the link table, which is %s: %w",
			g.links.state, ErrInconsistentState)
	}
	start := time.Now()
	if err = g.down.build(g, withEdges); err != nil {
		return
	}
	dur := time.Since(start)
	g.metrics.observeBuild("downward", dur)
	g.metrics.setSubEntities(len(g.down.subs))
	g.logger.Info("downward index built",
		slog.Int("cells", g.numCells),
		slog.Int("subEntities", len(g.down.subs)),
		slog.Bool("withEdges", withEdges),
		slog.Duration("elapsed", dur))
	return
}

func (g *Grid) ClearDownward() { g.down.clear() }

func (g *Grid) Downward() *Downward { return g.down }

func (g *Grid) checkDownward() error {
	if g.down.state != Built {
		return fmt.Errorf("downward index is %s: %w", g.down.state, ErrInconsistentState)
	}
	return nil
}

func (g *Grid) checkSub(s SubEntityID) (err error) {
	if err = g.checkDownward(); err != nil {
		return
	}
	if s < 0 || int(s) >= len(g.down.subs) {
		return fmt.Errorf("sub-entity %d does not exist: %w", s, ErrInconsistentState)
	}
	return
}

// SubEntities returns the boundary sub-entities of a cell in template order,
// empty for 0-D cells
func (g *Grid) SubEntities(c CellID) (subs []SubEntityID, err error) {
	if err = g.checkDownward(); err != nil {
		return
	}
	if err = g.checkCell(c); err != nil {
		return
	}
	return slices.Clone(g.down.cellSubs[c]), nil
}

// Edges returns the edge sub-entities of a volume, available when the index
// was built with edges
func (g *Grid) Edges(c CellID) (edges []SubEntityID, err error) {
	if err = g.checkDownward(); err != nil {
		return
	}
	if err = g.checkCell(c); err != nil {
		return
	}
	if !g.down.withEdges {
		return nil, fmt.Errorf("downward index was built without edges: %w", ErrInconsistentState)
	}
	switch g.cellTypes[c].GetDimension() {
	case 2:
		return slices.Clone(g.down.cellSubs[c]), nil // the boundary of a face is its edges
	case 3:
		return slices.Clone(g.down.cellEdges[c]), nil
	}
	return
}

// CellIDOf returns the first-class cell lying on sub-entity s, or Removed
func (g *Grid) CellIDOf(s SubEntityID) (c CellID, err error) {
	if err = g.checkSub(s); err != nil {
		return Removed, err
	}
	return g.down.subs[s].cell, nil
}

// SubEntityOfCell returns the sub-entity a lower dimensional cell lies on, or
// Removed when no cell is bounded by it
func (g *Grid) SubEntityOfCell(c CellID) (s SubEntityID, err error) {
	if err = g.checkDownward(); err != nil {
		return Removed, err
	}
	if err = g.checkCell(c); err != nil {
		return Removed, err
	}
	return g.down.cellToSub[c], nil
}

// NodeIDsOf returns the nodes backing a sub-entity
func (g *Grid) NodeIDsOf(s SubEntityID) (nodes []NodeID, err error) {
	if err = g.checkSub(s); err != nil {
		return
	}
	return slices.Clone(g.down.subs[s].nodes), nil
}

func (g *Grid) SubEntityDimension(s SubEntityID) (dim int, err error) {
	if err = g.checkSub(s); err != nil {
		return -1, err
	}
	return g.down.subs[s].dim, nil
}

// SubEntityParents returns every cell bounded by s
func (g *Grid) SubEntityParents(s SubEntityID) (parents []CellID, err error) {
	if err = g.checkSub(s); err != nil {
		return
	}
	return slices.Clone(g.down.subs[s].parents), nil
}

// VolumesOfEdge returns the volumes listing s among their edges
func (g *Grid) VolumesOfEdge(s SubEntityID) (volumes []CellID, err error) {
	if err = g.checkSub(s); err != nil {
		return
	}
	return slices.Clone(g.down.subs[s].users), nil
}

// IsSkin reports whether s bounds exactly one cell
func (g *Grid) IsSkin(s SubEntityID) (skin bool, err error) {
	if err = g.checkSub(s); err != nil {
		return
	}
	return len(g.down.subs[s].parents) == 1, nil
}
