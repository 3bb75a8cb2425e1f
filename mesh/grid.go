// Package mesh implements the unstructured mesh connectivity engine: a flat
// node/cell store with an upward link table and a downward sub-entity index
// built on demand over it.
//
// The engine performs no locking. One mutation at a time, serialized by the
// owner; read queries may run concurrently with each other once the views they
// use are built.
package mesh

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/notargets/meshgrid/types"
)

type (
	NodeID      int
	CellID      int
	SubEntityID int
)

// Removed marks an id that no longer exists, in compaction maps and lookups
const Removed = -1

// ViewState is the lifecycle of a derived adjacency view
type ViewState uint8

const (
	NotBuilt ViewState = iota
	Built
	Invalidated // was built, a structural mutation happened since
)

func (vs ViewState) String() string {
	return [...]string{"NotBuilt", "Built", "Invalidated"}[vs]
}

// invalidate performs the transition taken on any structural mutation
func (vs *ViewState) invalidate() {
	if *vs == Built {
		*vs = Invalidated
	}
}

const (
	DefaultMaxNodesPerCell = 5000 // allows very large polyhedra
	DefaultMaxNeighbors    = 100
)

// Limits are the hard caps enforced as preconditions
type Limits struct {
	MaxNodesPerCell int
	MaxNeighbors    int
}

func DefaultLimits() Limits {
	return Limits{
		MaxNodesPerCell: DefaultMaxNodesPerCell,
		MaxNeighbors:    DefaultMaxNeighbors,
	}
}

type Option func(g *Grid)

// WithLimits overrides the hard caps, zero fields keep their defaults
func WithLimits(l Limits) Option {
	return func(g *Grid) {
		if l.MaxNodesPerCell > 0 {
			g.limits.MaxNodesPerCell = l.MaxNodesPerCell
		}
		if l.MaxNeighbors > 0 {
			g.limits.MaxNeighbors = l.MaxNeighbors
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Grid) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(g *Grid) { g.metrics = m }
}

// WithMemoryBudget bounds the heap a bulk build or compaction may grow to
func WithMemoryBudget(bytes uint64) Option {
	return func(g *Grid) { g.memoryBudget = bytes }
}

// Grid is the node/cell store and owner of the two adjacency views
type Grid struct {
	id           uuid.UUID
	limits       Limits
	logger       *slog.Logger
	metrics      *Metrics
	memoryBudget uint64

	// Nodes
	nodeAlive []bool
	numNodes  int

	// Cells, node lists of cell c are connectivity[cellOffsets[c]:cellOffsets[c+1]]
	cellTypes    []types.CellType
	cellOffsets  []int
	connectivity []NodeID
	cellAlive    []bool
	numCells     int
	polyFaces    map[CellID][][]int // local face templates of polyhedra

	links *LinkTable
	down  *Downward
	balls *BallDiameters // nil until the first ball
}

func NewGrid(opts ...Option) (g *Grid) {
	g = &Grid{
		id:          uuid.New(),
		limits:      DefaultLimits(),
		logger:      slog.Default(),
		cellOffsets: []int{0},
		polyFaces:   make(map[CellID][][]int),
		links:       &LinkTable{},
		down:        &Downward{},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(slog.String("grid", g.id.String()))
	return
}

func (g *Grid) ID() uuid.UUID     { return g.id }
func (g *Grid) Limits() Limits    { return g.limits }
func (g *Grid) NumNodes() int     { return g.numNodes }
func (g *Grid) NumCells() int     { return g.numCells }
func (g *Grid) MaxNodeID() NodeID { return NodeID(len(g.nodeAlive)) }
func (g *Grid) MaxCellID() CellID { return CellID(len(g.cellTypes)) }

// AddNode allocates the next node id. New nodes have no incident cells, so
// the adjacency views stay valid.
func (g *Grid) AddNode() (n NodeID) {
	n = NodeID(len(g.nodeAlive))
	g.nodeAlive = append(g.nodeAlive, true)
	g.numNodes++
	g.links.addNodes(1)
	return
}

// AddNodes allocates count consecutive node ids and returns the first one
func (g *Grid) AddNodes(count int) (first NodeID) {
	first = NodeID(len(g.nodeAlive))
	g.nodeAlive = slices.Grow(g.nodeAlive, count)
	for i := 0; i < count; i++ {
		g.nodeAlive = append(g.nodeAlive, true)
	}
	g.numNodes += count
	g.links.addNodes(count)
	return
}

func (g *Grid) IsNodeAlive(n NodeID) bool {
	return n >= 0 && int(n) < len(g.nodeAlive) && g.nodeAlive[n]
}

func (g *Grid) IsCellAlive(c CellID) bool {
	return c >= 0 && int(c) < len(g.cellAlive) && g.cellAlive[c]
}

func (g *Grid) checkNode(n NodeID) error {
	if !g.IsNodeAlive(n) {
		return fmt.Errorf("node %d does not exist: %w", n, ErrInconsistentState)
	}
	return nil
}

func (g *Grid) checkCell(c CellID) error {
	if !g.IsCellAlive(c) {
		return fmt.Errorf("cell %d does not exist: %w", c, ErrInconsistentState)
	}
	return nil
}

func (g *Grid) validateCell(ct types.CellType, nodes []NodeID) (err error) {
	switch {
	case !ct.IsValid():
		err = fmt.Errorf("cell type code %d: %w", ct, ErrInvalidType)
	case len(nodes) > g.limits.MaxNodesPerCell:
		g.metrics.reject("nodes_per_cell")
		err = fmt.Errorf("%s with %d nodes, limit is %d: %w",
			ct, len(nodes), g.limits.MaxNodesPerCell, ErrCapacityExceeded)
	case ct == types.Polyhedron:
		err = fmt.Errorf("polyhedra are defined by their faces, use AddPolyhedron: %w", ErrInvalidType)
	case !ct.ValidArity(len(nodes)):
		err = fmt.Errorf("%s cannot have %d nodes: %w", ct, len(nodes), ErrInvalidType)
	}
	if err != nil {
		return
	}
	for _, n := range nodes {
		if err = g.checkNode(n); err != nil {
			return
		}
	}
	return
}

func (g *Grid) appendCell(ct types.CellType, nodes []NodeID) (c CellID) {
	c = CellID(len(g.cellTypes))
	g.cellTypes = append(g.cellTypes, ct)
	g.connectivity = append(g.connectivity, nodes...)
	g.cellOffsets = append(g.cellOffsets, len(g.connectivity))
	g.cellAlive = append(g.cellAlive, true)
	g.numCells++
	if ct == types.Ball {
		if g.balls == nil {
			g.balls = &BallDiameters{}
		}
		g.balls.Allocate(c)
	}
	return
}

func (g *Grid) invalidateViews() {
	if g.links.state == Built || g.down.state == Built {
		g.logger.Debug("adjacency views invalidated",
			slog.String("links", g.links.state.String()),
			slog.String("downward", g.down.state.String()))
	}
	g.links.state.invalidate()
	g.down.state.invalidate()
}

// AddCell inserts a cell and returns its id. Both adjacency views are
// invalidated.
func (g *Grid) AddCell(ct types.CellType, nodes []NodeID) (c CellID, err error) {
	if err = g.validateCell(ct, nodes); err != nil {
		return Removed, err
	}
	c = g.appendCell(ct, nodes)
	g.invalidateViews()
	return
}

// AddLinkedCell inserts a cell and, when the link table is built, appends the
// cell to the incidence lists of its nodes so that the table stays built.
// The downward index is invalidated.
func (g *Grid) AddLinkedCell(ct types.CellType, nodes []NodeID) (c CellID, err error) {
	if err = g.validateCell(ct, nodes); err != nil {
		return Removed, err
	}
	c = g.appendCell(ct, nodes)
	if g.links.state == Built {
		g.links.insertIncremental(c, nodes)
	} else {
		g.links.state.invalidate()
	}
	g.down.state.invalidate()
	return
}

// AddPolyhedron inserts a polyhedron given by its faces, each an ordered node
// loop. The cell stores its distinct nodes, the face stream length counts
// against the node cap.
func (g *Grid) AddPolyhedron(faces [][]NodeID) (c CellID, err error) {
	var streamLen int
	for _, f := range faces {
		streamLen += len(f)
	}
	switch {
	case streamLen > g.limits.MaxNodesPerCell:
		g.metrics.reject("nodes_per_cell")
		return Removed, fmt.Errorf("polyhedron face stream of %d nodes, limit is %d: %w",
			streamLen, g.limits.MaxNodesPerCell, ErrCapacityExceeded)
	case len(faces) < 4:
		return Removed, fmt.Errorf("polyhedron with %d faces: %w", len(faces), ErrInvalidType)
	}
	var (
		nodes []NodeID
		local = make(map[NodeID]int)
		tmpl  = make([][]int, len(faces))
	)
	for i, f := range faces {
		if len(f) < 3 {
			return Removed, fmt.Errorf("polyhedron face %d with %d nodes: %w", i, len(f), ErrInvalidType)
		}
		tmpl[i] = make([]int, len(f))
		for j, n := range f {
			if err = g.checkNode(n); err != nil {
				return Removed, err
			}
			l, ok := local[n]
			if !ok {
				l = len(nodes)
				local[n] = l
				nodes = append(nodes, n)
			}
			tmpl[i][j] = l
		}
	}
	if !types.Polyhedron.ValidArity(len(nodes)) {
		return Removed, fmt.Errorf("polyhedron with %d distinct nodes: %w", len(nodes), ErrInvalidType)
	}
	c = g.appendCell(types.Polyhedron, nodes)
	g.polyFaces[c] = tmpl
	g.invalidateViews()
	return
}

// AddBall inserts a ball element on a node and records its diameter
func (g *Grid) AddBall(n NodeID, diameter float64) (c CellID, err error) {
	if c, err = g.AddCell(types.Ball, []NodeID{n}); err != nil {
		return
	}
	g.balls.Set(c, diameter)
	return
}

// RemoveCell marks the cell dead, the slot is reclaimed by Compact
func (g *Grid) RemoveCell(c CellID) (err error) {
	if err = g.checkCell(c); err != nil {
		return
	}
	g.cellAlive[c] = false
	g.numCells--
	g.invalidateViews()
	return
}

// RemoveNode marks the node dead. Nodes still used by a live cell are refused.
func (g *Grid) RemoveNode(n NodeID) (err error) {
	if err = g.checkNode(n); err != nil {
		return
	}
	if g.links.state == Built {
		if int(n) < len(g.links.cells) && len(g.links.cells[n]) != 0 {
			return fmt.Errorf("node %d is used by cell %d: %w", n, g.links.cells[n][0], ErrInconsistentState)
		}
	} else {
		for c := range g.cellTypes {
			if g.cellAlive[c] && slices.Contains(g.cellNodes(CellID(c)), n) {
				return fmt.Errorf("node %d is used by cell %d: %w", n, c, ErrInconsistentState)
			}
		}
	}
	g.nodeAlive[n] = false
	g.numNodes--
	return
}

// ModifyCellNodes substitutes node ids of a cell in place, ids absent from
// replace are kept. The link table is updated incrementally when built.
func (g *Grid) ModifyCellNodes(c CellID, replace map[NodeID]NodeID) (err error) {
	if err = g.checkCell(c); err != nil {
		return
	}
	for _, n := range replace {
		if err = g.checkNode(n); err != nil {
			return
		}
	}
	var (
		nodes  = g.cellNodes(c)
		old    = slices.Clone(nodes)
		edited = slices.Clone(nodes)
	)
	for i, n := range edited {
		if nn, ok := replace[n]; ok {
			edited[i] = nn
		}
	}
	sorted := slices.Clone(edited)
	slices.Sort(sorted)
	if len(slices.Compact(sorted)) != len(edited) {
		return fmt.Errorf("cell %d would repeat a node in %v: %w", c, edited, ErrInvalidType)
	}
	copy(nodes, edited)
	if g.links.state == Built {
		for _, n := range old {
			if !slices.Contains(nodes, n) {
				g.links.remove(c, n)
			}
		}
		var added []NodeID
		for _, n := range nodes {
			if !slices.Contains(old, n) {
				added = append(added, n)
			}
		}
		g.links.insertIncremental(c, added)
	}
	g.down.state.invalidate()
	return
}

// cellNodes returns the stored node list of a cell without copying
func (g *Grid) cellNodes(c CellID) []NodeID {
	return g.connectivity[g.cellOffsets[c]:g.cellOffsets[c+1]]
}

func (g *Grid) CellType(c CellID) (ct types.CellType, err error) {
	if err = g.checkCell(c); err != nil {
		return types.Unknown, err
	}
	return g.cellTypes[c], nil
}

// CellNodes returns a copy of the ordered node list of a cell
func (g *Grid) CellNodes(c CellID) (nodes []NodeID, err error) {
	if err = g.checkCell(c); err != nil {
		return
	}
	return slices.Clone(g.cellNodes(c)), nil
}

// PolyhedronFaces returns the node loops of a polyhedron's faces
func (g *Grid) PolyhedronFaces(c CellID) (faces [][]NodeID, err error) {
	if err = g.checkCell(c); err != nil {
		return
	}
	if g.cellTypes[c] != types.Polyhedron {
		return nil, fmt.Errorf("cell %d is a %s: %w", c, g.cellTypes[c], ErrInvalidType)
	}
	nodes := g.cellNodes(c)
	for _, local := range g.polyFaces[c] {
		faces = append(faces, pick(nodes, local))
	}
	return
}

// boundaryTemplate returns the local groupings of the (dim-1) boundary pieces
func (g *Grid) boundaryTemplate(c CellID) [][]int {
	ct := g.cellTypes[c]
	if ct == types.Polyhedron {
		return g.polyFaces[c]
	}
	return ct.GetBoundaryTemplate(g.cellOffsets[c+1] - g.cellOffsets[c])
}

func (g *Grid) edgeTemplate(c CellID) [][]int {
	ct := g.cellTypes[c]
	if ct == types.Polyhedron {
		return types.EdgesFromFaces(g.polyFaces[c])
	}
	return ct.GetEdgeTemplate()
}

func pick(nodes []NodeID, local []int) (picked []NodeID) {
	picked = make([]NodeID, len(local))
	for i, l := range local {
		picked[i] = nodes[l]
	}
	return
}
