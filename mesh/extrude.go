package mesh

import (
	"fmt"
	"log/slog"

	"github.com/notargets/meshgrid/types"
)

// NodeDomains maps a node to its duplicates, keyed by domain
type NodeDomains map[NodeID]map[int]NodeID

// Set records dup as the copy of n bound to domain
func (nd NodeDomains) Set(n NodeID, domain int, dup NodeID) {
	if nd[n] == nil {
		nd[n] = make(map[int]NodeID)
	}
	nd[n][domain] = dup
}

// Node returns the copy of n bound to domain, n itself when none was made
func (nd NodeDomains) Node(n NodeID, domain int) NodeID {
	if dup, ok := nd[n][domain]; ok {
		return dup
	}
	return n
}

// ExtrudeVolumeFromFace builds the volume between the domainA and domainB
// copies of a linear face: a prism on 3 corners, a hexahedron on 4. The
// first layer follows the face's node order with domainA copies, the second
// the same order with domainB copies.
func (g *Grid) ExtrudeVolumeFromFace(face CellID, domainA, domainB int, dup NodeDomains) (vol CellID, err error) {
	if err = g.checkCell(face); err != nil {
		return Removed, err
	}
	var corners []NodeID
	if corners, err = g.faceCorners(face); err != nil {
		return Removed, err
	}
	var vt types.CellType
	switch len(corners) {
	case 3:
		vt = types.Prism
	case 4:
		vt = types.Hex
	}
	nodes := make([]NodeID, 2*len(corners))
	for i, n := range corners {
		nodes[i] = dup.Node(n, domainA)
		nodes[i+len(corners)] = dup.Node(n, domainB)
	}
	if vol, err = g.AddLinkedCell(vt, nodes); err != nil {
		return Removed, err
	}
	g.logger.Debug("volume extruded",
		slog.Int("face", int(face)),
		slog.Int("cell", int(vol)),
		slog.String("type", vt.String()))
	return
}

// faceCorners returns the corners of a linear face with 3 or 4 nodes, the
// only faces a volume can be extruded from
func (g *Grid) faceCorners(face CellID) (corners []NodeID, err error) {
	ct := g.cellTypes[face]
	nodes := g.cellNodes(face)
	if ct.GetDimension() != 2 || ct.IsQuadratic() || (len(nodes) != 3 && len(nodes) != 4) {
		return nil, fmt.Errorf("cell %d is a %s with %d nodes: %w",
			face, ct, len(nodes), ErrUnsupportedFaceShape)
	}
	return g.OrderedNodesOfFace(face)
}
