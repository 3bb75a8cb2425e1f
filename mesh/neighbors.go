package mesh

import (
	"fmt"
	"slices"
)

// Neighbor is a cell reached from another through the sub-entity Via. In skin
// queries Cell is the first-class cell lying on the skin sub-entity, Removed
// when there is none.
type Neighbor struct {
	Cell CellID
	Via  SubEntityID
}

// NeighborsVia walks the boundary sub-entities of c. Without skinOnly every
// other parent of each sub-entity is reported, once per shared sub-entity.
// With skinOnly only the sub-entities bounding c alone are reported.
func (g *Grid) NeighborsVia(c CellID, skinOnly bool) (nbs []Neighbor, err error) {
	if err = g.checkDownward(); err != nil {
		return
	}
	if err = g.checkCell(c); err != nil {
		return
	}
	for _, s := range g.down.cellSubs[c] {
		sub := &g.down.subs[s]
		if skinOnly {
			if len(sub.parents) == 1 {
				nbs = append(nbs, Neighbor{Cell: sub.cell, Via: s})
			}
		} else {
			for _, p := range sub.parents {
				if p != c {
					nbs = append(nbs, Neighbor{Cell: p, Via: s})
				}
			}
		}
		if len(nbs) > g.limits.MaxNeighbors {
			g.metrics.reject("neighbors")
			return nil, fmt.Errorf("cell %d has more than %d neighbors: %w",
				c, g.limits.MaxNeighbors, ErrCapacityExceeded)
		}
	}
	return
}

// Neighbors returns the distinct cells sharing a boundary sub-entity with c.
// With skinOnly it returns the first-class cells lying on the skin of c.
func (g *Grid) Neighbors(c CellID, skinOnly bool) (cells []CellID, err error) {
	var nbs []Neighbor
	if nbs, err = g.NeighborsVia(c, skinOnly); err != nil {
		return
	}
	for _, nb := range nbs {
		if nb.Cell != Removed && !slices.Contains(cells, nb.Cell) {
			cells = append(cells, nb.Cell)
		}
	}
	return
}

// ParentVolumes returns the volumes bounded by sub-entity s
func (g *Grid) ParentVolumes(s SubEntityID) (volumes []CellID, err error) {
	if err = g.checkSub(s); err != nil {
		return
	}
	for _, p := range g.down.subs[s].parents {
		if g.cellTypes[p].GetDimension() == 3 {
			volumes = append(volumes, p)
		}
	}
	return
}

// ParentVolumesOfCell returns the volumes bounded by the sub-entity a face
// cell lies on, empty for a face no volume touches
func (g *Grid) ParentVolumesOfCell(c CellID) (volumes []CellID, err error) {
	var s SubEntityID
	if s, err = g.SubEntityOfCell(c); err != nil || s == Removed {
		return
	}
	return g.ParentVolumes(s)
}

// OrderedNodesOfFace returns the corner nodes of a face cell in its stored
// orientation
func (g *Grid) OrderedNodesOfFace(c CellID) (nodes []NodeID, err error) {
	if err = g.checkCell(c); err != nil {
		return
	}
	ct := g.cellTypes[c]
	if ct.GetDimension() != 2 {
		return nil, fmt.Errorf("cell %d is a %s, not a face: %w", c, ct, ErrInvalidType)
	}
	all := g.cellNodes(c)
	return slices.Clone(all[:ct.GetNumCornerNodes(len(all))]), nil
}
