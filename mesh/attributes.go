package mesh

import (
	"fmt"

	"github.com/notargets/meshgrid/types"
)

// BallDiameters is the sparse side-table of ball element diameters, indexed
// by cell id and grown on demand. Cells never set read as zero.
type BallDiameters struct {
	d []float64
}

// Allocate grows the table to hold cell ids up to maxCell
func (bd *BallDiameters) Allocate(maxCell CellID) {
	bd.d = types.GrowSlice(bd.d, int(maxCell)+1, 0.)
}

func (bd *BallDiameters) Set(c CellID, diameter float64) {
	bd.Allocate(c)
	bd.d[c] = diameter
}

func (bd *BallDiameters) Get(c CellID) float64 {
	if c < 0 || int(c) >= len(bd.d) {
		return 0
	}
	return bd.d[c]
}

func (bd *BallDiameters) Len() int { return len(bd.d) }

// remap moves every entry to its new cell id, dropping removed cells
func (bd *BallDiameters) remap(cells []CellID, newMax int) {
	nd := make([]float64, newMax)
	for old, c := range cells {
		if c != Removed && old < len(bd.d) {
			nd[c] = bd.d[old]
		}
	}
	bd.d = nd
}

// AllocateDiameters sizes the ball side-table ahead of a bulk insertion
func (g *Grid) AllocateDiameters(maxCell CellID) {
	if g.balls == nil {
		g.balls = &BallDiameters{}
	}
	g.balls.Allocate(maxCell)
}

func (g *Grid) checkBall(c CellID) (err error) {
	if err = g.checkCell(c); err != nil {
		return
	}
	if g.cellTypes[c] != types.Ball {
		return fmt.Errorf("cell %d is a %s, not a ball: %w", c, g.cellTypes[c], ErrInvalidType)
	}
	return
}

func (g *Grid) SetBallDiameter(c CellID, diameter float64) (err error) {
	if err = g.checkBall(c); err != nil {
		return
	}
	g.balls.Set(c, diameter)
	return
}

func (g *Grid) BallDiameter(c CellID) (diameter float64, err error) {
	if err = g.checkBall(c); err != nil {
		return
	}
	return g.balls.Get(c), nil
}
