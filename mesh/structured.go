package mesh

import (
	"fmt"

	"github.com/notargets/meshgrid/types"
)

// NewStructuredHexGrid builds an nx by ny by nz block of hexahedra. Node (i,j,k)
// has id i + (nx+1)*(j + (ny+1)*k). With skin, the boundary quads are inserted
// as face cells after the volumes.
func NewStructuredHexGrid(nx, ny, nz int, skin bool, opts ...Option) (g *Grid, err error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("structured grid needs at least one cell per direction, have %dx%dx%d", nx, ny, nz)
	}
	g = NewGrid(opts...)
	g.AddNodes((nx + 1) * (ny + 1) * (nz + 1))
	node := func(i, j, k int) NodeID {
		return NodeID(i + (nx+1)*(j+(ny+1)*k))
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				hex := []NodeID{
					node(i, j, k), node(i+1, j, k), node(i+1, j+1, k), node(i, j+1, k),
					node(i, j, k+1), node(i+1, j, k+1), node(i+1, j+1, k+1), node(i, j+1, k+1),
				}
				if _, err = g.AddCell(types.Hex, hex); err != nil {
					return nil, err
				}
			}
		}
	}
	if !skin {
		return
	}
	var quads [][]NodeID
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			quads = append(quads,
				[]NodeID{node(i, j, 0), node(i, j+1, 0), node(i+1, j+1, 0), node(i+1, j, 0)},
				[]NodeID{node(i, j, nz), node(i+1, j, nz), node(i+1, j+1, nz), node(i, j+1, nz)})
		}
	}
	for k := 0; k < nz; k++ {
		for i := 0; i < nx; i++ {
			quads = append(quads,
				[]NodeID{node(i, 0, k), node(i+1, 0, k), node(i+1, 0, k+1), node(i, 0, k+1)},
				[]NodeID{node(i, ny, k), node(i, ny, k+1), node(i+1, ny, k+1), node(i+1, ny, k)})
		}
		for j := 0; j < ny; j++ {
			quads = append(quads,
				[]NodeID{node(0, j, k), node(0, j, k+1), node(0, j+1, k+1), node(0, j+1, k)},
				[]NodeID{node(nx, j, k), node(nx, j+1, k), node(nx, j+1, k+1), node(nx, j, k+1)})
		}
	}
	for _, q := range quads {
		if _, err = g.AddCell(types.Quad, q); err != nil {
			return nil, err
		}
	}
	return
}
