package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/notargets/meshgrid/mesh"
)

// WriteGmsh22File writes mf to filename in Gmsh 2.2 ASCII format
func WriteGmsh22File(filename string, mf *MeshFile) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteGmsh22(file, mf)
}

// WriteGmsh22 writes the live nodes and cells of mf. Node and element tags are
// the grid ids plus one, each cell carries the lowest physical tag of the
// groups holding it.
func WriteGmsh22(w io.Writer, mf *MeshFile) error {
	g := mf.Grid
	if len(mf.Coordinates) < int(g.MaxNodeID()) {
		return fmt.Errorf("have coordinates for %d nodes, grid has %d", len(mf.Coordinates), g.MaxNodeID())
	}

	tags := make([]int, 0, len(mf.Groups))
	for tag := range mf.Groups {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	physical := make(map[mesh.CellID]int)
	groupDim := make(map[int]int)
	for _, tag := range tags {
		for _, c := range mf.Groups[tag].Cells {
			if _, found := physical[c]; !found {
				physical[c] = tag
			}
			if ct, err := g.CellType(c); err == nil {
				groupDim[tag] = max(groupDim[tag], ct.GetDimension())
			}
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")
	if len(tags) != 0 {
		fmt.Fprintf(bw, "$PhysicalNames\n%d\n", len(tags))
		for _, tag := range tags {
			fmt.Fprintf(bw, "%d %d \"%s\"\n", groupDim[tag], tag, mf.Groups[tag].Name)
		}
		fmt.Fprintf(bw, "$EndPhysicalNames\n")
	}

	fmt.Fprintf(bw, "$Nodes\n%d\n", g.NumNodes())
	for n := mesh.NodeID(0); n < g.MaxNodeID(); n++ {
		if !g.IsNodeAlive(n) {
			continue
		}
		xyz := mf.Coordinates[n]
		if len(xyz) < 3 {
			return fmt.Errorf("node %d has no coordinates", n)
		}
		fmt.Fprintf(bw, "%d %g %g %g\n", n+1, xyz[0], xyz[1], xyz[2])
	}
	fmt.Fprintf(bw, "$EndNodes\n")

	fmt.Fprintf(bw, "$Elements\n%d\n", g.NumCells())
	for c := mesh.CellID(0); c < g.MaxCellID(); c++ {
		if !g.IsCellAlive(c) {
			continue
		}
		ct, _ := g.CellType(c)
		gmshType, ok := elementTypeToGmsh22[ct]
		if !ok {
			return fmt.Errorf("cell %d: %s has no Gmsh 2.2 element type", c, ct)
		}
		nodes, _ := g.CellNodes(c)
		tag := physical[c]
		fmt.Fprintf(bw, "%d %d 2 %d %d", c+1, gmshType, tag, tag)
		for _, n := range nodes {
			fmt.Fprintf(bw, " %d", n+1)
		}
		fmt.Fprintf(bw, "\n")
	}
	fmt.Fprintf(bw, "$EndElements\n")
	return bw.Flush()
}
