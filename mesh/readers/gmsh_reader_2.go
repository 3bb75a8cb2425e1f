package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/meshgrid/mesh"
	"github.com/notargets/meshgrid/types"
)

// MeshFile is a mesh read from disk: the grid, the coordinates it does not
// own, and the physical groups as sub-meshes
type MeshFile struct {
	FormatVersion string
	Grid          *mesh.Grid
	Coordinates   [][]float64           // indexed by NodeID
	NodeIDs       map[int]mesh.NodeID   // file node tag -> NodeID
	Groups        map[int]*mesh.SubMesh // physical tag -> members
	Skipped       map[int]int           // unsupported element type -> count
}

// Remap follows a compaction of the grid
func (mf *MeshFile) Remap(cm mesh.CompactionMap) {
	coords := make([][]float64, mf.Grid.NumNodes())
	for old, xyz := range mf.Coordinates {
		if n := cm.NewNode(mesh.NodeID(old)); n != mesh.Removed {
			coords[n] = xyz
		}
	}
	mf.Coordinates = coords
	for tag, n := range mf.NodeIDs {
		if nn := cm.NewNode(n); nn != mesh.Removed {
			mf.NodeIDs[tag] = nn
		} else {
			delete(mf.NodeIDs, tag)
		}
	}
	for _, g := range mf.Groups {
		g.Remap(cm)
	}
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string, opts ...mesh.Option) (*MeshFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".msh":
		return ReadGmsh22(filename, opts...)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

// ReadGmsh22 reads a Gmsh MSH file format version 2.2
func ReadGmsh22(filename string, opts ...mesh.Option) (*MeshFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseGmsh22(file, opts...)
}

// ParseGmsh22 reads Gmsh 2.2 ASCII content into a new grid. Every element
// becomes a cell, whatever its dimension.
func ParseGmsh22(r io.Reader, opts ...mesh.Option) (*MeshFile, error) {
	scanner := bufio.NewScanner(r)
	mf := &MeshFile{
		Grid:    mesh.NewGrid(opts...),
		NodeIDs: make(map[int]mesh.NodeID),
		Groups:  make(map[int]*mesh.SubMesh),
		Skipped: make(map[int]int),
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var err error
		switch line {
		case "$MeshFormat":
			err = readMeshFormat22(scanner, mf)
		case "$PhysicalNames":
			err = readPhysicalNames(scanner, mf)
		case "$Nodes":
			err = readNodes22(scanner, mf)
		case "$Elements":
			err = readElements22(scanner, mf)
		default:
			if strings.HasPrefix(line, "$") {
				// Skip sections the grid has no use for
				skipTo(scanner, "$End"+line[1:])
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	if mf.FormatVersion == "" {
		return nil, fmt.Errorf("could not find $MeshFormat section")
	}
	return mf, nil
}

func skipTo(scanner *bufio.Scanner, endMarker string) {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endMarker {
			break
		}
	}
}

// readMeshFormat22 reads the MeshFormat section
func readMeshFormat22(scanner *bufio.Scanner, mf *MeshFile) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}

	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	if !strings.HasPrefix(parts[0], "2.") {
		return fmt.Errorf("unsupported Gmsh format version: %s", parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported")
	}
	mf.FormatVersion = parts[0]

	skipTo(scanner, "$EndMeshFormat")
	return nil
}

func (mf *MeshFile) group(tag int) *mesh.SubMesh {
	g, ok := mf.Groups[tag]
	if !ok {
		g = mesh.NewSubMesh(fmt.Sprintf("physical_%d", tag))
		mf.Groups[tag] = g
	}
	return g
}

// readPhysicalNames reads physical group names
func readPhysicalNames(scanner *bufio.Scanner, mf *MeshFile) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in PhysicalNames")
	}

	numNames, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))

	for i := 0; i < numNames; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading physical names")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) >= 3 {
			tag, _ := strconv.Atoi(parts[1])
			name := strings.Trim(strings.Join(parts[2:], " "), "\"")
			mf.group(tag).Name = name
		}
	}

	skipTo(scanner, "$EndPhysicalNames")
	return nil
}

// readNodes22 reads nodes in v2.2 format
func readNodes22(scanner *bufio.Scanner, mf *MeshFile) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}

	numNodes, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	mf.Coordinates = make([][]float64, 0, numNodes)

	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading nodes")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("invalid node line: %s", scanner.Text())
		}

		tag, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("invalid node tag %q: %w", parts[0], err)
		}
		if _, dup := mf.NodeIDs[tag]; dup {
			return fmt.Errorf("duplicate node tag %d", tag)
		}
		xyz := make([]float64, 3)
		for j := range xyz {
			xyz[j], _ = strconv.ParseFloat(parts[1+j], 64)
		}

		mf.NodeIDs[tag] = mf.Grid.AddNode()
		mf.Coordinates = append(mf.Coordinates, xyz)
	}

	skipTo(scanner, "$EndNodes")
	return nil
}

// readElements22 reads elements in v2.2 format
func readElements22(scanner *bufio.Scanner, mf *MeshFile) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}

	numElements, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))

	for i := 0; i < numElements; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading elements")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("invalid element line")
		}

		elemID, _ := strconv.Atoi(parts[0])
		elemType, _ := strconv.Atoi(parts[1])
		numTags, _ := strconv.Atoi(parts[2])

		if len(parts) < 3+numTags {
			return fmt.Errorf("element %d: invalid element tags", elemID)
		}

		ct, ok := gmshElementType22[elemType]
		if !ok {
			mf.Skipped[elemType]++
			continue
		}

		nodeStart := 3 + numTags
		expectedNodes := ct.GetNumNodes()
		if len(parts) < nodeStart+expectedNodes {
			return fmt.Errorf("element %d: expected %d nodes, got %d",
				elemID, expectedNodes, len(parts)-nodeStart)
		}

		nodes := make([]mesh.NodeID, expectedNodes)
		for j := range nodes {
			tag, _ := strconv.Atoi(parts[nodeStart+j])
			n, found := mf.NodeIDs[tag]
			if !found {
				return fmt.Errorf("element %d: unknown node %d", elemID, tag)
			}
			nodes[j] = n
		}

		c, err := mf.Grid.AddCell(ct, nodes)
		if err != nil {
			return fmt.Errorf("element %d: %w", elemID, err)
		}
		// The first tag is the physical group, 0 when the element has none
		if numTags > 0 {
			if physical, _ := strconv.Atoi(parts[3]); physical > 0 {
				mf.group(physical).AddCell(c)
			}
		}
	}

	skipTo(scanner, "$EndElements")
	return nil
}

// gmshElementType22 maps the Gmsh v2.2 element type numbers the grid supports
var gmshElementType22 = map[int]types.CellType{
	1:  types.Line,      // 2-node line
	2:  types.Triangle,  // 3-node triangle
	3:  types.Quad,      // 4-node quadrangle
	4:  types.Tet,       // 4-node tetrahedron
	5:  types.Hex,       // 8-node hexahedron
	6:  types.Prism,     // 6-node prism
	7:  types.Pyramid,   // 5-node pyramid
	8:  types.Line3,     // 3-node line
	9:  types.Triangle6, // 6-node triangle
	15: types.Point,     // 1-node point
	16: types.Quad8,     // 8-node quadrangle
}
