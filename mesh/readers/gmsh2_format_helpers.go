package readers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/notargets/meshgrid/mesh"
	"github.com/notargets/meshgrid/types"
)

// Gmsh22TestBuilder helps build Gmsh 2.2 format test files
type Gmsh22TestBuilder struct {
	tm            *mesh.TestMeshes
	physicalNames map[int]string
}

// NewGmsh22TestBuilder creates a new builder with standard test meshes
func NewGmsh22TestBuilder() *Gmsh22TestBuilder {
	return &Gmsh22TestBuilder{
		tm:            mesh.GetStandardTestMeshes(),
		physicalNames: make(map[int]string),
	}
}

// WithPhysicalName adds a $PhysicalNames entry to the files built
func (b *Gmsh22TestBuilder) WithPhysicalName(tag int, name string) *Gmsh22TestBuilder {
	b.physicalNames[tag] = name
	return b
}

// BuildMixedElementTest creates a Gmsh 2.2 file with mixed element types
func (b *Gmsh22TestBuilder) BuildMixedElementTest() string {
	msh := b.tm.MixedMesh
	return b.BuildFromCompleteMesh(&msh)
}

// BuildTwoTetTest creates a Gmsh 2.2 file with two tetrahedra
func (b *Gmsh22TestBuilder) BuildTwoTetTest() string {
	msh := b.tm.TwoTetMesh
	return b.BuildFromCompleteMesh(&msh)
}

// BuildCubeTest creates a Gmsh 2.2 file with the cube mesh
func (b *Gmsh22TestBuilder) BuildCubeTest() string {
	msh := b.tm.CubeMesh
	return b.BuildFromCompleteMesh(&msh)
}

// BuildFromCompleteMesh creates a complete Gmsh 2.2 format file from a CompleteMesh
func (b *Gmsh22TestBuilder) BuildFromCompleteMesh(msh *mesh.CompleteMesh) string {
	var sections []string

	sections = append(sections, b.buildHeader())
	if len(b.physicalNames) != 0 {
		sections = append(sections, b.buildPhysicalNames(msh.Dimension))
	}
	sections = append(sections, b.buildNodes(msh))
	sections = append(sections, b.buildElements(msh))

	return strings.Join(sections, "\n")
}

func (b *Gmsh22TestBuilder) buildHeader() string {
	return `$MeshFormat
2.2 0 8
$EndMeshFormat`
}

func (b *Gmsh22TestBuilder) buildPhysicalNames(dim int) string {
	tags := make([]int, 0, len(b.physicalNames))
	for tag := range b.physicalNames {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	lines := []string{"$PhysicalNames", fmt.Sprintf("%d", len(tags))}
	for _, tag := range tags {
		lines = append(lines, fmt.Sprintf("%d %d \"%s\"", dim, tag, b.physicalNames[tag]))
	}
	lines = append(lines, "$EndPhysicalNames")
	return strings.Join(lines, "\n")
}

func (b *Gmsh22TestBuilder) buildNodes(msh *mesh.CompleteMesh) string {
	numNodes := len(msh.Nodes.Nodes)

	var lines []string
	lines = append(lines, "$Nodes")
	lines = append(lines, fmt.Sprintf("%d", numNodes))

	// Node lines: id x y z
	for i := 0; i < numNodes; i++ {
		nodeID := i + 1 // 1-based
		coords := msh.Nodes.Nodes[i]
		lines = append(lines, fmt.Sprintf("%d %f %f %f", nodeID, coords[0], coords[1], coords[2]))
	}

	lines = append(lines, "$EndNodes")
	return strings.Join(lines, "\n")
}

func (b *Gmsh22TestBuilder) buildElements(msh *mesh.CompleteMesh) string {
	totalElements := 0
	for _, elemSet := range msh.Elements {
		totalElements += len(elemSet.Elements)
	}

	var lines []string
	lines = append(lines, "$Elements")
	lines = append(lines, fmt.Sprintf("%d", totalElements))

	elemID := 1
	for _, elemSet := range msh.Elements {
		gmshType := elementTypeToGmsh22[elemSet.Type]

		for i, elem := range elemSet.Elements {
			props := mesh.ElementProps{}
			if i < len(elemSet.Properties) {
				props = elemSet.Properties[i]
			}

			// Physical then geometric tag, gmsh writes 0 for a missing one
			tags := []int{props.PhysicalTag, props.GeometricTag}

			nodeIDs := make([]string, len(elem))
			for j, nodeName := range elem {
				nodeIDs[j] = fmt.Sprintf("%d", msh.Nodes.NodeIDMap[nodeName])
			}

			// Format: elem-id elem-type num-tags tag1 tag2 ... node1 node2 ...
			line := fmt.Sprintf("%d %d %d", elemID, gmshType, len(tags))
			for _, tag := range tags {
				line += fmt.Sprintf(" %d", tag)
			}
			line += " " + strings.Join(nodeIDs, " ")

			lines = append(lines, line)
			elemID++
		}
	}

	lines = append(lines, "$EndElements")
	return strings.Join(lines, "\n")
}

// elementTypeToGmsh22 converts a cell type to its Gmsh 2.2 element type
// number. Balls are written as points.
var elementTypeToGmsh22 = map[types.CellType]int{
	types.Point:     15,
	types.Ball:      15,
	types.Line:      1,
	types.Line3:     8,
	types.Triangle:  2,
	types.Triangle6: 9,
	types.Quad:      3,
	types.Quad8:     16,
	types.Tet:       4,
	types.Hex:       5,
	types.Prism:     6,
	types.Pyramid:   7,
}
