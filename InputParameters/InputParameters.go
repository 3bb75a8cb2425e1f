package InputParameters

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ghodss/yaml"

	"github.com/notargets/meshgrid/mesh"
)

// Parameters obtained from the YAML input file
type GridParameters struct {
	Title           string `yaml:"Title"`
	MaxNodesPerCell int    `yaml:"MaxNodesPerCell"`
	MaxNeighbors    int    `yaml:"MaxNeighbors"`
	MemoryBudgetMB  uint64 `yaml:"MemoryBudgetMB"` // 0 is unbounded
	WithEdges       bool   `yaml:"WithEdges"`      // index the edges of volumes
}

func NewGridParameters() *GridParameters {
	l := mesh.DefaultLimits()
	return &GridParameters{
		MaxNodesPerCell: l.MaxNodesPerCell,
		MaxNeighbors:    l.MaxNeighbors,
	}
}

func (gp *GridParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, gp); err != nil {
		return err
	}
	if gp.MaxNodesPerCell < 0 || gp.MaxNeighbors < 0 {
		return fmt.Errorf("limits must not be negative, have MaxNodesPerCell %d, MaxNeighbors %d",
			gp.MaxNodesPerCell, gp.MaxNeighbors)
	}
	return nil
}

func (gp *GridParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", gp.Title)
	fmt.Fprintf(w, "[%d]\t\t\t= Max Nodes Per Cell\n", gp.MaxNodesPerCell)
	fmt.Fprintf(w, "[%d]\t\t\t= Max Neighbors\n", gp.MaxNeighbors)
	fmt.Fprintf(w, "[%d]\t\t\t= Memory Budget (MiB)\n", gp.MemoryBudgetMB)
	fmt.Fprintf(w, "[%t]\t\t\t= Volume Edges\n", gp.WithEdges)
}

func (gp *GridParameters) Limits() mesh.Limits {
	return mesh.Limits{
		MaxNodesPerCell: gp.MaxNodesPerCell,
		MaxNeighbors:    gp.MaxNeighbors,
	}
}

// Options are the grid options the parameters describe
func (gp *GridParameters) Options(logger *slog.Logger, m *mesh.Metrics) []mesh.Option {
	opts := []mesh.Option{
		mesh.WithLimits(gp.Limits()),
		mesh.WithLogger(logger),
		mesh.WithMetrics(m),
	}
	if gp.MemoryBudgetMB != 0 {
		opts = append(opts, mesh.WithMemoryBudget(gp.MemoryBudgetMB<<20))
	}
	return opts
}
