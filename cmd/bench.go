/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/notargets/meshgrid/mesh"
	"github.com/notargets/meshgrid/utils"
)

type Bench struct {
	NX, NY, NZ  int
	Skin        bool
	Profile     string // cpu, mem or empty
	ProfilePath string
	Counters    bool
}

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time the adjacency builds on a structured block of hexahedra",
	Long: `
Builds an nx by ny by nz block of hexahedra, optionally with its boundary quads,
then times the link table, the downward index and a compaction.

meshgrid bench --nx 50 --ny 50 --nz 50 --profile cpu`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		b := &Bench{}
		b.NX, _ = cmd.Flags().GetInt("nx")
		b.NY, _ = cmd.Flags().GetInt("ny")
		b.NZ, _ = cmd.Flags().GetInt("nz")
		b.Skin, _ = cmd.Flags().GetBool("skin")
		b.Profile, _ = cmd.Flags().GetString("profile")
		b.ProfilePath, _ = cmd.Flags().GetString("profilePath")
		b.Counters, _ = cmd.Flags().GetBool("counters")
		return RunBench(b, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().Int("nx", 20, "hexahedra in x")
	BenchCmd.Flags().Int("ny", 20, "hexahedra in y")
	BenchCmd.Flags().Int("nz", 20, "hexahedra in z")
	BenchCmd.Flags().BoolP("skin", "s", false, "add the boundary quads as face cells")
	BenchCmd.Flags().String("profile", "", "write a cpu or mem profile")
	BenchCmd.Flags().String("profilePath", ".", "directory for the profile output")
	BenchCmd.Flags().BoolP("counters", "c", false, "count CPU instructions of the downward build (Linux only)")
}

func RunBench(b *Bench, out, logOut io.Writer) (err error) {
	gp, err := loadParameters()
	if err != nil {
		return
	}
	switch b.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(b.ProfilePath), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(b.ProfilePath), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile %q, want cpu or mem", b.Profile)
	}

	reg := prometheus.NewRegistry()
	g, err := mesh.NewStructuredHexGrid(b.NX, b.NY, b.NZ, b.Skin,
		gp.Options(newLogger(logOut), mesh.NewMetrics(reg))...)
	if err != nil {
		return
	}

	start := time.Now()
	if err = g.BuildLinks(); err != nil {
		return
	}
	fmt.Fprintf(out, "Link table: %v\n", time.Since(start))

	downward := func() error { return g.BuildDownward(gp.WithEdges) }
	start = time.Now()
	if b.Counters {
		var instructions uint64
		if instructions, err = countInstructions(downward); err != nil {
			return
		}
		fmt.Fprintf(out, "Downward index: %v, %d instructions\n", time.Since(start), instructions)
	} else {
		if err = downward(); err != nil {
			return
		}
		fmt.Fprintf(out, "Downward index: %v\n", time.Since(start))
	}
	g.Statistics().Print(out)

	// Drop every other hexahedron and compact
	for c := mesh.CellID(0); c < mesh.CellID(b.NX*b.NY*b.NZ); c += 2 {
		if err = g.RemoveCell(c); err != nil {
			return
		}
	}
	start = time.Now()
	if _, err = g.Compact(nil, nil); err != nil {
		return
	}
	fmt.Fprintf(out, "Compaction: %v, %d cells left\n", time.Since(start), g.NumCells())
	fmt.Fprintf(out, "%s\n", utils.GetMemUsage())
	return printBuildMetrics(out, reg)
}

func printBuildMetrics(w io.Writer, reg *prometheus.Registry) (err error) {
	families, err := reg.Gather()
	if err != nil {
		return
	}
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			var labels string
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s%s: %d samples, %.6fs\n", fam.GetName(), labels, h.GetSampleCount(), h.GetSampleSum())
			case m.GetGauge() != nil:
				fmt.Fprintf(w, "%s%s: %g\n", fam.GetName(), labels, m.GetGauge().GetValue())
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s%s: %g\n", fam.GetName(), labels, m.GetCounter().GetValue())
			}
		}
	}
	return
}
