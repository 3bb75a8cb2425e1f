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
	"slices"

	"github.com/spf13/cobra"

	"github.com/notargets/meshgrid/mesh/readers"
)

// StatsCmd represents the stats command
var StatsCmd = &cobra.Command{
	Use:   "stats <mesh.msh>",
	Short: "Build the adjacency of a mesh file and print its statistics",
	Long: `
Reads a Gmsh 2.2 mesh, builds the link table and the downward index and prints
cell counts by type, skin sub-entities, connected regions and physical groups.

meshgrid stats -e mesh.msh`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		gp, err := loadParameters()
		if err != nil {
			return
		}
		out := cmd.OutOrStdout()
		if gp.Title != "" {
			gp.Print(out)
		}
		mf, err := readers.ReadMeshFile(args[0], gp.Options(newLogger(cmd.ErrOrStderr()), nil)...)
		if err != nil {
			return
		}
		g := mf.Grid
		if err = buildViews(g, gp.WithEdges); err != nil {
			return
		}
		g.Statistics().Print(out)
		regions, err := g.Regions()
		if err != nil {
			return
		}
		fmt.Fprintf(out, "  Regions: %d\n", len(regions))
		printGroups(out, mf)
		return
	},
}

func init() {
	rootCmd.AddCommand(StatsCmd)
}

func printGroups(w io.Writer, mf *readers.MeshFile) {
	tags := make([]int, 0, len(mf.Groups))
	for tag := range mf.Groups {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	for _, tag := range tags {
		sm := mf.Groups[tag]
		fmt.Fprintf(w, "  Group %d \"%s\": %d cells\n", tag, sm.Name, len(sm.Cells))
	}
	for elemType, count := range mf.Skipped {
		fmt.Fprintf(w, "  Skipped Gmsh element type %d: %d\n", elemType, count)
	}
}
