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

	"github.com/spf13/cobra"

	"github.com/notargets/meshgrid/mesh"
	"github.com/notargets/meshgrid/mesh/readers"
)

// CompactCmd represents the compact command
var CompactCmd = &cobra.Command{
	Use:   "compact <in.msh> <out.msh>",
	Short: "Remove physical groups from a mesh and write it back without gaps",
	Long: `
Removes the cells of the given physical groups, optionally drops the nodes no
cell uses any more, compacts the ids and writes the result in Gmsh 2.2 format.

meshgrid compact -r 2 -p in.msh out.msh`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		gp, err := loadParameters()
		if err != nil {
			return
		}
		removeGroups, _ := cmd.Flags().GetIntSlice("remove-group")
		prune, _ := cmd.Flags().GetBool("prune-nodes")

		mf, err := readers.ReadMeshFile(args[0], gp.Options(newLogger(cmd.ErrOrStderr()), nil)...)
		if err != nil {
			return
		}
		g := mf.Grid
		for _, tag := range removeGroups {
			sm, ok := mf.Groups[tag]
			if !ok {
				return fmt.Errorf("no physical group %d in %s", tag, args[0])
			}
			for _, c := range sm.Cells {
				if g.IsCellAlive(c) {
					if err = g.RemoveCell(c); err != nil {
						return
					}
				}
			}
			delete(mf.Groups, tag)
		}

		var keepNode func(mesh.NodeID) bool
		if prune {
			used := usedNodes(g)
			keepNode = func(n mesh.NodeID) bool { return used[n] }
		}
		maxNode, maxCell := g.MaxNodeID(), g.MaxCellID()
		cm, err := g.Compact(nil, keepNode)
		if err != nil {
			return
		}
		mf.Remap(cm)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Compacted nodes %d -> %d, cells %d -> %d\n",
			maxNode, g.MaxNodeID(), maxCell, g.MaxCellID())
		g.Statistics().Print(out)
		return readers.WriteGmsh22File(args[1], mf)
	},
}

func init() {
	rootCmd.AddCommand(CompactCmd)
	CompactCmd.Flags().IntSliceP("remove-group", "r", nil, "physical group whose cells are removed, may repeat")
	CompactCmd.Flags().BoolP("prune-nodes", "p", false, "drop the nodes no remaining cell uses")
}

// usedNodes marks the nodes of the live cells
func usedNodes(g *mesh.Grid) (used []bool) {
	used = make([]bool, g.MaxNodeID())
	for c := mesh.CellID(0); c < g.MaxCellID(); c++ {
		nodes, err := g.CellNodes(c)
		if err != nil {
			continue
		}
		for _, n := range nodes {
			used[n] = true
		}
	}
	return
}
