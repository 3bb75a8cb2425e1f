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
	"log/slog"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/meshgrid/InputParameters"
	"github.com/notargets/meshgrid/mesh"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meshgrid",
	Short: "Unstructured mesh connectivity tools",
	Long: `
Reads unstructured meshes, builds their upward and downward adjacency and
reports on them, compacts them after deletions and benchmarks the builds.

meshgrid stats mesh.msh`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.meshgrid.yaml)")
	rootCmd.PersistentFlags().StringP("params", "P", "", "YAML file of grid parameters like:\n\t- MaxNodesPerCell\n\t- MaxNeighbors\n\t- MemoryBudgetMB")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().BoolP("edges", "e", false, "index the edges of volume cells in the downward build")
	_ = viper.BindPFlag("params", rootCmd.PersistentFlags().Lookup("params"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("withEdges", rootCmd.PersistentFlags().Lookup("edges"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".meshgrid" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".meshgrid")
	}

	viper.SetEnvPrefix("meshgrid")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadParameters reads the parameter file, then applies the keys set in the
// config file, the environment or on the command line
func loadParameters() (gp *InputParameters.GridParameters, err error) {
	gp = InputParameters.NewGridParameters()
	if fn := viper.GetString("params"); fn != "" {
		var data []byte
		if data, err = os.ReadFile(fn); err != nil {
			return nil, err
		}
		if err = gp.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
	}
	if viper.IsSet("maxNodesPerCell") {
		gp.MaxNodesPerCell = viper.GetInt("maxNodesPerCell")
	}
	if viper.IsSet("maxNeighbors") {
		gp.MaxNeighbors = viper.GetInt("maxNeighbors")
	}
	if viper.IsSet("memoryBudgetMB") {
		gp.MemoryBudgetMB = uint64(viper.GetInt64("memoryBudgetMB"))
	}
	if viper.IsSet("withEdges") {
		gp.WithEdges = viper.GetBool("withEdges")
	}
	return
}

func buildViews(g *mesh.Grid, withEdges bool) (err error) {
	if err = g.BuildLinks(); err != nil {
		return
	}
	return g.BuildDownward(withEdges)
}
