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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gopan/InputParameters"
	"github.com/notargets/gopan/solver"
	"github.com/notargets/gopan/supersonic"
)

type ModelSupersonic struct {
	ICFile  string
	VTKFile string
	Verbose bool
}

// SupersonicCmd represents the supersonic command
var SupersonicCmd = &cobra.Command{
	Use:   "supersonic",
	Short: "Supersonic domains of dependence on the body vertices",
	Long: `
Finds, for every vertex, the vertices inside its upstream Mach cone, with a memoized
recursive search checked against a brute force search over all vertex pairs.

gopan supersonic -I case.yaml --vtk dod.vtk`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			cp  *InputParameters.CaseParameters
		)
		ms := &ModelSupersonic{}
		ms.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		ms.VTKFile, _ = cmd.Flags().GetString("vtk")
		ms.Verbose = viper.GetBool("verbose")
		if cp, err = processInput(ms.ICFile); err != nil {
			exitOnError(err)
		}
		if _, err = RunSupersonic(ms, cp); err != nil {
			exitOnError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(SupersonicCmd)
	SupersonicCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for the case, geometry and Mach number")
	SupersonicCmd.Flags().String("vtk", "", "VTK file (.vtk) for the domain of dependence size at each vertex")
}

func RunSupersonic(ms *ModelSupersonic, cp *InputParameters.CaseParameters) (r *supersonic.Report, err error) {
	var (
		s *supersonic.Solver
		c supersonic.Condition
	)
	if ms.Verbose {
		cp.Print()
	}
	m, err := cp.BuildMesh()
	if err != nil {
		return
	}
	if ms.Verbose {
		m.PrintStatistics()
	}
	if c, err = cp.SupersonicCondition(); err != nil {
		return
	}
	if s, err = supersonic.NewSolver(m, ms.Verbose); err != nil {
		return
	}
	if err = s.SetCondition(c); err != nil {
		return
	}
	if _, err = s.Solve(solver.SolveOptions{Verbose: true}); err != nil {
		return
	}
	r = s.Report
	if len(ms.VTKFile) != 0 {
		err = s.ExportVTK(ms.VTKFile)
	}
	return
}
