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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gopan/InputParameters"
	"github.com/notargets/gopan/solver"
)

type ModelVortex struct {
	ICFile       string
	VTKFile      string
	CaseDataFile string
	Verbose      bool
}

// VortexCmd represents the vortex command
var VortexCmd = &cobra.Command{
	Use:   "vortex",
	Short: "Vortex ring panel solution of incompressible flow",
	Long: `
Solves for the vortex ring circulation on every panel so that the flow is tangent to the
body at the control points, then integrates the pressure forces and moments. With
Lifting: true the trailing edges shed semi-infinite vortices along the freestream.

gopan vortex -I case.yaml --vtk case.vtk`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			cp  *InputParameters.CaseParameters
		)
		mv := &ModelVortex{}
		mv.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		mv.VTKFile, _ = cmd.Flags().GetString("vtk")
		mv.CaseDataFile, _ = cmd.Flags().GetString("caseData")
		mv.Verbose = viper.GetBool("verbose")
		if cp, err = processInput(mv.ICFile); err != nil {
			exitOnError(err)
		}
		if _, err = RunVortex(mv, cp); err != nil {
			exitOnError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(VortexCmd)
	VortexCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for the case, geometry and freestream")
	VortexCmd.Flags().String("vtk", "", "VTK file (.vtk) for pressure coefficient and circulation")
	VortexCmd.Flags().String("caseData", "", "text file for the per panel solution table")
}

func RunVortex(mv *ModelVortex, cp *InputParameters.CaseParameters) (loads solver.Loads, err error) {
	var (
		s    *solver.VortexRingSolver
		fs   solver.Freestream
		opts solver.SolveOptions
	)
	if mv.Verbose {
		cp.Print()
	}
	m, err := cp.BuildMesh()
	if err != nil {
		return
	}
	if mv.Verbose {
		m.PrintStatistics()
	}
	if fs, err = cp.FreestreamCondition(); err != nil {
		return
	}
	if opts, err = cp.SolveOptions(mv.Verbose); err != nil {
		return
	}
	if s, err = solver.NewVortexRingSolver(m, nil, mv.Verbose); err != nil {
		return
	}
	if err = s.SetCondition(fs); err != nil {
		return
	}
	if loads, err = s.Solve(opts); err != nil {
		return
	}
	loads.Print()
	if len(mv.VTKFile) != 0 {
		if err = s.ExportVTK(mv.VTKFile); err != nil {
			return
		}
	}
	if len(mv.CaseDataFile) != 0 {
		err = s.ExportCaseData(mv.CaseDataFile)
	}
	return
}

func processInput(ICFile string) (cp *InputParameters.CaseParameters, err error) {
	var data []byte
	if len(ICFile) == 0 {
		exampleFile := `
########################################
Title: "Sphere"
Geometry:
  Type: sphere # Can be "wing" or "plate"
  NLat: 12
  NLon: 16
Freestream: [-10., 0., 0.]
Density: 1.225
MomentReference: [0., 0., 0.]
Lifting: false
Method: lstsq # Can be "qr" or "direct"
Mach: 1.6 # Supersonic only
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		return
	}
	if data, err = os.ReadFile(ICFile); err != nil {
		return
	}
	cp = &InputParameters.CaseParameters{}
	if err = cp.Parse(data); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", ICFile, err)
	}
	return
}

func exitOnError(err error) {
	fmt.Printf("error: %s\n", err.Error())
	os.Exit(1)
}
