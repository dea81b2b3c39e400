package supersonic

import (
	"fmt"
	"math"

	"github.com/notargets/gopan/mesh"
	"github.com/notargets/gopan/solver"
	"github.com/notargets/gopan/utils"
)

// Solver finds the supersonic domain of dependence of every mesh vertex. Its loads are
// zero, the dependency sets and the search comparison are the result of a solve.
type Solver struct {
	Mesh    *mesh.Mesh
	Engine  *Engine
	Export  *solver.Exporter
	Report  *Report
	verbose bool
	cond    *Condition
}

func NewSolver(m *mesh.Mesh, verbose bool) (s *Solver, err error) {
	if m == nil {
		err = fmt.Errorf("supersonic solver needs a mesh")
		return
	}
	if err = m.Validate(); err != nil {
		return
	}
	s = &Solver{
		Mesh:    m,
		Engine:  NewEngine(m.Vertices),
		Export:  solver.NewExporter(m),
		verbose: verbose,
	}
	return
}

// SetCondition resets the engine and runs both dependency searches for the condition
func (s *Solver) SetCondition(c Condition) (err error) {
	if s.verbose {
		fmt.Printf("\nDetermining domains of dependence, Mach %g...", c.Mach)
	}
	var r *Report
	if r, err = s.Engine.Run(c); err != nil {
		if s.verbose {
			fmt.Printf("Failed\n")
		}
		return
	}
	s.cond, s.Report = &c, r
	if s.verbose {
		fmt.Printf("Finished\n")
		fmt.Printf("    Mach angle: %8.4f deg, B = %8.5f\n", s.Engine.Mu*180./math.Pi, s.Engine.B)
		fmt.Printf("    %s\n", utils.GetMemUsage())
	}
	return
}

// Solve reports the search comparison, supersonic loads are not computed
func (s *Solver) Solve(opts solver.SolveOptions) (loads solver.Loads, err error) {
	if s.cond == nil {
		err = solver.ErrNoCondition
		return
	}
	if opts.Verbose || s.verbose {
		s.Report.Print()
	}
	return
}

// DependencySizes returns the domain of dependence size of each vertex
func (s *Solver) DependencySizes() (sizes []float64) {
	sizes = make([]float64, len(s.Engine.Vertices))
	for i, v := range s.Engine.Vertices {
		sizes[i] = float64(len(v.DoD))
	}
	return
}

// ExportVTK writes the mesh with the domain of dependence size at each vertex
func (s *Solver) ExportVTK(filename string) (err error) {
	if s.cond == nil {
		return solver.ErrNoSolution
	}
	return s.Export.WriteVTKFile(filename, nil, []solver.Field{
		{Name: "domain_of_dependence_size", Values: s.DependencySizes()},
	})
}
