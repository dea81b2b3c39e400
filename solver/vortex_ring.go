package solver

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gopan/influence"
	"github.com/notargets/gopan/linsys"
	"github.com/notargets/gopan/mesh"
	"github.com/notargets/gopan/utils"
)

// VortexRingSolver solves incompressible potential flow with a vortex ring on every panel
type VortexRingSolver struct {
	Mesh    *mesh.Mesh
	Ring    *influence.Matrix // Shared, read only
	Vortex  *influence.Matrix // Trailing vortex influence for vortexDir, rebuilt when it changes
	State   *State            // Rebuilt on every Solve
	Export  *Exporter
	normals []r3.Vec
	// Normal projection of the ring matrix, geometry only
	aPanels   *mat.Dense
	aVortex   *mat.Dense
	vortexDir r3.Vec
	// Condition
	fs          *Freestream
	uInf        r3.Vec
	VInf, VInf2 float64
	b           []float64
}

// NewVortexRingSolver prepares the geometry dependent part of the system. A ring matrix
// already built for the same mesh can be passed to share it, nil builds a new one.
func NewVortexRingSolver(m *mesh.Mesh, ring *influence.Matrix, verbose bool) (s *VortexRingSolver, err error) {
	if m == nil {
		err = fmt.Errorf("vortex ring solver needs a mesh")
		return
	}
	if err = m.Validate(); err != nil {
		return
	}
	if ring != nil && ring.N != m.NumPanels {
		err = fmt.Errorf("ring matrix is for %d panels, mesh has %d", ring.N, m.NumPanels)
		return
	}
	s = &VortexRingSolver{
		Mesh:    m,
		Ring:    ring,
		Export:  NewExporter(m),
		normals: m.Normals(),
	}
	if s.Ring == nil {
		if verbose {
			fmt.Printf("\nDetermining panel influence matrix...")
		}
		start := time.Now()
		s.Ring = influence.NewRingMatrix(m)
		if verbose {
			fmt.Printf("Finished. Time: %v\n", time.Since(start))
			fmt.Printf("    %s\n", utils.GetMemUsage())
		}
	}
	s.aPanels = s.Ring.Project(s.normals)
	return
}

// SetCondition stores the freestream and the tangency right hand side, -V_inf . n
func (s *VortexRingSolver) SetCondition(fs Freestream) (err error) {
	if err = fs.Validate(); err != nil {
		return
	}
	s.fs = &fs
	s.VInf = r3.Norm(fs.Velocity)
	s.VInf2 = s.VInf * s.VInf
	s.uInf = r3.Scale(1./s.VInf, fs.Velocity)
	s.b = utils.DotConst(s.normals, fs.Velocity)
	floats.Scale(-1, s.b)
	return
}

// Solve assembles the tangency system for the current condition, solves it for the panel
// circulations and integrates pressures and forces
func (s *VortexRingSolver) Solve(opts SolveOptions) (loads Loads, err error) {
	if s.fs == nil {
		err = ErrNoCondition
		return
	}
	var (
		start    = time.Now()
		A        *mat.Dense
		b        *mat.VecDense
		matrices = []*influence.Matrix{s.Ring}
	)
	if opts.Lifting {
		if opts.Verbose {
			fmt.Printf("\nDetermining horseshoe vortex influences and solving lifting case...")
		}
		if A, b, err = s.AssembleLifting(); err != nil {
			return
		}
		matrices = append(matrices, s.Vortex)
	} else {
		if opts.Verbose {
			fmt.Printf("\nSolving nonlifting case...")
		}
		if A, b, err = s.AssembleNonlifting(); err != nil {
			return
		}
	}

	gamma, diag, err := linsys.Solve(A, b, opts.Method)
	if err != nil {
		return
	}
	if opts.Verbose {
		fmt.Printf("Finished. Time: %v\n", time.Since(start))
		fmt.Printf("    Circulation sum: %g\n", floats.Sum(gamma.RawVector().Data))
		diag.Print()
		fmt.Printf("\nDetermining velocities, pressure coefficients, and forces...")
		start = time.Now()
	}
	s.State = Integrate(s.Mesh, *s.fs, gamma, opts.MomentReference, matrices...)
	s.State.Diagnostics = diag
	if opts.Verbose {
		fmt.Printf("Finished. Time: %v\n", time.Since(start))
	}
	loads = s.State.Loads
	return
}

// AssembleLifting returns the N x N system with the trailing vortex influence added. The
// vortex matrix is rebuilt first if the freestream direction has changed.
func (s *VortexRingSolver) AssembleLifting() (A *mat.Dense, b *mat.VecDense, err error) {
	if s.fs == nil {
		err = ErrNoCondition
		return
	}
	s.updateVortex()
	A = &mat.Dense{}
	A.Add(s.aPanels, s.aVortex)
	b = mat.NewVecDense(len(s.b), append([]float64(nil), s.b...))
	return
}

// AssembleNonlifting returns the (N+1) x N system, the last row requires the circulations to
// sum to zero. Without it a uniform circulation on every panel is an unresolved null space.
func (s *VortexRingSolver) AssembleNonlifting() (A *mat.Dense, b *mat.VecDense, err error) {
	if s.fs == nil {
		err = ErrNoCondition
		return
	}
	N := s.Mesh.NumPanels
	A = mat.NewDense(N+1, N, nil)
	A.Slice(0, N, 0, N).(*mat.Dense).Copy(s.aPanels)
	A.SetRow(N, utils.ConstArray(N, 1))
	b = mat.NewVecDense(N+1, nil)
	for i, val := range s.b {
		b.SetVec(i, val)
	}
	return
}

func (s *VortexRingSolver) updateVortex() {
	if s.Vortex != nil && r3.Norm(r3.Sub(s.vortexDir, s.uInf)) < utils.NODETOL {
		return
	}
	s.Vortex = influence.NewVortexMatrix(s.Mesh, s.uInf)
	s.aVortex = s.Vortex.Project(s.normals)
	s.vortexDir = s.uInf
}

// Circulation returns the solved panel circulation strengths, nil before the first Solve
func (s *VortexRingSolver) Circulation() []float64 {
	if s.State == nil {
		return nil
	}
	return s.State.Circulation
}

// Velocity returns the velocity at each control point, nil before the first Solve
func (s *VortexRingSolver) Velocity() []r3.Vec {
	if s.State == nil {
		return nil
	}
	return s.State.Velocity
}

// PressureCoefficient returns the pressure coefficient at each control point, nil before
// the first Solve
func (s *VortexRingSolver) PressureCoefficient() []float64 {
	if s.State == nil {
		return nil
	}
	return s.State.Cp
}

// ExportVTK writes the mesh with the panel pressure coefficients and circulations
func (s *VortexRingSolver) ExportVTK(filename string) (err error) {
	if s.State == nil {
		return ErrNoSolution
	}
	return s.Export.WriteVTKFile(filename, []Field{
		{Name: "pressure_coefficient", Values: s.State.Cp},
		{Name: "circulation", Values: s.State.Circulation},
	}, nil)
}

// ExportCaseData writes the per panel table of geometry, velocities and forces
func (s *VortexRingSolver) ExportCaseData(filename string) (err error) {
	if s.State == nil {
		return ErrNoSolution
	}
	return s.Export.WriteCaseDataFile(filename, s.State)
}
