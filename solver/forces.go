package solver

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gopan/influence"
	"github.com/notargets/gopan/mesh"
	"github.com/notargets/gopan/utils"
)

// State is the solution of one solve, indexed by panel
type State struct {
	Circulation []float64
	Velocity    []r3.Vec
	Speed       []float64
	Cp          []float64
	PanelForce  []r3.Vec
	Loads
}

// Integrate reconstructs control point velocities from the circulations, the freestream
// plus the circulation weighted influence of each matrix, then the incompressible pressure
// coefficient and the normal force on each panel. Moments are taken about ref.
func Integrate(m *mesh.Mesh, fs Freestream, gamma *mat.VecDense, ref r3.Vec,
	matrices ...*influence.Matrix) (st *State) {
	var (
		N     = m.NumPanels
		VInf  = r3.Norm(fs.Velocity)
		VInf2 = VInf * VInf
	)
	st = &State{
		Circulation: append([]float64(nil), gamma.RawVector().Data[:N]...),
		Velocity:    make([]r3.Vec, N),
		Cp:          make([]float64, N),
		PanelForce:  make([]r3.Vec, N),
	}
	for j := range st.Velocity {
		st.Velocity[j] = fs.Velocity
	}
	for _, im := range matrices {
		for j, v := range im.Velocities(gamma.SliceVec(0, N)) {
			st.Velocity[j] = r3.Add(st.Velocity[j], v)
		}
	}
	st.Speed = utils.Norms(st.Velocity)
	for j, p := range m.Panels {
		V := st.Speed[j]
		st.Cp[j] = 1. - V*V/VInf2
		st.PanelForce[j] = r3.Scale(fs.Density*VInf2*p.Area*st.Cp[j], p.Normal)
		st.Moment = r3.Add(st.Moment, r3.Cross(r3.Sub(p.Control, ref), st.PanelForce[j]))
	}
	st.Force = utils.Sum(st.PanelForce)
	return
}
