package influence

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gopan/mesh"
	"github.com/notargets/gopan/utils"
)

// Matrix holds the velocity induced at every control point by a unit strength singularity
// on every panel, split by component. Entry [i, j] of each component is the influence of
// source panel i on field panel j. A Matrix is read only once built.
type Matrix struct {
	N       int
	X, Y, Z *mat.Dense
}

func newMatrix(N int) *Matrix {
	return &Matrix{
		N: N,
		X: mat.NewDense(N, N, nil),
		Y: mat.NewDense(N, N, nil),
		Z: mat.NewDense(N, N, nil),
	}
}

func (im *Matrix) set(i, j int, v r3.Vec) {
	im.X.Set(i, j, v.X)
	im.Y.Set(i, j, v.Y)
	im.Z.Set(i, j, v.Z)
}

// At returns the velocity induced at control point j by unit circulation on panel i
func (im *Matrix) At(i, j int) r3.Vec {
	return r3.Vec{X: im.X.At(i, j), Y: im.Y.At(i, j), Z: im.Z.At(i, j)}
}

// NewRingMatrix builds the vortex ring influence of each panel's vertex loop on every
// control point. It depends on geometry only and can be shared between solvers.
func NewRingMatrix(m *mesh.Mesh) (im *Matrix) {
	var (
		N  = m.NumPanels
		cp = m.Controls()
	)
	im = newMatrix(N)
	loop := make([]r3.Vec, 0, 4)
	for i, p := range m.Panels {
		loop = loop[:0]
		for _, vi := range p.Vertices {
			loop = append(loop, m.Vertices[vi])
		}
		for j := 0; j < N; j++ {
			im.set(i, j, Ring(loop, cp[j]))
		}
	}
	return
}

// NewVortexMatrix builds the influence of the trailing legs shed from each Kutta edge,
// aligned with the unit freestream direction uInf. The legs of an edge enter the row of
// the panel traversing the edge forward with +1 and the row of its neighbor with -1.
func NewVortexMatrix(m *mesh.Mesh, uInf r3.Vec) (im *Matrix) {
	var (
		N  = m.NumPanels
		NE = len(m.KuttaEdges)
		cp = m.Controls()
	)
	if NE == 0 {
		return newMatrix(N)
	}
	incidence := Incidence(m)
	legs := newLegs(NE, N)
	for e, ke := range m.KuttaEdges {
		a, b := m.Vertices[ke.Vertices[0]], m.Vertices[ke.Vertices[1]]
		for j := 0; j < N; j++ {
			v := TrailingPair(a, b, uInf, cp[j])
			legs[0].Set(e, j, v.X)
			legs[1].Set(e, j, v.Y)
			legs[2].Set(e, j, v.Z)
		}
	}
	im = &Matrix{N: N, X: &mat.Dense{}, Y: &mat.Dense{}, Z: &mat.Dense{}}
	im.X.Mul(incidence, legs[0])
	im.Y.Mul(incidence, legs[1])
	im.Z.Mul(incidence, legs[2])
	return
}

func newLegs(NE, N int) (legs [3]*mat.Dense) {
	for n := range legs {
		legs[n] = mat.NewDense(NE, N, nil)
	}
	return
}

// Incidence is the signed panel by Kutta edge incidence matrix
func Incidence(m *mesh.Mesh) *sparse.CSR {
	dok := sparse.NewDOK(m.NumPanels, len(m.KuttaEdges))
	for e, ke := range m.KuttaEdges {
		dok.Set(ke.Panels[0], e, dok.At(ke.Panels[0], e)+1)
		dok.Set(ke.Panels[1], e, dok.At(ke.Panels[1], e)-1)
	}
	return dok.ToCSR()
}

// Project contracts the influence with the field panel normals, row j of the result is the
// flow tangency equation at control point j and column i the unknown of source panel i.
func (im *Matrix) Project(normals []r3.Vec) (A *mat.Dense) {
	var (
		nx, ny, nz = utils.Components(normals)
		scaled     mat.Dense
	)
	A = mat.NewDense(im.N, im.N, nil)
	for _, c := range []struct {
		M *mat.Dense
		n []float64
	}{{im.X, nx}, {im.Y, ny}, {im.Z, nz}} {
		scaled.Apply(func(j, i int, v float64) float64 { return v * c.n[j] }, c.M.T())
		A.Add(A, &scaled)
	}
	return
}

// Velocities returns the circulation weighted sum over source panels at each control point
func (im *Matrix) Velocities(gamma mat.Vector) (v []r3.Vec) {
	var vx, vy, vz mat.VecDense
	vx.MulVec(im.X.T(), gamma)
	vy.MulVec(im.Y.T(), gamma)
	vz.MulVec(im.Z.T(), gamma)
	return utils.FromComponents(vx.RawVector().Data, vy.RawVector().Data, vz.RawVector().Data)
}
