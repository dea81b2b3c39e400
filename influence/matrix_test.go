package influence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gopan/mesh"
)

func TestBiotSavart(t *testing.T) {
	// A long segment approaches the infinite line, |v| = 1/(2 pi h)
	{
		L, h := 1.e3, 0.5
		v := Segment(r3.Vec{X: -L}, r3.Vec{X: L}, r3.Vec{Z: h})
		assert.InDelta(t, 0., v.X, 1.e-12)
		assert.InDelta(t, -1./(2.*math.Pi*h), v.Y, 1.e-6)
		assert.InDelta(t, 0., v.Z, 1.e-12)
	}
	// Reversing the filament exactly negates the velocity
	{
		a, b, x := r3.Vec{X: 0.1, Y: 0.2}, r3.Vec{X: 1.3, Y: -0.4, Z: 0.7}, r3.Vec{X: 0.5, Y: 1, Z: -2}
		assert.Equal(t, r3.Scale(-1, Segment(a, b, x)), Segment(b, a, x))
	}
	// Points on the filament line are skipped
	{
		assert.Equal(t, r3.Vec{}, Segment(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 0.5}))
		assert.Equal(t, r3.Vec{}, Segment(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 2}))
	}
	// Semi-infinite leg, abeam of its start point, is half the infinite line
	{
		h := 2.
		v := SemiInfinite(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Z: h})
		assert.InDelta(t, -1./(4.*math.Pi*h), v.Y, 1.e-14)
		assert.Equal(t, r3.Vec{}, SemiInfinite(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 3}))
	}
	// Unit square ring at its center, |v| = 2 sqrt(2) / pi
	{
		loop := []r3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
		v := Ring(loop, r3.Vec{X: 0.5, Y: 0.5})
		assert.InDelta(t, 2.*math.Sqrt2/math.Pi, v.Z, 1.e-12)
		assert.InDelta(t, 0., v.X, 1.e-14)
		assert.InDelta(t, 0., v.Y, 1.e-14)
	}
}

func TestRingMatrix(t *testing.T) {
	m, err := mesh.NewSphere(1, 6, 8)
	require.NoError(t, err)
	im := NewRingMatrix(m)
	r, c := im.X.Dims()
	assert.Equal(t, m.NumPanels, r)
	assert.Equal(t, m.NumPanels, c)
	// The rings of a closed surface cancel segment by segment
	for j := 0; j < m.NumPanels; j++ {
		var sum r3.Vec
		for i := 0; i < m.NumPanels; i++ {
			sum = r3.Add(sum, im.At(i, j))
		}
		assert.InDelta(t, 0., r3.Norm(sum), 1.e-12)
	}
	// Projection puts field panels on rows
	A := im.Project(m.Normals())
	assert.InDelta(t, r3.Dot(im.At(3, 5), m.Panels[5].Normal), A.At(5, 3), 1.e-15)
	// Velocities of a unit circulation on one panel recover that panel's row
	gamma := mat.NewVecDense(m.NumPanels, nil)
	gamma.SetVec(7, 1)
	v := im.Velocities(gamma)
	for j := range v {
		assert.InDelta(t, 0., r3.Norm(r3.Sub(v[j], im.At(7, j))), 1.e-15)
	}
}

func TestVortexMatrix(t *testing.T) {
	m, err := mesh.NewWing(1, 2, 0.1, 4, 3)
	require.NoError(t, err)
	uInf := r3.Vec{X: -1}
	vm := NewVortexMatrix(m, uInf)

	kuttaPanels := make(map[int]bool)
	for _, ke := range m.KuttaEdges {
		kuttaPanels[ke.Panels[0]] = true
		kuttaPanels[ke.Panels[1]] = true
		for j := 0; j < m.NumPanels; j++ {
			assert.InDelta(t, 0., r3.Norm(r3.Add(vm.At(ke.Panels[0], j), vm.At(ke.Panels[1], j))), 1.e-14)
		}
		a, b := m.Vertices[ke.Vertices[0]], m.Vertices[ke.Vertices[1]]
		cp := m.Panels[0].Control
		assert.InDelta(t, 0., r3.Norm(r3.Sub(vm.At(ke.Panels[0], 0), TrailingPair(a, b, uInf, cp))), 1.e-14)
	}
	for i := 0; i < m.NumPanels; i++ {
		if kuttaPanels[i] {
			continue
		}
		for j := 0; j < m.NumPanels; j++ {
			require.Equal(t, r3.Vec{}, vm.At(i, j))
		}
	}
	// Incidence carries one +1 and one -1 per edge
	inc := Incidence(m)
	r, c := inc.Dims()
	assert.Equal(t, m.NumPanels, r)
	assert.Equal(t, len(m.KuttaEdges), c)
	for e, ke := range m.KuttaEdges {
		assert.Equal(t, 1., inc.At(ke.Panels[0], e))
		assert.Equal(t, -1., inc.At(ke.Panels[1], e))
	}

	// No Kutta edges, no trailing vortices
	sphere, err := mesh.NewSphere(1, 4, 6)
	require.NoError(t, err)
	zero := NewVortexMatrix(sphere, uInf)
	assert.Equal(t, 0., mat.Norm(zero.X, 1))
}
