package utils

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// NewVec3 converts a three element slice, as read from an input file, to a vector
func NewVec3(f []float64) (v r3.Vec, err error) {
	if len(f) != 3 {
		err = fmt.Errorf("expected 3 components, have %d", len(f))
		return
	}
	v = r3.Vec{X: f[0], Y: f[1], Z: f[2]}
	return
}

// DotConst returns the element-wise inner product of each vector in A with b
func DotConst(A []r3.Vec, b r3.Vec) (d []float64) {
	d = make([]float64, len(A))
	for i, a := range A {
		d[i] = r3.Dot(a, b)
	}
	return
}

// Norms returns the magnitude of each vector in A
func Norms(A []r3.Vec) (n []float64) {
	n = make([]float64, len(A))
	for i, a := range A {
		n[i] = r3.Norm(a)
	}
	return
}

// Components splits a vector array into its X, Y and Z component arrays
func Components(A []r3.Vec) (x, y, z []float64) {
	x, y, z = make([]float64, len(A)), make([]float64, len(A)), make([]float64, len(A))
	for i, a := range A {
		x[i], y[i], z[i] = a.X, a.Y, a.Z
	}
	return
}

// FromComponents is the inverse of Components
func FromComponents(x, y, z []float64) (A []r3.Vec) {
	A = make([]r3.Vec, len(x))
	for i := range A {
		A[i] = r3.Vec{X: x[i], Y: y[i], Z: z[i]}
	}
	return
}

// Sum adds all the vectors in A
func Sum(A []r3.Vec) (s r3.Vec) {
	for _, a := range A {
		s = r3.Add(s, a)
	}
	return
}
