package influence

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gopan/utils"
)

const oo4pi = 1. / (4. * math.Pi)

// Segment returns the velocity induced at x by a unit strength vortex filament running
// from a to b. Points on the filament or its extension receive no contribution.
func Segment(a, b, x r3.Vec) (v r3.Vec) {
	var (
		r1, r2 = r3.Sub(x, a), r3.Sub(x, b)
		n1, n2 = r3.Norm(r1), r3.Norm(r2)
		n1n2   = n1 * n2
		den    = n1n2 + r3.Dot(r1, r2)
	)
	if n1 < utils.CORETOL || n2 < utils.CORETOL || den <= utils.CORETOL*n1n2 {
		return
	}
	return r3.Scale(oo4pi*(n1+n2)/(n1n2*den), r3.Cross(r1, r2))
}

// SemiInfinite returns the velocity induced at x by a unit strength vortex filament that
// starts at a and extends to infinity along the unit direction u
func SemiInfinite(a, u, x r3.Vec) (v r3.Vec) {
	var (
		r   = r3.Sub(x, a)
		n   = r3.Norm(r)
		den = n - r3.Dot(u, r)
	)
	if n < utils.CORETOL || den <= utils.CORETOL*n {
		return
	}
	return r3.Scale(oo4pi/(n*den), r3.Cross(u, r))
}

// Ring sums the segment contributions of the closed loop through the given points
func Ring(loop []r3.Vec, x r3.Vec) (v r3.Vec) {
	nv := len(loop)
	for k := range loop {
		v = r3.Add(v, Segment(loop[k], loop[(k+1)%nv], x))
	}
	return
}

// TrailingPair is the pair of semi-infinite legs shed from a Kutta edge a->b: one leaving
// b downstream and one arriving at a from downstream, so vorticity is continuous at both ends.
func TrailingPair(a, b, u, x r3.Vec) r3.Vec {
	return r3.Sub(SemiInfinite(b, u, x), SemiInfinite(a, u, x))
}
