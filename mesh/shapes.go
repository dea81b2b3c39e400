package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NewSphere builds a UV sphere of NLat latitude bands and NLon meridians with its poles on
// the z axis. The mesh is mirror symmetric about the x=0, y=0 and z=0 planes.
func NewSphere(radius float64, NLat, NLon int) (m *Mesh, err error) {
	if NLat < 2 || NLon < 3 || radius <= 0 {
		err = fmt.Errorf("sphere needs NLat >= 2, NLon >= 3 and radius > 0, have %d, %d, %g",
			NLat, NLon, radius)
		return
	}
	var (
		Nv       = 2 + (NLat-1)*NLon
		vertices = make([]r3.Vec, 0, Nv)
		loops    [][]int
		south    = Nv - 1
	)
	ring := func(i, j int) int { return 1 + (i-1)*NLon + (j % NLon) }
	vertices = append(vertices, r3.Vec{Z: radius})
	for i := 1; i < NLat; i++ {
		theta := math.Pi * float64(i) / float64(NLat)
		for j := 0; j < NLon; j++ {
			phi := 2. * math.Pi * float64(j) / float64(NLon)
			vertices = append(vertices, r3.Vec{
				X: radius * math.Sin(theta) * math.Cos(phi),
				Y: radius * math.Sin(theta) * math.Sin(phi),
				Z: radius * math.Cos(theta),
			})
		}
	}
	vertices = append(vertices, r3.Vec{Z: -radius})
	for j := 0; j < NLon; j++ {
		loops = append(loops, []int{0, ring(1, j), ring(1, j+1)})
	}
	for i := 1; i < NLat-1; i++ {
		for j := 0; j < NLon; j++ {
			loops = append(loops, []int{ring(i, j), ring(i+1, j), ring(i+1, j+1), ring(i, j+1)})
		}
	}
	for j := 0; j < NLon; j++ {
		loops = append(loops, []int{south, ring(NLat-1, j+1), ring(NLat-1, j)})
	}
	return newClosedMesh(fmt.Sprintf("sphere_%dx%d", NLat, NLon), vertices, loops)
}

// NewFlatPlate builds an open Nx by Ny grid of quadrilaterals in the z=0 plane with +z normals
func NewFlatPlate(length, width float64, Nx, Ny int) (m *Mesh, err error) {
	if Nx < 1 || Ny < 1 {
		err = fmt.Errorf("flat plate needs at least one panel in each direction, have %d, %d", Nx, Ny)
		return
	}
	var (
		vertices = make([]r3.Vec, 0, (Nx+1)*(Ny+1))
		loops    = make([][]int, 0, Nx*Ny)
	)
	idx := func(i, j int) int { return j*(Nx+1) + i }
	for j := 0; j <= Ny; j++ {
		for i := 0; i <= Nx; i++ {
			vertices = append(vertices, r3.Vec{
				X: length * float64(i) / float64(Nx),
				Y: width * float64(j) / float64(Ny),
			})
		}
	}
	for j := 0; j < Ny; j++ {
		for i := 0; i < Nx; i++ {
			loops = append(loops, []int{idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)})
		}
	}
	return NewMesh(fmt.Sprintf("plate_%dx%d", Nx, Ny), vertices, loops)
}

// NewWing builds a closed rectangular wing with a biconvex section. The leading edge lies
// on the y axis, the sharp trailing edge at x = -chord, and the trailing edge segments are
// registered as Kutta edges.
func NewWing(chord, span, thickness float64, NChord, NSpan int) (m *Mesh, err error) {
	if NChord < 2 || NSpan < 1 || chord <= 0 || span <= 0 || thickness <= 0 {
		err = fmt.Errorf("wing needs NChord >= 2, NSpan >= 1 and positive dimensions")
		return
	}
	var (
		Ns       = 2 * NChord // Vertices around one section
		vertices = make([]r3.Vec, 0, Ns*(NSpan+1))
		loops    [][]int
		tePairs  [][2]int
	)
	idx := func(s, k int) int { return s*Ns + (k % Ns) }
	for s := 0; s <= NSpan; s++ {
		y := span * (float64(s)/float64(NSpan) - 0.5)
		for k := 0; k < Ns; k++ {
			var xi, sign float64
			if k <= NChord {
				xi, sign = float64(k)/float64(NChord), 1
			} else {
				xi, sign = float64(Ns-k)/float64(NChord), -1
			}
			vertices = append(vertices, r3.Vec{
				X: -chord * xi,
				Y: y,
				Z: sign * 2. * thickness * chord * xi * (1. - xi),
			})
		}
	}
	for s := 0; s < NSpan; s++ {
		for k := 0; k < Ns; k++ {
			loops = append(loops, []int{idx(s, k), idx(s, k+1), idx(s+1, k+1), idx(s+1, k)})
		}
	}
	rootCap := make([]int, Ns)
	tipCap := make([]int, Ns)
	for k := 0; k < Ns; k++ {
		rootCap[k] = idx(0, Ns-1-k)
		tipCap[k] = idx(NSpan, k)
	}
	loops = append(loops, rootCap, tipCap)
	if m, err = newClosedMesh(fmt.Sprintf("wing_%dx%d", NChord, NSpan), vertices, loops); err != nil {
		return
	}
	for s := 0; s < NSpan; s++ {
		tePairs = append(tePairs, [2]int{idx(s, NChord), idx(s+1, NChord)})
	}
	if err = m.SetKuttaEdges(tePairs); err != nil {
		return nil, err
	}
	return
}

// newClosedMesh reverses every loop if the consistently oriented input has inward normals
func newClosedMesh(name string, vertices []r3.Vec, loops [][]int) (m *Mesh, err error) {
	if m, err = NewMesh(name, vertices, loops); err != nil {
		return
	}
	if m.SignedVolume() > 0 {
		return
	}
	for _, loop := range loops {
		for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
			loop[i], loop[j] = loop[j], loop[i]
		}
	}
	return NewMesh(name, vertices, loops)
}
