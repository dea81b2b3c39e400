package supersonic

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrSubsonic = errors.New("supersonic condition needs Mach > 1")

// Condition is the linearized supersonic freestream. Mach is required, Alpha and Beta are
// the angle of attack and sideslip in degrees and default to zero.
type Condition struct {
	Mach        float64
	Alpha, Beta float64
}

func (c Condition) Validate() (err error) {
	if !(c.Mach > 1) || math.IsInf(c.Mach, 0) {
		return fmt.Errorf("%w: have %g", ErrSubsonic, c.Mach)
	}
	return
}

// Vertex is one record of the engine's arena, indexed by mesh vertex id
type Vertex struct {
	Position r3.Vec
	DoD      []int // Vertices in the domain of dependence, in discovery order
	inDoD    []bool
	Computed bool
}

// Engine computes the domain of dependence of every vertex for one condition at a time.
// Its state is mutated in place and must not be shared between concurrent solves.
type Engine struct {
	Vertices []Vertex
	Sorted   []int // Vertex ids from most downstream to most upstream
	Visits   int   // Vertices expanded by the last recursive search
	// Mach parameters
	C0         r3.Vec // Compressibility direction
	M, B, B2   float64
	CMu, Mu    float64 // Cosine of the Mach angle and the angle
	proj       []float64
	bruteForce [][]bool
}

func NewEngine(positions []r3.Vec) (e *Engine) {
	N := len(positions)
	e = &Engine{
		Vertices:   make([]Vertex, N),
		bruteForce: make([][]bool, N),
		proj:       make([]float64, N),
	}
	for i, p := range positions {
		e.Vertices[i] = Vertex{Position: p, inDoD: make([]bool, N)}
		e.bruteForce[i] = make([]bool, N)
	}
	return
}

// SetCondition derives the compressibility direction and Mach parameters, clears all
// dependency state and orders the vertices along the compressibility direction
func (e *Engine) SetCondition(c Condition) (err error) {
	if err = c.Validate(); err != nil {
		return
	}
	var (
		alpha = c.Alpha * math.Pi / 180.
		beta  = c.Beta * math.Pi / 180.
	)
	e.C0 = r3.Vec{
		X: math.Cos(alpha) * math.Cos(beta),
		Y: math.Sin(beta),
		Z: math.Sin(alpha) * math.Cos(beta),
	}
	e.M = c.Mach
	e.B2 = c.Mach*c.Mach - 1.
	e.B = math.Sqrt(e.B2)
	e.CMu = e.B / c.Mach
	e.Mu = math.Acos(e.CMu)
	e.Reset()
	for i, v := range e.Vertices {
		e.proj[i] = r3.Dot(v.Position, e.C0)
	}
	e.Sorted = make([]int, len(e.Vertices))
	for i := range e.Sorted {
		e.Sorted[i] = i
	}
	sort.SliceStable(e.Sorted, func(i, j int) bool {
		return e.proj[e.Sorted[i]] < e.proj[e.Sorted[j]]
	})
	return
}

// Reset clears every dependency set and memo flag
func (e *Engine) Reset() {
	for i := range e.Vertices {
		v := &e.Vertices[i]
		v.DoD = v.DoD[:0]
		clear(v.inDoD)
		v.Computed = false
		clear(e.bruteForce[i])
	}
	e.Visits = 0
}

// InCone reports whether q is in the domain of dependence of p: upstream along the
// compressibility direction and inside the Mach cone with its apex at p
func (e *Engine) InCone(p, q r3.Vec) bool {
	r := r3.Sub(q, p)
	return e.inCone(r, r3.Dot(r, e.C0))
}

// depends is the predicate of the recursive search. It takes the axial distance from the
// projections used for sorting so the search order and the predicate always agree.
func (e *Engine) depends(v, u int) bool {
	return e.inCone(r3.Sub(e.Vertices[u].Position, e.Vertices[v].Position), e.proj[u]-e.proj[v])
}

func (e *Engine) inCone(r r3.Vec, x float64) bool {
	if !(x > 0) {
		return false
	}
	rc := r3.Sub(r, r3.Scale(x, e.C0))
	return x*x >= e.B2*r3.Dot(rc, rc)
}

// HyperbolicDistance is sqrt(x^2 - B^2 r^2) between p and q, NaN outside the Mach cone
func (e *Engine) HyperbolicDistance(p, q r3.Vec) float64 {
	var (
		r  = r3.Sub(q, p)
		x  = r3.Dot(r, e.C0)
		rc = r3.Norm(r3.Sub(r, r3.Scale(x, e.C0)))
	)
	return math.Sqrt(x*x - e.B2*rc*rc)
}

type frame struct {
	v, next, child int
}

// RunRecursive builds every vertex's full transitive domain of dependence. Vertices are
// expanded from most downstream to most upstream, a dependent vertex is completed before
// its set is merged into the caller's, and each vertex is expanded exactly once. The
// recursion is carried on an explicit stack, its depth can reach the vertex count.
func (e *Engine) RunRecursive() (elapsed time.Duration) {
	var (
		start = time.Now()
		N     = len(e.Vertices)
		stack = make([]frame, 0, 64)
	)
	for i, vi := range e.Sorted {
		if e.Vertices[vi].Computed {
			continue
		}
		stack = append(stack, frame{v: vi, next: i + 1, child: -1})
		e.Visits++
		for len(stack) != 0 {
			top := len(stack) - 1
			f := &stack[top]
			if f.child >= 0 {
				e.merge(f.v, f.child)
				f.child = -1
			}
			pushed := false
			for f.next < N {
				j := f.next
				f.next++
				u := e.Sorted[j]
				if e.Vertices[f.v].inDoD[u] || !e.depends(f.v, u) {
					continue
				}
				e.add(f.v, u)
				if e.Vertices[u].Computed {
					e.merge(f.v, u)
					continue
				}
				f.child = u
				stack = append(stack, frame{v: u, next: j + 1, child: -1})
				e.Visits++
				pushed = true
				break
			}
			if !pushed {
				e.Vertices[stack[top].v].Computed = true
				stack = stack[:top]
			}
		}
	}
	return time.Since(start)
}

func (e *Engine) add(v, u int) {
	vv := &e.Vertices[v]
	vv.inDoD[u] = true
	vv.DoD = append(vv.DoD, u)
}

// merge adds the dependents of u to the set of v
func (e *Engine) merge(v, u int) {
	vv := &e.Vertices[v]
	for _, w := range e.Vertices[u].DoD {
		if !vv.inDoD[w] {
			vv.inDoD[w] = true
			vv.DoD = append(vv.DoD, w)
		}
	}
}

// RunBruteForce applies InCone to the positions of every ordered vertex pair, it does not
// read the sort order or the projections of the recursive search
func (e *Engine) RunBruteForce() (elapsed time.Duration) {
	start := time.Now()
	for v := range e.Vertices {
		p := e.Vertices[v].Position
		for u := range e.Vertices {
			e.bruteForce[v][u] = e.InCone(p, e.Vertices[u].Position)
		}
	}
	return time.Since(start)
}

// DependencySet returns the sorted ids in the domain of dependence of vertex v
func (e *Engine) DependencySet(v int) (set []int) {
	set = append([]int(nil), e.Vertices[v].DoD...)
	sort.Ints(set)
	return
}

// BruteForceSet returns the sorted ids the brute force search found for vertex v
func (e *Engine) BruteForceSet(v int) (set []int) {
	for u, in := range e.bruteForce[v] {
		if in {
			set = append(set, u)
		}
	}
	return
}

// InDependencySet reports whether u is in the domain of dependence of v
func (e *Engine) InDependencySet(v, u int) bool {
	return e.Vertices[v].inDoD[u]
}

// Report compares the two searches
type Report struct {
	Mismatches                      [][2]int // (vertex, dependency) pairs the searches disagree on
	RecursiveCount, BruteForceCount int
	RecursiveTime, BruteForceTime   time.Duration
}

func (r *Report) Print() {
	fmt.Printf("Searches disagree for %d dependencies.\n", len(r.Mismatches))
	if len(r.Mismatches) != 0 {
		fmt.Printf("    Recursive search found %d dependencies.\n", r.RecursiveCount)
		fmt.Printf("    Brute force search found %d dependencies.\n", r.BruteForceCount)
	}
	fmt.Printf("    Recursive search time: %v\n", r.RecursiveTime)
	fmt.Printf("    Brute force search time: %v\n", r.BruteForceTime)
}

// Compare lists every pair on which the recursive and brute force searches disagree
func (e *Engine) Compare() (r *Report) {
	r = &Report{}
	for v := range e.Vertices {
		for u, bf := range e.bruteForce[v] {
			rec := e.Vertices[v].inDoD[u]
			if rec {
				r.RecursiveCount++
			}
			if bf {
				r.BruteForceCount++
			}
			if rec != bf {
				r.Mismatches = append(r.Mismatches, [2]int{v, u})
			}
		}
	}
	return
}

// Run resets the engine for the condition and performs both searches and their comparison
func (e *Engine) Run(c Condition) (r *Report, err error) {
	if err = e.SetCondition(c); err != nil {
		return
	}
	recursive := e.RunRecursive()
	bruteForce := e.RunBruteForce()
	r = e.Compare()
	r.RecursiveTime, r.BruteForceTime = recursive, bruteForce
	return
}
