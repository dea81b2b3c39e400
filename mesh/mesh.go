package mesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gopan/utils"
)

var (
	ErrNoPanels        = errors.New("mesh has no panels")
	ErrDegeneratePanel = errors.New("degenerate panel")
	ErrBadIndex        = errors.New("vertex index out of range")
	ErrBadKuttaEdge    = errors.New("invalid kutta edge")
)

// Panel is a planar (or near planar) surface patch carrying one unknown circulation strength
type Panel struct {
	Index    int
	Vertices []int  // Vertex loop, counter-clockwise when viewed against Normal
	Control  r3.Vec // Control point, the vertex centroid
	Normal   r3.Vec // Unit outward normal
	Area     float64
}

// KuttaEdge is a trailing edge shared by two panels. Panels[0] traverses the edge from
// Vertices[0] to Vertices[1], Panels[1] traverses it in reverse.
type KuttaEdge struct {
	Vertices [2]int
	Panels   [2]int
}

// Edge is a unique panel edge, Vertices are sorted
type Edge struct {
	Vertices [2]int
	Panels   []int
}

// Mesh is the surface representation consumed by the solvers, immutable once built
type Mesh struct {
	Name       string
	Vertices   []r3.Vec
	Panels     []Panel
	KuttaEdges []KuttaEdge

	// Connectivity (built during initialization)
	Edges   []Edge
	EdgeMap map[[2]int]int // Map from sorted vertex pair to edge ID

	NumPanels   int
	NumVertices int
	NumEdges    int
}

// NewMesh computes panel geometry from the vertex loops, builds edge connectivity and
// validates the result. Degenerate panels are rejected here so that nothing downstream
// sees them.
func NewMesh(name string, vertices []r3.Vec, loops [][]int) (m *Mesh, err error) {
	if len(loops) == 0 {
		err = ErrNoPanels
		return
	}
	m = &Mesh{
		Name:        name,
		Vertices:    vertices,
		Panels:      make([]Panel, len(loops)),
		EdgeMap:     make(map[[2]int]int),
		NumPanels:   len(loops),
		NumVertices: len(vertices),
	}
	for i, loop := range loops {
		if m.Panels[i], err = m.newPanel(i, loop); err != nil {
			return nil, err
		}
	}
	m.BuildConnectivity()
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}

func (m *Mesh) newPanel(index int, loop []int) (p Panel, err error) {
	var (
		nv      = len(loop)
		areaVec r3.Vec
	)
	if nv < 3 {
		err = fmt.Errorf("%w: panel %d has %d vertices", ErrDegeneratePanel, index, nv)
		return
	}
	for k, vi := range loop {
		if vi < 0 || vi >= len(m.Vertices) {
			err = fmt.Errorf("%w: panel %d references vertex %d, have %d vertices",
				ErrBadIndex, index, vi, len(m.Vertices))
			return
		}
		next := loop[(k+1)%nv]
		if next >= 0 && next < len(m.Vertices) &&
			r3.Norm(r3.Sub(m.Vertices[next], m.Vertices[vi])) <= utils.NODETOL {
			err = fmt.Errorf("%w: panel %d has a zero length edge %d-%d", ErrDegeneratePanel, index, vi, next)
			return
		}
		p.Control = r3.Add(p.Control, m.Vertices[vi])
	}
	p.Control = r3.Scale(1./float64(nv), p.Control)
	v0 := m.Vertices[loop[0]]
	for k := 1; k < nv-1; k++ {
		a := r3.Sub(m.Vertices[loop[k]], v0)
		b := r3.Sub(m.Vertices[loop[k+1]], v0)
		areaVec = r3.Add(areaVec, r3.Cross(a, b))
	}
	p.Area = 0.5 * r3.Norm(areaVec)
	if p.Area <= utils.NODETOL {
		err = fmt.Errorf("%w: panel %d has zero area", ErrDegeneratePanel, index)
		return
	}
	p.Index = index
	p.Vertices = append([]int(nil), loop...)
	p.Normal = r3.Unit(areaVec)
	return
}

// Validate checks the panel invariants: positive area and unit length normals
func (m *Mesh) Validate() (err error) {
	if len(m.Panels) == 0 {
		return ErrNoPanels
	}
	for i, p := range m.Panels {
		if utils.IsNan(p.Normal) || math.Abs(r3.Norm(p.Normal)-1.) > utils.UNITTOL {
			return fmt.Errorf("%w: panel %d normal has length %g", ErrDegeneratePanel, i, r3.Norm(p.Normal))
		}
		if !(p.Area > 0) {
			return fmt.Errorf("%w: panel %d has area %g", ErrDegeneratePanel, i, p.Area)
		}
	}
	for _, ke := range m.KuttaEdges {
		for _, pi := range ke.Panels {
			if pi < 0 || pi >= len(m.Panels) {
				return fmt.Errorf("%w: panel index %d", ErrBadKuttaEdge, pi)
			}
		}
	}
	return
}

// BuildConnectivity finds the unique edges and the panels sharing each of them
func (m *Mesh) BuildConnectivity() {
	m.Edges = m.Edges[:0]
	m.EdgeMap = make(map[[2]int]int)
	for pi, p := range m.Panels {
		nv := len(p.Vertices)
		for k, a := range p.Vertices {
			key := edgeKey(a, p.Vertices[(k+1)%nv])
			if edgeID, exists := m.EdgeMap[key]; exists {
				m.Edges[edgeID].Panels = append(m.Edges[edgeID].Panels, pi)
			} else {
				m.EdgeMap[key] = len(m.Edges)
				m.Edges = append(m.Edges, Edge{Vertices: key, Panels: []int{pi}})
			}
		}
	}
	m.NumEdges = len(m.Edges)
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// SetKuttaEdges marks the listed vertex pairs as trailing edges. Each must be shared by
// exactly two panels, ordered so that the first panel traverses a->b.
func (m *Mesh) SetKuttaEdges(pairs [][2]int) (err error) {
	m.KuttaEdges = make([]KuttaEdge, 0, len(pairs))
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		edgeID, exists := m.EdgeMap[edgeKey(a, b)]
		if !exists {
			return fmt.Errorf("%w: no edge between vertices %d and %d", ErrBadKuttaEdge, a, b)
		}
		pp := m.Edges[edgeID].Panels
		if len(pp) != 2 {
			return fmt.Errorf("%w: edge %d-%d is shared by %d panels", ErrBadKuttaEdge, a, b, len(pp))
		}
		ke := KuttaEdge{Vertices: [2]int{a, b}}
		switch {
		case m.Panels[pp[0]].Traverses(a, b) && m.Panels[pp[1]].Traverses(b, a):
			ke.Panels = [2]int{pp[0], pp[1]}
		case m.Panels[pp[1]].Traverses(a, b) && m.Panels[pp[0]].Traverses(b, a):
			ke.Panels = [2]int{pp[1], pp[0]}
		default:
			return fmt.Errorf("%w: panels %v are not consistently oriented across edge %d-%d",
				ErrBadKuttaEdge, pp, a, b)
		}
		m.KuttaEdges = append(m.KuttaEdges, ke)
	}
	return
}

// Traverses reports whether the panel loop contains the directed segment a->b
func (p Panel) Traverses(a, b int) bool {
	nv := len(p.Vertices)
	for k, vi := range p.Vertices {
		if vi == a && p.Vertices[(k+1)%nv] == b {
			return true
		}
	}
	return false
}

// Controls returns the control point of every panel
func (m *Mesh) Controls() (cp []r3.Vec) {
	cp = make([]r3.Vec, m.NumPanels)
	for i, p := range m.Panels {
		cp[i] = p.Control
	}
	return
}

// Normals returns the unit normal of every panel
func (m *Mesh) Normals() (n []r3.Vec) {
	n = make([]r3.Vec, m.NumPanels)
	for i, p := range m.Panels {
		n[i] = p.Normal
	}
	return
}

// SignedVolume is positive for a closed mesh with outward normals
func (m *Mesh) SignedVolume() (vol float64) {
	for _, p := range m.Panels {
		vol += r3.Dot(p.Control, r3.Scale(p.Area, p.Normal)) / 3.
	}
	return
}

// TotalArea sums the panel areas
func (m *Mesh) TotalArea() (area float64) {
	for _, p := range m.Panels {
		area += p.Area
	}
	return
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics: %s\n", m.Name)
	fmt.Printf("  Vertices: %d\n", m.NumVertices)
	fmt.Printf("  Panels: %d\n", m.NumPanels)
	fmt.Printf("  Edges: %d\n", m.NumEdges)
	fmt.Printf("  Kutta edges: %d\n", len(m.KuttaEdges))

	sizeCounts := make(map[int]int)
	for _, p := range m.Panels {
		sizeCounts[len(p.Vertices)]++
	}
	fmt.Printf("  Panel types:\n")
	for nv, count := range sizeCounts {
		fmt.Printf("    %d-gon: %d\n", nv, count)
	}

	openEdges := 0
	for _, e := range m.Edges {
		if len(e.Panels) < 2 {
			openEdges++
		}
	}
	fmt.Printf("  Open edges: %d\n", openEdges)
}
