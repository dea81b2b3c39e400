package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/gopan/linsys"
	"github.com/notargets/gopan/mesh"
	"github.com/notargets/gopan/solver"
	"github.com/notargets/gopan/supersonic"
	"github.com/notargets/gopan/utils"
)

// Parameters obtained from the YAML case file
type CaseParameters struct {
	Title           string    `json:"Title"`
	Geometry        Geometry  `json:"Geometry"`
	Freestream      []float64 `json:"Freestream"` // Velocity vector
	Density         float64   `json:"Density"`
	Lifting         bool      `json:"Lifting"`
	Method          string    `json:"Method"` // lstsq (default), qr or direct
	MomentReference []float64 `json:"MomentReference"`
	Mach            float64   `json:"Mach"`
	Alpha           float64   `json:"Alpha"` // Degrees
	Beta            float64   `json:"Beta"`  // Degrees
}

// Geometry selects an analytic shape, zero sizes and counts take the shape's defaults
type Geometry struct {
	Type      string  `json:"Type"`
	Radius    float64 `json:"Radius"`
	NLat      int     `json:"NLat"`
	NLon      int     `json:"NLon"`
	Chord     float64 `json:"Chord"`
	Span      float64 `json:"Span"`
	Thickness float64 `json:"Thickness"`
	NChord    int     `json:"NChord"`
	NSpan     int     `json:"NSpan"`
	Length    float64 `json:"Length"`
	Width     float64 `json:"Width"`
	Nx        int     `json:"Nx"`
	Ny        int     `json:"Ny"`
}

type GeometryType uint8

const (
	Sphere GeometryType = iota
	Wing
	FlatPlate
)

var (
	GeometryNames = map[string]GeometryType{
		"sphere": Sphere,
		"wing":   Wing,
		"plate":  FlatPlate,
	}
	GeometryPrintNames = []string{"Sphere", "Rectangular Wing", "Flat Plate"}
)

func NewGeometryType(label string) (gt GeometryType, err error) {
	var ok bool
	if len(label) == 0 {
		return Sphere, nil
	}
	label = strings.ToLower(label)
	if gt, ok = GeometryNames[label]; !ok {
		err = fmt.Errorf("unable to use geometry type named %s", label)
	}
	return
}

func (gt GeometryType) Print() (txt string) {
	txt = GeometryPrintNames[gt]
	return
}

func (cp *CaseParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, cp)
}

func (cp *CaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	fmt.Printf("[%s]\t\t\t= Geometry\n", cp.Geometry.Type)
	if len(cp.Freestream) != 0 {
		fmt.Printf("%v\t\t= Freestream\n", cp.Freestream)
		fmt.Printf("%8.5f\t\t= Density\n", cp.Density)
		fmt.Printf("%v\t\t\t= Lifting\n", cp.Lifting)
		fmt.Printf("[%s]\t\t\t= Method\n", cp.Method)
		fmt.Printf("%v\t\t= Moment Reference\n", cp.MomentReference)
	}
	if cp.Mach != 0 {
		fmt.Printf("%8.5f\t\t= Mach\n", cp.Mach)
		fmt.Printf("%8.5f\t\t= Alpha\n", cp.Alpha)
		fmt.Printf("%8.5f\t\t= Beta\n", cp.Beta)
	}
}

// FreestreamCondition returns the incompressible condition, Freestream and Density are required
func (cp *CaseParameters) FreestreamCondition() (fs solver.Freestream, err error) {
	if fs.Velocity, err = utils.NewVec3(cp.Freestream); err != nil {
		err = fmt.Errorf("%w: Freestream: %v", solver.ErrBadCondition, err)
		return
	}
	fs.Density = cp.Density
	err = fs.Validate()
	return
}

// SolveOptions requires the moment reference point, Lifting and Method are optional
func (cp *CaseParameters) SolveOptions(verbose bool) (opts solver.SolveOptions, err error) {
	opts.Lifting = cp.Lifting
	opts.Verbose = verbose
	if opts.Method, err = linsys.NewMethod(cp.Method); err != nil {
		return
	}
	if opts.MomentReference, err = utils.NewVec3(cp.MomentReference); err != nil {
		err = fmt.Errorf("MomentReference is required: %w", err)
	}
	return
}

func (cp *CaseParameters) SupersonicCondition() (c supersonic.Condition, err error) {
	c = supersonic.Condition{Mach: cp.Mach, Alpha: cp.Alpha, Beta: cp.Beta}
	err = c.Validate()
	return
}

// BuildMesh constructs the selected shape
func (cp *CaseParameters) BuildMesh() (m *mesh.Mesh, err error) {
	var (
		g  = cp.Geometry
		gt GeometryType
	)
	if gt, err = NewGeometryType(g.Type); err != nil {
		return
	}
	switch gt {
	case Wing:
		return mesh.NewWing(orFloat(g.Chord, 1), orFloat(g.Span, 4), orFloat(g.Thickness, 0.12),
			orInt(g.NChord, 10), orInt(g.NSpan, 8))
	case FlatPlate:
		return mesh.NewFlatPlate(orFloat(g.Length, 1), orFloat(g.Width, 1), orInt(g.Nx, 1), orInt(g.Ny, 1))
	case Sphere:
		fallthrough
	default:
		return mesh.NewSphere(orFloat(g.Radius, 1), orInt(g.NLat, 12), orInt(g.NLon, 16))
	}
}

func orFloat(val, def float64) float64 {
	if val == 0 {
		return def
	}
	return val
}

func orInt(val, def int) int {
	if val == 0 {
		return def
	}
	return val
}
