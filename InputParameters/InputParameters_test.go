package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gopan/linsys"
	"github.com/notargets/gopan/solver"
	"github.com/notargets/gopan/supersonic"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Geometry:
  Type: Wing
  Span: 6
  NChord: 4
  NSpan: 3
Freestream: [-100., 0., -8.7]
Density: 0.0023769
Lifting: true
Method: QR
MomentReference: [0.25, 0, 0]
Mach: 1.6
Alpha: 2.5
`)
	var cp CaseParameters
	require.NoError(t, cp.Parse(fileInput))
	cp.Print()
	assert.Equal(t, "Test Case", cp.Title)
	{
		fs, err := cp.FreestreamCondition()
		require.NoError(t, err)
		assert.Equal(t, r3.Vec{X: -100, Z: -8.7}, fs.Velocity)
		assert.Equal(t, 0.0023769, fs.Density)
	}
	{
		opts, err := cp.SolveOptions(true)
		require.NoError(t, err)
		assert.True(t, opts.Lifting)
		assert.True(t, opts.Verbose)
		assert.Equal(t, linsys.QR, opts.Method)
		assert.Equal(t, r3.Vec{X: 0.25}, opts.MomentReference)
	}
	{
		c, err := cp.SupersonicCondition()
		require.NoError(t, err)
		assert.Equal(t, supersonic.Condition{Mach: 1.6, Alpha: 2.5}, c)
	}
	{
		m, err := cp.BuildMesh()
		require.NoError(t, err)
		// Defaults fill in the chord and thickness
		assert.Len(t, m.KuttaEdges, 3)
		assert.Equal(t, 2*4*3+2, m.NumPanels)
		assert.InDelta(t, 6., m.Vertices[len(m.Vertices)-1].Y-m.Vertices[0].Y, 1.e-12)
	}
}

func TestDefaults(t *testing.T) {
	var cp CaseParameters
	require.NoError(t, cp.Parse([]byte("Freestream: [10, 0, 0]\nDensity: 1\nMomentReference: [0, 0, 0]\n")))
	opts, err := cp.SolveOptions(false)
	require.NoError(t, err)
	assert.Equal(t, solver.SolveOptions{}, opts)
	m, err := cp.BuildMesh()
	require.NoError(t, err)
	assert.Equal(t, 12*16, m.NumPanels)
	assert.Empty(t, m.KuttaEdges)

	// The vortex case does not need a Mach number
	_, err = cp.SupersonicCondition()
	assert.True(t, errors.Is(err, supersonic.ErrSubsonic))
}

func TestBadInput(t *testing.T) {
	{
		cp := CaseParameters{Freestream: []float64{1, 2}, Density: 1}
		_, err := cp.FreestreamCondition()
		assert.True(t, errors.Is(err, solver.ErrBadCondition))
	}
	{
		cp := CaseParameters{Freestream: []float64{1, 0, 0}}
		_, err := cp.FreestreamCondition()
		assert.True(t, errors.Is(err, solver.ErrBadCondition))
	}
	{
		cp := CaseParameters{Method: "gauss", MomentReference: []float64{0, 0, 0}}
		_, err := cp.SolveOptions(false)
		assert.Error(t, err)
		cp = CaseParameters{MomentReference: []float64{1}}
		_, err = cp.SolveOptions(false)
		assert.Error(t, err)
		cp = CaseParameters{}
		_, err = cp.SolveOptions(false)
		assert.Error(t, err)
	}
	{
		cp := CaseParameters{Geometry: Geometry{Type: "torus"}}
		_, err := cp.BuildMesh()
		assert.Error(t, err)
		cp.Geometry = Geometry{Type: "plate", Nx: 2, Ny: 3}
		m, err := cp.BuildMesh()
		require.NoError(t, err)
		assert.Equal(t, 6, m.NumPanels)
	}
	var cp CaseParameters
	assert.Error(t, cp.Parse([]byte("Freestream: fast\n")))
}

func TestGeometryType(t *testing.T) {
	for label, want := range map[string]GeometryType{"": Sphere, "SPHERE": Sphere, "wing": Wing, "Plate": FlatPlate} {
		gt, err := NewGeometryType(label)
		require.NoError(t, err)
		assert.Equal(t, want, gt)
	}
	assert.Equal(t, "Rectangular Wing", Wing.Print())
}
