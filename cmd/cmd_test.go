package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCase(t *testing.T, txt string) (filename string) {
	filename = filepath.Join(t.TempDir(), "case.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(txt), 0644))
	return
}

func TestRunVortex(t *testing.T) {
	fileInput := `
Title: Test Case
Geometry:
  Type: sphere
  NLat: 6
  NLon: 8
Freestream: [-10., 0., 0.]
Density: 1.225
Method: qr
MomentReference: [0, 0, 0]
`
	cp, err := processInput(writeCase(t, fileInput))
	require.NoError(t, err)
	dir := t.TempDir()
	mv := &ModelVortex{
		VTKFile:      filepath.Join(dir, "sphere.vtk"),
		CaseDataFile: filepath.Join(dir, "sphere.dat"),
	}
	loads, err := RunVortex(mv, cp)
	require.NoError(t, err)
	assert.Equal(t, 6*8+1, loads.Diagnostics.Rows)
	assert.FileExists(t, mv.VTKFile)
	assert.FileExists(t, mv.CaseDataFile)

	// The vortex case needs a freestream
	cp.Freestream = nil
	_, err = RunVortex(&ModelVortex{}, cp)
	assert.Error(t, err)
}

func TestRunSupersonic(t *testing.T) {
	fileInput := `
Title: Wing
Geometry:
  Type: wing
  NChord: 4
  NSpan: 2
Mach: 2.
Alpha: 3.
`
	cp, err := processInput(writeCase(t, fileInput))
	require.NoError(t, err)
	ms := &ModelSupersonic{VTKFile: filepath.Join(t.TempDir(), "dod.vtk")}
	r, err := RunSupersonic(ms, cp)
	require.NoError(t, err)
	assert.Empty(t, r.Mismatches)
	assert.Equal(t, r.BruteForceCount, r.RecursiveCount)
	assert.FileExists(t, ms.VTKFile)

	cp.Mach = 0.8
	_, err = RunSupersonic(&ModelSupersonic{}, cp)
	assert.Error(t, err)
}

func TestProcessInput(t *testing.T) {
	_, err := processInput("")
	assert.Error(t, err)
	_, err = processInput(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = processInput(writeCase(t, "Density: [1, 2\n"))
	assert.Error(t, err)
}
