package solver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/gopan/mesh"
)

// Field is a named scalar array written with the mesh, one value per panel or per vertex
type Field struct {
	Name   string
	Values []float64
}

// Exporter writes mesh based results, shared by the solver variants
type Exporter struct {
	Mesh *mesh.Mesh
}

func NewExporter(m *mesh.Mesh) *Exporter {
	return &Exporter{Mesh: m}
}

// WriteVTKFile writes a legacy ASCII VTK file, the name must carry the .vtk extension
func (ex *Exporter) WriteVTKFile(filename string, cellData, pointData []Field) (err error) {
	if strings.ToLower(filepath.Ext(filename)) != ".vtk" {
		return fmt.Errorf("filename for VTK export must have a .vtk extension: %s", filename)
	}
	return writeFile(filename, func(w io.Writer) error {
		return ex.WriteVTK(w, cellData, pointData)
	})
}

// WriteVTK writes the panels as POLYDATA polygons followed by the cell and point fields
func (ex *Exporter) WriteVTK(w io.Writer, cellData, pointData []Field) (err error) {
	var (
		m    = ex.Mesh
		size int
	)
	for _, f := range cellData {
		if len(f.Values) != m.NumPanels {
			return fmt.Errorf("cell field %s has %d values, mesh has %d panels", f.Name, len(f.Values), m.NumPanels)
		}
	}
	for _, f := range pointData {
		if len(f.Values) != m.NumVertices {
			return fmt.Errorf("point field %s has %d values, mesh has %d vertices", f.Name, len(f.Values), m.NumVertices)
		}
	}
	fmt.Fprintf(w, "# vtk DataFile Version 3.0\n")
	fmt.Fprintf(w, "gopan results file: %s\n", m.Name)
	fmt.Fprintf(w, "ASCII\n")
	fmt.Fprintf(w, "DATASET POLYDATA\n")
	fmt.Fprintf(w, "POINTS %d float\n", m.NumVertices)
	for _, v := range m.Vertices {
		fmt.Fprintf(w, "%-20.12g %-20.12g %-20.12g\n", v.X, v.Y, v.Z)
	}
	for _, p := range m.Panels {
		size += len(p.Vertices) + 1
	}
	fmt.Fprintf(w, "POLYGONS %d %d\n", m.NumPanels, size)
	for _, p := range m.Panels {
		fmt.Fprintf(w, "%d", len(p.Vertices))
		for _, vi := range p.Vertices {
			fmt.Fprintf(w, " %d", vi)
		}
		fmt.Fprintf(w, "\n")
	}
	writeFields := func(header string, count int, fields []Field) {
		if len(fields) == 0 {
			return
		}
		fmt.Fprintf(w, "%s %d\n", header, count)
		for _, f := range fields {
			fmt.Fprintf(w, "SCALARS %s float 1\n", f.Name)
			fmt.Fprintf(w, "LOOKUP_TABLE default\n")
			for _, val := range f.Values {
				fmt.Fprintf(w, "%-20.12g\n", val)
			}
		}
	}
	writeFields("CELL_DATA", m.NumPanels, cellData)
	writeFields("POINT_DATA", m.NumVertices, pointData)
	return
}

// WriteCaseDataFile writes the per panel solution table to a text file
func (ex *Exporter) WriteCaseDataFile(filename string, st *State) (err error) {
	return writeFile(filename, func(w io.Writer) error {
		return ex.WriteCaseData(w, st)
	})
}

// WriteCaseData writes one row per panel: control point, normal, area, velocity, speed,
// pressure coefficient, panel force and circulation
func (ex *Exporter) WriteCaseData(w io.Writer, st *State) (err error) {
	m := ex.Mesh
	if len(st.Cp) != m.NumPanels {
		return fmt.Errorf("solution has %d panels, mesh has %d", len(st.Cp), m.NumPanels)
	}
	header := []string{"Control (x)", "Control (y)", "Control (z)", "nx", "ny", "nz", "Area",
		"u", "v", "w", "V", "C_P", "dFx", "dFy", "dFz", "circ"}
	fmt.Fprintf(w, "#")
	for _, h := range header {
		fmt.Fprintf(w, " %-20s", h)
	}
	fmt.Fprintf(w, "\n")
	for i, p := range m.Panels {
		row := []float64{
			p.Control.X, p.Control.Y, p.Control.Z,
			p.Normal.X, p.Normal.Y, p.Normal.Z, p.Area,
			st.Velocity[i].X, st.Velocity[i].Y, st.Velocity[i].Z, st.Speed[i], st.Cp[i],
			st.PanelForce[i].X, st.PanelForce[i].Y, st.PanelForce[i].Z, st.Circulation[i],
		}
		for _, val := range row {
			fmt.Fprintf(w, " %20.12e", val)
		}
		fmt.Fprintf(w, "\n")
	}
	return
}

func writeFile(filename string, write func(w io.Writer) error) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(file)
	if err = write(bw); err != nil {
		return
	}
	return bw.Flush()
}
