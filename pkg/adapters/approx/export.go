package approx

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ateliers3d/flacon/pkg/ports"
)

// ExportSTEP writes a minimal STEP (ISO 10303-21) document describing the
// model's extents. Real surface data needs a B-rep kernel; this keeps
// downstream tooling fed with a well-formed file until one is configured.
func (s *Session) ExportSTEP(sol ports.Solid, path string) error {
	in, err := s.guard(sol)
	if err != nil {
		return err
	}
	box, err := s.BoundingBox(in[0])
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	content := fmt.Sprintf(`ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('flacon approximate export'),'2;1');
FILE_NAME('%s','%s',(''),(''),'flacon','','');
FILE_SCHEMA(('AUTOMOTIVE_DESIGN'));
ENDSEC;
DATA;
/* extents: %.3f x %.3f x %.3f mm */
ENDSEC;
END-ISO-10303-21;
`, filepath.Base(path), time.Now().UTC().Format("2006-01-02T15:04:05"),
		box.Dimensions[0], box.Dimensions[1], box.Dimensions[2])

	return os.WriteFile(path, []byte(content), 0644)
}

// ExportBREP writes a placeholder with the same disclaimer as ExportSTEP.
func (s *Session) ExportBREP(sol ports.Solid, path string) error {
	in, err := s.guard(sol)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	content := fmt.Sprintf("DBRep_DrawableShape\n\n# flacon approximate export, %d primitives\n",
		len(in[0].prims))
	return os.WriteFile(path, []byte(content), 0644)
}

// ExportSTL tessellates every placed primitive and writes an ASCII STL.
// Booleans are not evaluated, so the mesh is preview quality: interior
// surfaces removed by cuts are still present.
func (s *Session) ExportSTL(sol ports.Solid, path string, deflection float64) error {
	in, err := s.guard(sol)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "solid %s\n", filepath.Base(path))
	for _, prim := range in[0].prims {
		writePrimitive(w, prim, deflection)
	}
	fmt.Fprintf(w, "endsolid %s\n", filepath.Base(path))
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// segmentsFor derives the tessellation segment count from the deflection:
// the maximum chord deviation at radius r stays below the deflection.
func segmentsFor(r, deflection float64) int {
	if deflection <= 0 || deflection >= r {
		return 12
	}
	theta := 2 * math.Acos(1-deflection/r)
	n := int(math.Ceil(2 * math.Pi / theta))
	if n < 12 {
		return 12
	}
	if n > 256 {
		return 256
	}
	return n
}

func writePrimitive(w *bufio.Writer, p placed, deflection float64) {
	n := segmentsFor(math.Max(p.r1, p.r2), deflection)

	ring := func(radius, z float64) [][3]float64 {
		pts := make([][3]float64, n)
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			pts[i] = p.frame.apply([3]float64{radius * math.Cos(a), radius * math.Sin(a), z})
		}
		return pts
	}

	bottom := ring(p.r1, 0)
	top := ring(p.r2, p.h)
	baseCenter := p.frame.apply([3]float64{0, 0, 0})
	topCenter := p.frame.apply([3]float64{0, 0, p.h})

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		// Lateral surface.
		writeFacet(w, bottom[i], bottom[j], top[j])
		writeFacet(w, bottom[i], top[j], top[i])
		// Caps.
		writeFacet(w, baseCenter, bottom[j], bottom[i])
		writeFacet(w, topCenter, top[i], top[j])
	}
}

func writeFacet(w *bufio.Writer, a, b, c [3]float64) {
	u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	nrm := cross(u, v)
	l := math.Sqrt(nrm[0]*nrm[0] + nrm[1]*nrm[1] + nrm[2]*nrm[2])
	if l > 0 {
		for i := range nrm {
			nrm[i] /= l
		}
	}

	fmt.Fprintf(w, "  facet normal %e %e %e\n", nrm[0], nrm[1], nrm[2])
	fmt.Fprintf(w, "    outer loop\n")
	fmt.Fprintf(w, "      vertex %e %e %e\n", a[0], a[1], a[2])
	fmt.Fprintf(w, "      vertex %e %e %e\n", b[0], b[1], b[2])
	fmt.Fprintf(w, "      vertex %e %e %e\n", c[0], c[1], c[2])
	fmt.Fprintf(w, "    endloop\n")
	fmt.Fprintf(w, "  endfacet\n")
}
