package convert

import (
	"fmt"
	"time"

	"github.com/philipparndt/goifc/pkg/geometry"
)

// Result summarizes one conversion run
type Result struct {
	RunID  string
	Input  string
	Output string

	Processed int // elements attempted
	Succeeded int // elements that contributed triangles
	Failed    int // elements whose tessellation failed
	Empty     int // elements that tessellated to nothing
	Textured  int // elements with a texture that was not applied

	Vertices  int
	Triangles int
	Bounds    geometry.BoundingBox
	Elapsed   time.Duration

	Failures []*ElementError
}

// Summary returns a one-line human readable report
func (r *Result) Summary() string {
	return fmt.Sprintf("processed %d elements, %d succeeded, %d failed, %d empty: %d vertices, %d triangles in %s",
		r.Processed, r.Succeeded, r.Failed, r.Empty, r.Vertices, r.Triangles, r.Elapsed.Round(time.Millisecond))
}
