package mesh

import (
	"fmt"

	"github.com/philipparndt/goifc/internal/appearance"
	"github.com/philipparndt/goifc/pkg/geometry"
)

// Accumulator appends element soups to a growing mesh. It is not safe for
// concurrent use; callers merge in a single goroutine.
type Accumulator struct {
	vertices  [][3]float32
	triangles [][3]uint32
	colors    []appearance.RGBA
	bounds    geometry.BoundingBox
	elements  int
	finalized bool
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{bounds: geometry.NewBoundingBox()}
}

// Append adds one element. Local indices are shifted by the current vertex
// count and every new vertex receives color. A soup without vertices or
// triangles is ignored.
func (a *Accumulator) Append(g *Geometry, color appearance.RGBA) error {
	if a.finalized {
		return fmt.Errorf("failed to append: accumulator already finalized")
	}
	if g.Empty() {
		return nil
	}
	if err := validate(g); err != nil {
		return err
	}

	offset := uint32(len(a.vertices))
	for i := 0; i < len(g.Positions); i += 3 {
		p := [3]float32{g.Positions[i], g.Positions[i+1], g.Positions[i+2]}
		a.vertices = append(a.vertices, p)
		a.colors = append(a.colors, color)
		a.bounds.Extend(geometry.FromFloat32(p))
	}

	for i := 0; i < len(g.Indices); i += 3 {
		a.triangles = append(a.triangles, [3]uint32{
			g.Indices[i] + offset,
			g.Indices[i+1] + offset,
			g.Indices[i+2] + offset,
		})
	}

	a.elements++
	return nil
}

func validate(g *Geometry) error {
	if len(g.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position values", ErrInvalidGeometry, len(g.Positions))
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d index values", ErrInvalidGeometry, len(g.Indices))
	}

	count := uint32(g.VertexCount())
	for _, index := range g.Indices {
		if index >= count {
			return fmt.Errorf("%w: index %d out of range for %d vertices", ErrInvalidGeometry, index, count)
		}
	}
	return nil
}

// Elements returns the number of elements that contributed geometry
func (a *Accumulator) Elements() int {
	return a.elements
}

// VertexCount returns the number of vertices appended so far
func (a *Accumulator) VertexCount() int {
	return len(a.vertices)
}

// Finalize hands off the mesh. It fails with ErrEmptyMesh when nothing was
// appended. The accumulator accepts no further appends afterwards.
func (a *Accumulator) Finalize() (*Buffer, error) {
	if a.elements == 0 {
		return nil, ErrEmptyMesh
	}
	a.finalized = true

	return &Buffer{
		Vertices:  a.vertices,
		Triangles: a.triangles,
		Colors:    a.colors,
		Bounds:    a.bounds,
	}, nil
}
