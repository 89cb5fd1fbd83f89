package tessellate

import (
	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/pkg/geometry"
)

// soup collects the triangles of one element
type soup struct {
	g mesh.Geometry
}

func (s *soup) empty() bool {
	return s.g.Empty()
}

// mark returns the current sizes for rollback
func (s *soup) mark() [2]int {
	return [2]int{len(s.g.Positions), len(s.g.Indices)}
}

// rollback drops everything appended since mark
func (s *soup) rollback(mark [2]int) {
	s.g.Positions = s.g.Positions[:mark[0]]
	s.g.Indices = s.g.Indices[:mark[1]]
}

// writer starts an item under transform m. Mirroring transforms flip the
// triangle winding so faces keep pointing outwards.
func (s *soup) writer(m geometry.Transform) *itemWriter {
	return &itemWriter{
		s:      s,
		m:      m,
		flip:   m.Determinant() < 0,
		shared: make(map[int]uint32),
	}
}

// itemWriter appends the vertices of one item. Vertices read from the same
// point instance are shared.
type itemWriter struct {
	s      *soup
	m      geometry.Transform
	flip   bool
	shared map[int]uint32
}

// vertex transforms and appends a local point
func (w *itemWriter) vertex(p geometry.Vector3) uint32 {
	index := uint32(w.s.g.VertexCount())
	world := w.m.Apply(p)
	w.s.g.Positions = append(w.s.g.Positions, float32(world.X), float32(world.Y), float32(world.Z))
	return index
}

// sharedVertex appends the point once per key
func (w *itemWriter) sharedVertex(key int, p geometry.Vector3) uint32 {
	if index, ok := w.shared[key]; ok {
		return index
	}
	index := w.vertex(p)
	w.shared[key] = index
	return index
}

func (w *itemWriter) triangle(a, b, c uint32) {
	if a == b || b == c || a == c {
		return
	}
	if w.flip {
		b, c = c, b
	}
	w.s.g.Indices = append(w.s.g.Indices, a, b, c)
}

// polygon triangulates a planar polygon given by local points and their
// vertex indices. loops[0] is the outer boundary, further loops are holes.
func (w *itemWriter) polygon(loops [][]geometry.Vector3, indices [][]uint32) error {
	points, triangles, err := geometry.Triangulate(loops...)
	if err != nil {
		return err
	}

	vertices := make([]uint32, 0, len(points))
	for _, loop := range indices {
		vertices = append(vertices, loop...)
	}
	for _, p := range points[len(vertices):] {
		vertices = append(vertices, w.vertex(p))
	}

	for _, tri := range triangles {
		w.triangle(vertices[tri[0]], vertices[tri[1]], vertices[tri[2]])
	}
	return nil
}
