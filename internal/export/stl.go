package export

import (
	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/pkg/geometry"
	"github.com/philipparndt/goifc/pkg/stl"
)

// STLModel converts the buffer to an STL model. Each facet takes the colour
// of its first vertex, which is the colour of its element.
func STLModel(buf *mesh.Buffer, name string) *stl.Model {
	model := stl.NewModel(name)
	model.Triangles = make([]geometry.Triangle, 0, len(buf.Triangles))

	for _, tri := range buf.Triangles {
		triangle := geometry.TriangleFromVertices(
			geometry.FromFloat32(buf.Vertices[tri[0]]),
			geometry.FromFloat32(buf.Vertices[tri[1]]),
			geometry.FromFloat32(buf.Vertices[tri[2]]),
		)
		c := buf.Colors[tri[0]].Bytes()
		model.AddColoredTriangle(triangle, stl.Color{R: c[0], G: c[1], B: c[2]})
	}
	return model
}

func writeSTL(buf *mesh.Buffer, path, name string) error {
	model := STLModel(buf, name)
	return writeAtomic(path, func(tmp string) error {
		return stl.WriteFile(tmp, model)
	})
}
