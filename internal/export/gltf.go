package export

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/philipparndt/goifc/internal/mesh"
)

// Document builds a glTF document with one mesh, one node and one material.
// Colours are stored as normalized COLOR_0 vertex attributes.
func Document(buf *mesh.Buffer, name string) *gltf.Document {
	doc := gltf.NewDocument()

	indices := make([]uint32, 0, 3*len(buf.Triangles))
	for _, tri := range buf.Triangles {
		indices = append(indices, tri[0], tri[1], tri[2])
	}

	colors := make([][4]uint8, len(buf.Colors))
	opaque := true
	for i, c := range buf.Colors {
		colors[i] = c.Bytes()
		opaque = opaque && c.Opaque()
	}

	position := modeler.WritePosition(doc, buf.Vertices)
	color := modeler.WriteColor(doc, colors)
	index := modeler.WriteIndices(doc, indices)

	material := &gltf.Material{
		Name:        "vertex colors",
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
	}
	if !opaque {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = append(doc.Materials, material)

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(index),
			Attributes: attributes(position, color),
			Material:   gltf.Index(len(doc.Materials) - 1),
			Mode:       gltf.PrimitiveTriangles,
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(len(doc.Meshes) - 1),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)

	return doc
}

func attributes[T any](position, color T) map[string]T {
	return map[string]T{
		gltf.POSITION: position,
		gltf.COLOR_0:  color,
	}
}

func writeGLTF(buf *mesh.Buffer, path, name string, binary bool) error {
	doc := Document(buf, name)

	return writeAtomic(path, func(tmp string) error {
		if binary {
			if err := gltf.SaveBinary(doc, tmp); err != nil {
				return fmt.Errorf("failed to write GLB: %w", err)
			}
			return nil
		}

		doc.Buffers[0].EmbeddedResource()
		if err := gltf.Save(doc, tmp); err != nil {
			return fmt.Errorf("failed to write glTF: %w", err)
		}
		return nil
	})
}
