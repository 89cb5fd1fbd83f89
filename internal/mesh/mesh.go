// Package mesh merges per-element triangle soups into one indexed mesh with
// a flat colour per element.
package mesh

import (
	"errors"

	"github.com/philipparndt/goifc/internal/appearance"
	"github.com/philipparndt/goifc/pkg/geometry"
)

var (
	// ErrEmptyMesh is returned by Finalize when no element contributed geometry
	ErrEmptyMesh = errors.New("mesh is empty")

	// ErrInvalidGeometry is returned for soups with ragged arrays or indices
	// outside their own vertex list
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// Geometry is the triangle soup of one element: flat xyz positions and flat
// triangle indices local to the soup
type Geometry struct {
	Positions []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Empty reports whether the soup has no vertices or no triangles
func (g *Geometry) Empty() bool {
	return g == nil || len(g.Positions) == 0 || len(g.Indices) == 0
}

// Buffer is a finalized mesh. Colors is parallel to Vertices and every
// triangle index is below len(Vertices).
type Buffer struct {
	Vertices  [][3]float32
	Triangles [][3]uint32
	Colors    []appearance.RGBA
	Bounds    geometry.BoundingBox
}

// VertexCount returns the number of vertices
func (b *Buffer) VertexCount() int {
	return len(b.Vertices)
}

// TriangleCount returns the number of triangles
func (b *Buffer) TriangleCount() int {
	return len(b.Triangles)
}
