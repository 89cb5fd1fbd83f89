package stl

import (
	"github.com/philipparndt/goifc/pkg/geometry"
)

// Color is a facet colour carried in the binary attribute word. Channels are
// 8-bit but only the upper 5 bits survive encoding.
type Color struct {
	R, G, B uint8
}

// Model represents a complete STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
	// Colors is either nil or parallel to Triangles
	Colors []Color
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds an uncoloured triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
	if m.Colors != nil {
		m.Colors = append(m.Colors, Color{})
	}
}

// AddColoredTriangle adds a triangle with a facet colour
func (m *Model) AddColoredTriangle(triangle geometry.Triangle, color Color) {
	if m.Colors == nil {
		m.Colors = make([]Color, len(m.Triangles), cap(m.Triangles))
	}
	m.Triangles = append(m.Triangles, triangle)
	m.Colors = append(m.Colors, color)
}

// HasColors reports whether the model carries facet colours
func (m *Model) HasColors() bool {
	return m.Colors != nil
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}
