// Package analysis computes statistics of a converted mesh
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/goifc/pkg/geometry"
	"github.com/philipparndt/goifc/pkg/stl"
)

// ColorCount is the number of facets sharing one colour
type ColorCount struct {
	Color stl.Color
	Count int
}

// Measurements contains statistics of an STL model
type Measurements struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	// Colors is sorted by descending count, nil for uncoloured models
	Colors []ColorCount
}

// Measure analyzes an STL model
func Measure(model *stl.Model) *Measurements {
	result := &Measurements{
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		TriangleCount: model.TriangleCount(),
	}
	result.Dimensions = result.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, triangle := range model.Triangles {
		for _, length := range [3]float64{
			triangle.V2.Sub(triangle.V1).Length(),
			triangle.V3.Sub(triangle.V2).Length(),
			triangle.V1.Sub(triangle.V3).Length(),
		} {
			result.EdgeCount++
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}

	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	if model.HasColors() {
		result.Colors = countColors(model.Colors)
	}
	return result
}

func countColors(colors []stl.Color) []ColorCount {
	counts := make(map[stl.Color]int)
	for _, c := range colors {
		counts[c]++
	}

	out := make([]ColorCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, ColorCount{Color: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return FormatColor(out[i].Color) < FormatColor(out[j].Color)
	})
	return out
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

// FormatColor formats a colour as a hex triple
func FormatColor(c stl.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
