package geometry

import (
	"math"
	"testing"
)

func totalArea(points []Vector3, triangles [][3]int) float64 {
	area := 0.0
	for _, tri := range triangles {
		area += TriangleFromVertices(points[tri[0]], points[tri[1]], points[tri[2]]).Area()
	}
	return area
}

// insideXY reports whether p lies inside the polygon projected onto XY
func insideXY(p Vector3, polygon []Vector3) bool {
	inside := false
	for i, j := 0, len(polygon)-1; i < len(polygon); j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

func centroid(points []Vector3, tri [3]int) Vector3 {
	return points[tri[0]].Add(points[tri[1]]).Add(points[tri[2]]).Mul(1.0 / 3)
}

func TestTriangulateSquare(t *testing.T) {
	square := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(1, 0, 0),
		NewVector3(1, 1, 0),
		NewVector3(0, 1, 0),
	}

	points, triangles, err := Triangulate(square)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(points) != 4 {
		t.Errorf("expected no added points, got %d", len(points))
	}
	if len(triangles) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(triangles))
	}
	if area := totalArea(points, triangles); math.Abs(area-1) > 1e-6 {
		t.Errorf("Area failed: expected 1, got %v", area)
	}

	// winding is preserved
	for _, tri := range triangles {
		n := TriangleFromVertices(points[tri[0]], points[tri[1]], points[tri[2]]).Normal
		if n.Z <= 0 {
			t.Errorf("triangle %v flipped: normal %v", tri, n)
		}
	}
}

func TestTriangulateConcave(t *testing.T) {
	// L-shape, area 3, notch at (1..2, 1..2)
	shape := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 0, 0),
		NewVector3(2, 1, 0),
		NewVector3(1, 1, 0),
		NewVector3(1, 2, 0),
		NewVector3(0, 2, 0),
	}

	// every starting corner, convex and reflex
	for start := range shape {
		loop := append(append([]Vector3{}, shape[start:]...), shape[:start]...)

		points, triangles, err := Triangulate(loop)
		if err != nil {
			t.Fatalf("start %d: Triangulate failed: %v", start, err)
		}
		if len(triangles) != 4 {
			t.Errorf("start %d: expected 4 triangles, got %d", start, len(triangles))
		}
		if area := totalArea(points, triangles); math.Abs(area-3) > 1e-6 {
			t.Errorf("start %d: Area failed: expected 3, got %v", start, area)
		}
		for _, tri := range triangles {
			c := centroid(points, tri)
			if !insideXY(c, shape) {
				t.Errorf("start %d: triangle %v lies outside the polygon (centroid %v)", start, tri, c)
			}
			if n := TriangleFromVertices(points[tri[0]], points[tri[1]], points[tri[2]]).Normal; n.Z <= 0 {
				t.Errorf("start %d: triangle %v flipped: normal %v", start, tri, n)
			}
		}
	}
}

func TestTriangulateHole(t *testing.T) {
	outer := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(4, 0, 0),
		NewVector3(4, 4, 0),
		NewVector3(0, 4, 0),
	}
	hole := []Vector3{
		NewVector3(1, 1, 0),
		NewVector3(1, 3, 0),
		NewVector3(3, 3, 0),
		NewVector3(3, 1, 0),
	}

	points, triangles, err := Triangulate(outer, hole)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if area := totalArea(points, triangles); math.Abs(area-12) > 1e-6 {
		t.Errorf("Area failed: expected 12, got %v", area)
	}
	for _, tri := range triangles {
		if c := centroid(points, tri); insideXY(c, hole) {
			t.Errorf("triangle %v covers the hole (centroid %v)", tri, c)
		}
	}
}

func TestTriangulateFarFromOrigin(t *testing.T) {
	offset := NewVector3(250000, -180000, 35)
	square := []Vector3{
		NewVector3(0, 0, 0).Add(offset),
		NewVector3(0.5, 0, 0).Add(offset),
		NewVector3(0.5, 0.25, 0).Add(offset),
		NewVector3(0, 0.25, 0).Add(offset),
	}

	points, triangles, err := Triangulate(square)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(points) != 4 {
		t.Errorf("expected no added points, got %d", len(points))
	}
	if area := totalArea(points, triangles); math.Abs(area-0.125) > 1e-6 {
		t.Errorf("Area failed: expected 0.125, got %v", area)
	}
}

func TestTriangulateVerticalClockwise(t *testing.T) {
	// Clockwise when seen from +Y, lying in the XZ plane
	wall := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(0, 0, 3),
		NewVector3(4, 0, 3),
		NewVector3(4, 0, 0),
	}

	points, triangles, err := Triangulate(wall)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(triangles) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(triangles))
	}
	if area := totalArea(points, triangles); math.Abs(area-12) > 1e-6 {
		t.Errorf("Area failed: expected 12, got %v", area)
	}

	normal := PolygonNormal(wall)
	for _, tri := range triangles {
		n := TriangleFromVertices(points[tri[0]], points[tri[1]], points[tri[2]]).Normal
		if n.Dot(normal) <= 0 {
			t.Errorf("triangle %v flipped: normal %v, polygon %v", tri, n, normal)
		}
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	if _, got, err := Triangulate([]Vector3{NewVector3(0, 0, 0), NewVector3(1, 0, 0)}); got != nil || err != nil {
		t.Errorf("expected no triangles for two points, got %v (%v)", got, err)
	}

	line := []Vector3{NewVector3(0, 0, 0), NewVector3(1, 0, 0), NewVector3(2, 0, 0), NewVector3(3, 0, 0)}
	if _, got, err := Triangulate(line); got != nil || err != nil {
		t.Errorf("expected no triangles for collinear points, got %v (%v)", got, err)
	}

	if _, got, err := Triangulate(); got != nil || err != nil {
		t.Errorf("expected no triangles without loops, got %v (%v)", got, err)
	}
}
