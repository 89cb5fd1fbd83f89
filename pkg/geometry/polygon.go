package geometry

import (
	"fmt"

	"github.com/hajimehoshi/go-libtess2"
)

// PolygonNormal returns the Newell normal of a closed polygon. Its direction
// follows the counter-clockwise winding of the points.
func PolygonNormal(points []Vector3) Vector3 {
	var n Vector3
	for i, p := range points {
		q := points[(i+1)%len(points)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n.Normalize()
}

// Triangulate splits a planar polygon into triangles. loops[0] is the outer
// boundary, further loops are holes. The returned points start with the
// points of all loops in order, followed by any intersection points the
// tessellator had to add. Triangles index into points and follow the winding
// of the outer boundary. Degenerate polygons yield no triangles.
func Triangulate(loops ...[]Vector3) ([]Vector3, [][3]int, error) {
	var points []Vector3
	for _, loop := range loops {
		points = append(points, loop...)
	}
	if len(loops) == 0 || len(loops[0]) < 3 {
		return points, nil, nil
	}

	normal := PolygonNormal(loops[0])
	if normal == (Vector3{}) {
		return points, nil, nil
	}
	if len(loops) == 1 && len(loops[0]) == 3 {
		return points, [][3]int{{0, 1, 2}}, nil
	}

	// Coordinates relative to the first point keep float32 precise for
	// polygons far from the origin
	origin := points[0]
	known := make(map[libtess2.Vertex]int, len(points))
	contours := make([]libtess2.Contour, 0, len(loops))
	for _, loop := range loops {
		if len(loop) < 3 {
			continue
		}
		contour := make(libtess2.Contour, len(loop))
		for k, p := range loop {
			contour[k] = toVertex(p.Sub(origin))
		}
		contours = append(contours, contour)
	}
	for i, p := range points {
		v := toVertex(p.Sub(origin))
		if _, ok := known[v]; !ok {
			known[v] = i
		}
	}

	elements, vertices, err := tesselate(contours)
	if err != nil {
		return points, nil, err
	}

	remap := make([]int, len(vertices))
	for i, v := range vertices {
		if index, ok := known[v]; ok {
			remap[i] = index
			continue
		}
		remap[i] = len(points)
		known[v] = len(points)
		points = append(points, origin.Add(Vector3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}))
	}

	triangles := make([][3]int, 0, len(elements)/3)
	for i := 0; i+2 < len(elements); i += 3 {
		if elements[i] < 0 || elements[i+1] < 0 || elements[i+2] < 0 {
			continue
		}
		tri := [3]int{remap[elements[i]], remap[elements[i+1]], remap[elements[i+2]]}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			continue
		}
		t := TriangleFromVertices(points[tri[0]], points[tri[1]], points[tri[2]])
		if t.Normal.Dot(normal) < 0 {
			tri[1], tri[2] = tri[2], tri[1]
		}
		triangles = append(triangles, tri)
	}
	return points, triangles, nil
}

func toVertex(p Vector3) libtess2.Vertex {
	return libtess2.Vertex{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
}

// tesselate runs the sweep with the odd winding rule, so holes are cut out
// whatever their orientation
func tesselate(contours []libtess2.Contour) (elements []int, vertices []libtess2.Vertex, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to triangulate polygon: %v", r)
		}
	}()

	elements, vertices, err = libtess2.Tesselate(contours, libtess2.WindingRuleOdd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to triangulate polygon: %w", err)
	}
	return elements, vertices, nil
}
