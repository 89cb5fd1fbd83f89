package tessellate

import (
	"fmt"
	"math"

	"github.com/philipparndt/goifc/pkg/geometry"
	"github.com/philipparndt/goifc/pkg/step"
)

// extrudedAreaSolid handles IfcExtrudedAreaSolid(SweptArea, Position,
// ExtrudedDirection, Depth)
func (n *Native) extrudedAreaSolid(w *itemWriter, in *step.Instance) error {
	profile, err := n.profile(in.Arg(0))
	if err != nil {
		return fmt.Errorf("extrusion #%d: %w", in.ID, err)
	}

	position, err := n.axisPlacement(in.Arg(1))
	if err != nil {
		return err
	}

	dir, ok, err := n.direction(in.Arg(2))
	if err != nil {
		return err
	}
	if !ok {
		dir = geometry.NewVector3(0, 0, 1)
	}

	depth, ok := in.Arg(3).AsFloat()
	if !ok || depth <= 0 {
		return fmt.Errorf("extrusion #%d: invalid depth %s", in.ID, in.Arg(3))
	}

	extrusion := dir.Normalize().Mul(depth)
	if extrusion.Z == 0 {
		return fmt.Errorf("extrusion #%d: direction parallel to profile", in.ID)
	}

	// An extrusion towards -Z turns the solid inside out
	down := extrusion.Z < 0

	var bottomLoops, topLoops [][]geometry.Vector3
	var bottomIdx, topIdx [][]uint32
	for _, loop := range profile {
		count := len(loop)
		bottom := make([]geometry.Vector3, count)
		top := make([]geometry.Vector3, count)
		bIdx := make([]uint32, count)
		tIdx := make([]uint32, count)
		for i, p := range loop {
			bottom[i] = position.Apply(p)
			top[i] = position.Apply(p.Add(extrusion))
			bIdx[i] = w.vertex(bottom[i])
		}
		for i := range loop {
			tIdx[i] = w.vertex(top[i])
		}
		if down {
			bottom, top = top, bottom
			bIdx, tIdx = tIdx, bIdx
		}

		for i := 0; i < count; i++ {
			j := (i + 1) % count
			w.triangle(bIdx[i], bIdx[j], tIdx[j])
			w.triangle(bIdx[i], tIdx[j], tIdx[i])
		}

		bottomLoops = append(bottomLoops, reversed(bottom))
		bottomIdx = append(bottomIdx, reversed(bIdx))
		topLoops = append(topLoops, top)
		topIdx = append(topIdx, tIdx)
	}

	if err := w.polygon(bottomLoops, bottomIdx); err != nil {
		return fmt.Errorf("extrusion #%d: %w", in.ID, err)
	}
	if err := w.polygon(topLoops, topIdx); err != nil {
		return fmt.Errorf("extrusion #%d: %w", in.ID, err)
	}
	return nil
}

func reversed[T any](s []T) []T {
	r := make([]T, len(s))
	for i, v := range s {
		r[len(s)-1-i] = v
	}
	return r
}

// profile returns the loops of a profile definition in the z = 0 plane. The
// first loop is the counter-clockwise outer boundary, voids follow
// clockwise.
func (n *Native) profile(v step.Value) ([][]geometry.Vector3, error) {
	in, ok := n.file.Deref(v)
	if !ok {
		return nil, fmt.Errorf("missing profile")
	}

	var points []geometry.Vector3
	switch in.Type {
	case "IFCRECTANGLEPROFILEDEF", "IFCROUNDEDRECTANGLEPROFILEDEF":
		x, okX := in.Arg(3).AsFloat()
		y, okY := in.Arg(4).AsFloat()
		if !okX || !okY || x <= 0 || y <= 0 {
			return nil, fmt.Errorf("rectangle profile #%d: invalid dimensions", in.ID)
		}
		hx, hy := x/2, y/2
		points = []geometry.Vector3{
			geometry.NewVector3(-hx, -hy, 0),
			geometry.NewVector3(hx, -hy, 0),
			geometry.NewVector3(hx, hy, 0),
			geometry.NewVector3(-hx, hy, 0),
		}

	case "IFCCIRCLEPROFILEDEF":
		r, ok := in.Arg(3).AsFloat()
		if !ok || r <= 0 {
			return nil, fmt.Errorf("circle profile #%d: invalid radius", in.ID)
		}
		segments := max(n.CircleSegments, 3)
		for i := 0; i < segments; i++ {
			angle := 2 * math.Pi * float64(i) / float64(segments)
			points = append(points, geometry.NewVector3(r*math.Cos(angle), r*math.Sin(angle), 0))
		}

	case "IFCARBITRARYCLOSEDPROFILEDEF", "IFCARBITRARYPROFILEDEFWITHVOIDS":
		curve, err := n.curvePoints(in.Arg(2))
		if err != nil {
			return nil, fmt.Errorf("profile #%d: %w", in.ID, err)
		}
		outer, err := orient(curve, true)
		if err != nil {
			return nil, fmt.Errorf("profile #%d: %w", in.ID, err)
		}
		loops := [][]geometry.Vector3{outer}

		if in.Type == "IFCARBITRARYPROFILEDEFWITHVOIDS" {
			for _, id := range in.Arg(3).Refs() {
				curve, err := n.curvePoints(step.Value{Kind: step.KindRef, Ref: id})
				if err != nil {
					return nil, fmt.Errorf("profile #%d void: %w", in.ID, err)
				}
				inner, err := orient(curve, false)
				if err != nil {
					return nil, fmt.Errorf("profile #%d void: %w", in.ID, err)
				}
				loops = append(loops, inner)
			}
		}
		return loops, nil

	default:
		return nil, fmt.Errorf("%w: profile %s", ErrUnsupported, in.Type)
	}

	// Parametric profiles are placed by their optional Position
	placement, err := n.axisPlacement(in.Arg(2))
	if err != nil {
		return nil, err
	}
	for i, p := range points {
		points[i] = placement.Apply(p)
	}
	return [][]geometry.Vector3{points}, nil
}

// curvePoints reads the points of an IfcPolyline or IfcIndexedPolyCurve.
// Arc segments of indexed curves are reduced to their control points.
func (n *Native) curvePoints(v step.Value) ([]geometry.Vector3, error) {
	in, ok := n.file.Deref(v)
	if !ok {
		return nil, fmt.Errorf("missing curve")
	}

	var points []geometry.Vector3
	switch in.Type {
	case "IFCPOLYLINE":
		for _, id := range in.Arg(0).Refs() {
			p, err := n.point(id)
			if err != nil {
				return nil, err
			}
			points = append(points, p)
		}
	case "IFCINDEXEDPOLYCURVE":
		list, err := n.pointList(in.Arg(0))
		if err != nil {
			return nil, err
		}
		points = list
	default:
		return nil, fmt.Errorf("%w: curve %s", ErrUnsupported, in.Type)
	}

	// drop the closing point
	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("curve #%d has %d distinct points", in.ID, len(points))
	}
	for i := range points {
		points[i].Z = 0
	}
	return points, nil
}

// orient makes a planar loop counter-clockwise, or clockwise when ccw is
// false
func orient(points []geometry.Vector3, ccw bool) ([]geometry.Vector3, error) {
	area := 0.0
	for i, p := range points {
		q := points[(i+1)%len(points)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area == 0 {
		return nil, fmt.Errorf("profile has no area")
	}
	if (area > 0) != ccw {
		return reversed(points), nil
	}
	return points, nil
}
