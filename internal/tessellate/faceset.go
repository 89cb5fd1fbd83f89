package tessellate

import (
	"fmt"

	"github.com/philipparndt/goifc/pkg/geometry"
	"github.com/philipparndt/goifc/pkg/step"
)

// pointList reads an IfcCartesianPointList3D
func (n *Native) pointList(v step.Value) ([]geometry.Vector3, error) {
	in, ok := n.file.Deref(v)
	if !ok {
		return nil, fmt.Errorf("missing point list")
	}
	if in.Type != "IFCCARTESIANPOINTLIST3D" && in.Type != "IFCCARTESIANPOINTLIST2D" {
		return nil, fmt.Errorf("%w: point list %s", ErrUnsupported, in.Type)
	}

	items, _ := in.Arg(0).AsList()
	points := make([]geometry.Vector3, 0, len(items))
	for _, item := range items {
		p, err := coordinates(item)
		if err != nil {
			return nil, fmt.Errorf("point list #%d: %w", in.ID, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// indexList reads a list of 1-based indices, remapped through pn when set
func indexList(v step.Value, pn []int, count int) ([]int, error) {
	items, ok := v.AsList()
	if !ok {
		return nil, fmt.Errorf("invalid index list %s", v)
	}

	indices := make([]int, 0, len(items))
	for _, item := range items {
		i, ok := item.AsInt()
		if !ok {
			return nil, fmt.Errorf("invalid index %s", item)
		}
		index := int(i)
		if pn != nil {
			if index < 1 || index > len(pn) {
				return nil, fmt.Errorf("index %d outside PnIndex", index)
			}
			index = pn[index-1]
		}
		if index < 1 || index > count {
			return nil, fmt.Errorf("index %d outside %d points", index, count)
		}
		indices = append(indices, index-1)
	}
	return indices, nil
}

func pnIndex(v step.Value) ([]int, error) {
	if v.IsNull() {
		return nil, nil
	}
	items, ok := v.AsList()
	if !ok {
		return nil, fmt.Errorf("invalid PnIndex %s", v)
	}
	pn := make([]int, 0, len(items))
	for _, item := range items {
		i, ok := item.AsInt()
		if !ok {
			return nil, fmt.Errorf("invalid PnIndex entry %s", item)
		}
		pn = append(pn, int(i))
	}
	return pn, nil
}

// triangulatedFaceSet handles IfcTriangulatedFaceSet(Coordinates, Normals,
// Closed, CoordIndex, PnIndex)
func (n *Native) triangulatedFaceSet(w *itemWriter, in *step.Instance) error {
	points, err := n.pointList(in.Arg(0))
	if err != nil {
		return err
	}
	pn, err := pnIndex(in.Arg(4))
	if err != nil {
		return err
	}

	faces, ok := in.Arg(3).AsList()
	if !ok {
		return fmt.Errorf("face set #%d without CoordIndex", in.ID)
	}

	for _, face := range faces {
		indices, err := indexList(face, pn, len(points))
		if err != nil {
			return fmt.Errorf("face set #%d: %w", in.ID, err)
		}
		if len(indices) != 3 {
			return fmt.Errorf("face set #%d: triangle with %d indices", in.ID, len(indices))
		}

		var tri [3]uint32
		for k, i := range indices {
			tri[k] = w.sharedVertex(i, points[i])
		}
		w.triangle(tri[0], tri[1], tri[2])
	}
	return nil
}

// polygonalFaceSet handles IfcPolygonalFaceSet(Coordinates, Closed, Faces,
// PnIndex). Faces with voids carry their inner loops as a second attribute.
func (n *Native) polygonalFaceSet(w *itemWriter, in *step.Instance) error {
	points, err := n.pointList(in.Arg(0))
	if err != nil {
		return err
	}
	pn, err := pnIndex(in.Arg(3))
	if err != nil {
		return err
	}

	for _, id := range in.Arg(2).Refs() {
		face, ok := n.file.Get(id)
		if !ok {
			return fmt.Errorf("face set #%d: missing face #%d", in.ID, id)
		}

		lists := []step.Value{face.Arg(0)}
		if face.Type == "IFCINDEXEDPOLYGONALFACEWITHVOIDS" {
			inner, _ := face.Arg(1).AsList()
			lists = append(lists, inner...)
		}

		var loops [][]geometry.Vector3
		var vertices [][]uint32
		for _, list := range lists {
			indices, err := indexList(list, pn, len(points))
			if err != nil {
				return fmt.Errorf("face #%d: %w", face.ID, err)
			}
			loop := make([]geometry.Vector3, len(indices))
			loopVertices := make([]uint32, len(indices))
			for k, i := range indices {
				loop[k] = points[i]
				loopVertices[k] = w.sharedVertex(i, points[i])
			}
			loops = append(loops, loop)
			vertices = append(vertices, loopVertices)
		}

		if err := w.polygon(loops, vertices); err != nil {
			return fmt.Errorf("face #%d: %w", face.ID, err)
		}
	}
	return nil
}

// shell handles IfcClosedShell, IfcOpenShell and IfcConnectedFaceSet
func (n *Native) shell(w *itemWriter, v step.Value) error {
	in, ok := n.file.Deref(v)
	if !ok {
		return fmt.Errorf("missing shell")
	}
	switch in.Type {
	case "IFCCLOSEDSHELL", "IFCOPENSHELL", "IFCCONNECTEDFACESET":
	default:
		return fmt.Errorf("%w: shell %s", ErrUnsupported, in.Type)
	}

	for _, id := range in.Arg(0).Refs() {
		if err := n.face(w, id); err != nil {
			return err
		}
	}
	return nil
}

// face triangulates an IfcFace. The outer bound comes first, the other
// bounds are holes. Points are shared across the faces of the item.
func (n *Native) face(w *itemWriter, id int) error {
	face, ok := n.file.Get(id)
	if !ok {
		return fmt.Errorf("missing face #%d", id)
	}

	bounds := face.Arg(0).Refs()
	if len(bounds) == 0 {
		return nil
	}

	ordered := make([]*step.Instance, 0, len(bounds))
	for _, b := range bounds {
		bound, found := n.file.Get(b)
		if !found {
			return fmt.Errorf("face #%d: missing bound #%d", face.ID, b)
		}
		if bound.Type == "IFCFACEOUTERBOUND" {
			ordered = append([]*step.Instance{bound}, ordered...)
		} else {
			ordered = append(ordered, bound)
		}
	}

	loops := make([][]geometry.Vector3, 0, len(ordered))
	vertices := make([][]uint32, 0, len(ordered))
	for _, bound := range ordered {
		points, loopVertices, err := n.polyLoop(w, bound)
		if err != nil {
			return fmt.Errorf("face #%d: %w", face.ID, err)
		}
		loops = append(loops, points)
		vertices = append(vertices, loopVertices)
	}

	if err := w.polygon(loops, vertices); err != nil {
		return fmt.Errorf("face #%d: %w", face.ID, err)
	}
	return nil
}

// polyLoop reads the IfcPolyLoop of a face bound. A false orientation
// reverses the loop.
func (n *Native) polyLoop(w *itemWriter, bound *step.Instance) ([]geometry.Vector3, []uint32, error) {
	loop, found := n.file.Deref(bound.Arg(0))
	if !found || loop.Type != "IFCPOLYLOOP" {
		return nil, nil, fmt.Errorf("%w: bound #%d is not a poly loop", ErrUnsupported, bound.ID)
	}

	refs := loop.Arg(0).Refs()
	if orientation, ok := bound.Arg(1).AsBool(); ok && !orientation {
		refs = reversed(refs)
	}

	points := make([]geometry.Vector3, len(refs))
	vertices := make([]uint32, len(refs))
	for k, ref := range refs {
		p, err := n.point(ref)
		if err != nil {
			return nil, nil, fmt.Errorf("poly loop #%d: %w", loop.ID, err)
		}
		points[k] = p
		vertices[k] = w.sharedVertex(ref, p)
	}
	return points, vertices, nil
}
