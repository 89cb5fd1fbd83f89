package tessellate

import (
	"fmt"

	"github.com/philipparndt/goifc/pkg/geometry"
	"github.com/philipparndt/goifc/pkg/step"
)

const maxPlacementDepth = 64

// point reads an IfcCartesianPoint; 2D points get z = 0
func (n *Native) point(id int) (geometry.Vector3, error) {
	in, ok := n.file.Get(id)
	if !ok {
		return geometry.Vector3{}, fmt.Errorf("missing point #%d", id)
	}
	if in.Type != "IFCCARTESIANPOINT" {
		return geometry.Vector3{}, fmt.Errorf("#%d is %s, not a point", id, in.Type)
	}
	return coordinates(in.Arg(0))
}

func coordinates(v step.Value) (geometry.Vector3, error) {
	items, ok := v.AsList()
	if !ok || len(items) < 2 || len(items) > 3 {
		return geometry.Vector3{}, fmt.Errorf("invalid coordinates %s", v)
	}

	var c [3]float64
	for i, item := range items {
		f, ok := item.AsFloat()
		if !ok {
			return geometry.Vector3{}, fmt.Errorf("invalid coordinate %s", item)
		}
		c[i] = f
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// direction reads an optional IfcDirection; ok is false when unset
func (n *Native) direction(v step.Value) (geometry.Vector3, bool, error) {
	in, ok := n.file.Deref(v)
	if !ok {
		return geometry.Vector3{}, false, nil
	}
	if in.Type != "IFCDIRECTION" {
		return geometry.Vector3{}, false, fmt.Errorf("#%d is %s, not a direction", in.ID, in.Type)
	}
	d, err := coordinates(in.Arg(0))
	if err != nil {
		return geometry.Vector3{}, false, fmt.Errorf("direction #%d: %w", in.ID, err)
	}
	return d, true, nil
}

// axisPlacement reads IfcAxis2Placement3D or IfcAxis2Placement2D. An unset
// placement is the identity.
func (n *Native) axisPlacement(v step.Value) (geometry.Transform, error) {
	in, ok := n.file.Deref(v)
	if !ok {
		return geometry.Identity(), nil
	}

	location := geometry.Vector3{}
	if id, ok := in.Arg(0).AsRef(); ok {
		p, err := n.point(id)
		if err != nil {
			return geometry.Transform{}, fmt.Errorf("placement #%d: %w", in.ID, err)
		}
		location = p
	}

	switch in.Type {
	case "IFCAXIS2PLACEMENT3D":
		axis, hasAxis, err := n.direction(in.Arg(1))
		if err != nil {
			return geometry.Transform{}, err
		}
		if !hasAxis {
			axis = geometry.NewVector3(0, 0, 1)
		}
		ref, hasRef, err := n.direction(in.Arg(2))
		if err != nil {
			return geometry.Transform{}, err
		}
		if !hasRef {
			ref = geometry.NewVector3(1, 0, 0)
		}
		return geometry.Frame(location, axis, ref), nil

	case "IFCAXIS2PLACEMENT2D":
		ref, hasRef, err := n.direction(in.Arg(1))
		if err != nil {
			return geometry.Transform{}, err
		}
		if !hasRef {
			ref = geometry.NewVector3(1, 0, 0)
		}
		return geometry.Frame(location, geometry.NewVector3(0, 0, 1), ref), nil
	}

	return geometry.Transform{}, fmt.Errorf("%w: placement %s", ErrUnsupported, in.Type)
}

// objectPlacement resolves an IfcLocalPlacement chain to its world transform
func (n *Native) objectPlacement(id int) (geometry.Transform, error) {
	world := geometry.Identity()

	for depth := 0; id != 0; depth++ {
		if depth == maxPlacementDepth {
			return geometry.Transform{}, fmt.Errorf("placement chain deeper than %d", maxPlacementDepth)
		}

		in, ok := n.file.Get(id)
		if !ok {
			return geometry.Transform{}, fmt.Errorf("missing placement #%d", id)
		}
		if in.Type != "IFCLOCALPLACEMENT" {
			return geometry.Transform{}, fmt.Errorf("%w: placement %s", ErrUnsupported, in.Type)
		}

		local, err := n.axisPlacement(in.Arg(1))
		if err != nil {
			return geometry.Transform{}, err
		}
		world = local.Mul(world)

		id, _ = in.Arg(0).AsRef()
	}

	return world, nil
}

// cartesianOperator reads an IfcCartesianTransformationOperator3D, used as
// the target of mapped items
func (n *Native) cartesianOperator(v step.Value) (geometry.Transform, error) {
	in, ok := n.file.Deref(v)
	if !ok {
		return geometry.Identity(), nil
	}

	switch in.Type {
	case "IFCCARTESIANTRANSFORMATIONOPERATOR3D", "IFCCARTESIANTRANSFORMATIONOPERATOR3DNONUNIFORM",
		"IFCCARTESIANTRANSFORMATIONOPERATOR2D":
	default:
		return geometry.Transform{}, fmt.Errorf("%w: operator %s", ErrUnsupported, in.Type)
	}

	x, hasX, err := n.direction(in.Arg(0))
	if err != nil {
		return geometry.Transform{}, err
	}
	if !hasX {
		x = geometry.NewVector3(1, 0, 0)
	}

	origin := geometry.Vector3{}
	if id, ok := in.Arg(2).AsRef(); ok {
		if origin, err = n.point(id); err != nil {
			return geometry.Transform{}, err
		}
	}

	scale := 1.0
	if s, ok := in.Arg(3).AsFloat(); ok {
		scale = s
	}

	z, hasZ, err := n.direction(in.Arg(4))
	if err != nil {
		return geometry.Transform{}, err
	}
	if !hasZ {
		z = geometry.NewVector3(0, 0, 1)
	}

	frame := geometry.Frame(origin, z, x)
	frame.X = frame.X.Mul(scale)
	frame.Y = frame.Y.Mul(scale)
	frame.Z = frame.Z.Mul(scale)
	return frame, nil
}
