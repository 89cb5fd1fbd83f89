package geometry

// Transform is an affine transform: the images of the unit axes and a
// translation
type Transform struct {
	X, Y, Z Vector3
	T       Vector3
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{
		X: Vector3{X: 1},
		Y: Vector3{Y: 1},
		Z: Vector3{Z: 1},
	}
}

// Translation returns a transform that moves points by offset
func Translation(offset Vector3) Transform {
	t := Identity()
	t.T = offset
	return t
}

// Scaling returns a uniform scaling about the origin
func Scaling(s float64) Transform {
	return Transform{
		X: Vector3{X: s},
		Y: Vector3{Y: s},
		Z: Vector3{Z: s},
	}
}

// Frame builds a right-handed orthonormal frame at origin. The Z axis
// follows axis and the X axis follows refDirection projected onto the plane
// normal to Z. Zero or parallel inputs fall back to the global axes.
func Frame(origin, axis, refDirection Vector3) Transform {
	z := axis.Normalize()
	if z == (Vector3{}) {
		z = Vector3{Z: 1}
	}

	x := refDirection.Sub(z.Mul(refDirection.Dot(z))).Normalize()
	if x == (Vector3{}) {
		// refDirection missing or parallel to Z
		candidate := Vector3{X: 1}
		if abs(z.X) > 0.9 {
			candidate = Vector3{Y: 1}
		}
		x = candidate.Sub(z.Mul(candidate.Dot(z))).Normalize()
	}

	return Transform{X: x, Y: z.Cross(x), Z: z, T: origin}
}

// Apply transforms a point
func (t Transform) Apply(p Vector3) Vector3 {
	return t.T.Add(t.ApplyVector(p))
}

// ApplyVector transforms a direction, ignoring the translation
func (t Transform) ApplyVector(v Vector3) Vector3 {
	return t.X.Mul(v.X).Add(t.Y.Mul(v.Y)).Add(t.Z.Mul(v.Z))
}

// Mul returns the composition t∘o: o is applied first
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		X: t.ApplyVector(o.X),
		Y: t.ApplyVector(o.Y),
		Z: t.ApplyVector(o.Z),
		T: t.Apply(o.T),
	}
}

// Determinant returns the determinant of the linear part. A negative value
// means the transform mirrors and reverses triangle winding.
func (t Transform) Determinant() float64 {
	return t.X.Dot(t.Y.Cross(t.Z))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
