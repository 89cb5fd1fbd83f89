// Package tessellate turns the shape representations of IFC elements into
// triangle soups in world coordinates, in metres.
package tessellate

import (
	"context"
	"errors"

	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/pkg/ifc"
)

var (
	// ErrUnsupported is returned for representation items a tessellator
	// cannot handle
	ErrUnsupported = errors.New("unsupported geometry")

	// ErrNoShape is returned when an element yields no triangles
	ErrNoShape = errors.New("element has no shape")
)

// Tessellator produces the world-coordinate soup of one element
type Tessellator interface {
	Tessellate(ctx context.Context, e ifc.Element) (*mesh.Geometry, error)
}
