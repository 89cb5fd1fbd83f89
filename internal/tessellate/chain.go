package tessellate

import (
	"context"
	"errors"
	"fmt"

	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/pkg/ifc"
)

// Chain tries each tessellator in order and returns the first soup
type Chain []Tessellator

// Tessellate implements Tessellator
func (c Chain) Tessellate(ctx context.Context, e ifc.Element) (*mesh.Geometry, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: no tessellator configured", ErrUnsupported)
	}

	var errs []error
	for _, t := range c {
		g, err := t.Tessellate(ctx, e)
		if err == nil && !g.Empty() {
			return g, nil
		}
		if err == nil {
			err = ErrNoShape
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
