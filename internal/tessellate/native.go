package tessellate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/pkg/geometry"
	"github.com/philipparndt/goifc/pkg/ifc"
	"github.com/philipparndt/goifc/pkg/step"
)

const maxItemDepth = 16

// Native tessellates polygonal and simple swept IFC geometry directly from
// the physical file. It only reads the file and is safe for concurrent use.
type Native struct {
	file  *step.File
	scale float64
	log   *zap.Logger

	// CircleSegments is the number of edges used for circular profiles
	CircleSegments int
}

// NewNative creates a tessellator for the elements of model
func NewNative(model *ifc.Model, log *zap.Logger) *Native {
	if log == nil {
		log = zap.NewNop()
	}
	return &Native{
		file:           model.File,
		scale:          model.LengthScale(),
		log:            log,
		CircleSegments: 24,
	}
}

// Tessellate returns the world-coordinate soup of the element's body
// representations. Items that cannot be tessellated are skipped as long as
// another item yields triangles.
func (n *Native) Tessellate(ctx context.Context, e ifc.Element) (*mesh.Geometry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	placement, err := n.objectPlacement(e.Placement)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve placement of #%d: %w", e.ID, err)
	}
	world := geometry.Scaling(n.scale).Mul(placement)

	s := &soup{}
	var itemErrs []error

	for _, rep := range bodyRepresentations(e.Representations) {
		for _, item := range rep.Items {
			mark := s.mark()
			if err := n.item(s, item.ID, world, 0); err != nil {
				s.rollback(mark)
				n.log.Debug("skipping representation item",
					zap.Int("element", e.ID),
					zap.Int("item", item.ID),
					zap.String("type", item.Type),
					zap.Error(err))
				itemErrs = append(itemErrs, fmt.Errorf("item #%d: %w", item.ID, err))
			}
		}
	}

	if s.empty() {
		if len(itemErrs) > 0 {
			return nil, errors.Join(itemErrs...)
		}
		return nil, ErrNoShape
	}
	return &s.g, nil
}

// bodyRepresentations prefers representations identified as Body
func bodyRepresentations(reps []ifc.Representation) []ifc.Representation {
	var body []ifc.Representation
	for _, rep := range reps {
		if strings.EqualFold(rep.Identifier, "Body") {
			body = append(body, rep)
		}
	}
	if len(body) > 0 {
		return body
	}

	for _, rep := range reps {
		switch strings.ToLower(rep.Identifier) {
		case "axis", "footprint", "box", "annotation":
			continue
		}
		body = append(body, rep)
	}
	return body
}

// item tessellates one representation item into s under transform m
func (n *Native) item(s *soup, id int, m geometry.Transform, depth int) error {
	if depth >= maxItemDepth {
		return fmt.Errorf("item #%d nested deeper than %d", id, maxItemDepth)
	}
	in, ok := n.file.Get(id)
	if !ok {
		return fmt.Errorf("missing item #%d", id)
	}

	w := s.writer(m)

	switch in.Type {
	case "IFCTRIANGULATEDFACESET", "IFCTRIANGULATEDIRREGULARNETWORK":
		return n.triangulatedFaceSet(w, in)
	case "IFCPOLYGONALFACESET":
		return n.polygonalFaceSet(w, in)
	case "IFCFACETEDBREP", "IFCFACETEDBREPWITHVOIDS":
		return n.shell(w, in.Arg(0))
	case "IFCSHELLBASEDSURFACEMODEL", "IFCFACEBASEDSURFACEMODEL":
		for _, shell := range in.Arg(0).Refs() {
			if err := n.shell(w, step.Value{Kind: step.KindRef, Ref: shell}); err != nil {
				return err
			}
		}
		return nil
	case "IFCEXTRUDEDAREASOLID":
		return n.extrudedAreaSolid(w, in)
	case "IFCBOOLEANCLIPPINGRESULT":
		// The clipped solid is drawn unclipped
		first, ok := in.Arg(1).AsRef()
		if !ok {
			return fmt.Errorf("clipping result #%d without operand", in.ID)
		}
		return n.item(s, first, m, depth+1)
	case "IFCMAPPEDITEM":
		return n.mappedItem(s, in, m, depth)
	}

	return fmt.Errorf("%w: %s", ErrUnsupported, in.Type)
}

func (n *Native) mappedItem(s *soup, in *step.Instance, m geometry.Transform, depth int) error {
	source, ok := n.file.Deref(in.Arg(0))
	if !ok || source.Type != "IFCREPRESENTATIONMAP" {
		return fmt.Errorf("mapped item #%d without representation map", in.ID)
	}

	origin, err := n.axisPlacement(source.Arg(0))
	if err != nil {
		return err
	}
	target, err := n.cartesianOperator(in.Arg(1))
	if err != nil {
		return err
	}

	rep, ok := n.file.Deref(source.Arg(1))
	if !ok {
		return fmt.Errorf("representation map #%d without representation", source.ID)
	}

	mapped := m.Mul(target).Mul(origin)
	for _, id := range rep.Arg(3).Refs() {
		if err := n.item(s, id, mapped, depth+1); err != nil {
			return err
		}
	}
	return nil
}
