package ifc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/philipparndt/goifc/pkg/step"
)

// ReferenceError reports an attribute that references a missing instance
type ReferenceError struct {
	From int
	To   int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("#%d references missing instance #%d", e.From, e.To)
}

// Model answers the converter's queries against a parsed IFC file
type Model struct {
	Path string
	File *step.File

	styledBy     map[int][]int // representation item id -> styled item ids
	associations map[int][]int // object id -> relating material ids
}

// Open parses the IFC file at path
func Open(path string) (*Model, error) {
	f, err := step.Parse(path)
	if err != nil {
		return nil, err
	}
	m := New(f)
	m.Path = path
	return m, nil
}

// New wraps an already parsed physical file
func New(f *step.File) *Model {
	m := &Model{
		File:         f,
		styledBy:     make(map[int][]int),
		associations: make(map[int][]int),
	}

	for _, si := range f.ByType("IFCSTYLEDITEM") {
		if item, ok := si.Arg(0).AsRef(); ok {
			m.styledBy[item] = append(m.styledBy[item], si.ID)
		}
	}

	for _, rel := range f.ByType("IFCRELASSOCIATESMATERIAL") {
		material, ok := rel.Arg(5).AsRef()
		if !ok {
			continue
		}
		for _, obj := range rel.Arg(4).Refs() {
			m.associations[obj] = append(m.associations[obj], material)
		}
	}

	return m
}

// Schema returns the declared schema, e.g. IFC2X3 or IFC4
func (m *Model) Schema() string {
	return m.File.Schema()
}

func (m *Model) deref(from *step.Instance, v step.Value) (*step.Instance, error) {
	id, ok := v.AsRef()
	if !ok {
		return nil, nil
	}
	in, ok := m.File.Get(id)
	if !ok {
		return nil, &ReferenceError{From: from.ID, To: id}
	}
	return in, nil
}

// styleRefs flattens a style select list. IfcPresentationStyleAssignment
// (IFC2x3) is replaced by the styles it groups.
func (m *Model) styleRefs(from *step.Instance, list step.Value) ([]int, error) {
	var refs []int
	for _, id := range list.Refs() {
		in, ok := m.File.Get(id)
		if !ok {
			return nil, &ReferenceError{From: from.ID, To: id}
		}
		if in.Type == "IFCPRESENTATIONSTYLEASSIGNMENT" {
			inner, err := m.styleRefs(in, in.Arg(0))
			if err != nil {
				return nil, err
			}
			refs = append(refs, inner...)
			continue
		}
		refs = append(refs, id)
	}
	return refs, nil
}

// SurfaceStyles returns every IfcSurfaceStyle in declared order
func (m *Model) SurfaceStyles() ([]SurfaceStyle, error) {
	instances := m.File.ByType("IFCSURFACESTYLE")
	styles := make([]SurfaceStyle, 0, len(instances))

	for _, in := range instances {
		style := SurfaceStyle{ID: in.ID}
		style.Name, _ = in.Arg(0).AsString()

		for _, id := range in.Arg(2).Refs() {
			element, ok := m.File.Get(id)
			if !ok {
				return nil, &ReferenceError{From: in.ID, To: id}
			}

			switch element.Type {
			case "IFCSURFACESTYLERENDERING":
				rendering, err := m.rendering(element)
				if err != nil {
					return nil, err
				}
				style.Renderings = append(style.Renderings, rendering)
			case "IFCSURFACESTYLEWITHTEXTURES":
				style.Textures = append(style.Textures, element.Arg(0).Refs()...)
			}
		}

		styles = append(styles, style)
	}

	return styles, nil
}

func (m *Model) rendering(in *step.Instance) (Rendering, error) {
	var r Rendering

	colour, err := m.deref(in, in.Arg(0))
	if err != nil {
		return r, err
	}
	if colour != nil && colour.Type == "IFCCOLOURRGB" {
		red, okR := colour.Arg(1).AsFloat()
		green, okG := colour.Arg(2).AsFloat()
		blue, okB := colour.Arg(3).AsFloat()
		if !okR || !okG || !okB {
			return r, fmt.Errorf("#%d: colour channels are not numeric", colour.ID)
		}
		r.Colour = &Colour{R: red, G: green, B: blue}
	}

	r.Transparency = rawText(in.Arg(1))
	return r, nil
}

// rawText renders a value for later numeric parsing: numbers in plain
// decimal form, anything else as written in the file, unset as "".
func rawText(v step.Value) string {
	if v.IsNull() {
		return ""
	}
	if f, ok := v.AsFloat(); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	return v.Unwrap().String()
}

// Materials returns every IfcMaterial in declared order together with the
// styles referenced through its material definition representations.
func (m *Model) Materials() ([]Material, error) {
	represented := make(map[int][]*step.Instance)
	for _, rep := range m.File.ByType("IFCMATERIALDEFINITIONREPRESENTATION") {
		if mat, ok := rep.Arg(3).AsRef(); ok {
			represented[mat] = append(represented[mat], rep)
		}
	}

	instances := m.File.ByType("IFCMATERIAL")
	materials := make([]Material, 0, len(instances))

	for _, in := range instances {
		material := Material{ID: in.ID}
		material.Name, _ = in.Arg(0).AsString()

		for _, def := range represented[in.ID] {
			for _, repID := range def.Arg(2).Refs() {
				rep, ok := m.File.Get(repID)
				if !ok {
					return nil, &ReferenceError{From: def.ID, To: repID}
				}
				for _, itemID := range rep.Arg(3).Refs() {
					item, ok := m.File.Get(itemID)
					if !ok {
						return nil, &ReferenceError{From: rep.ID, To: itemID}
					}
					switch item.Type {
					case "IFCSURFACESTYLE":
						material.StyleRefs = append(material.StyleRefs, item.ID)
					case "IFCSTYLEDITEM":
						refs, err := m.styleRefs(item, item.Arg(1))
						if err != nil {
							return nil, err
						}
						material.StyleRefs = append(material.StyleRefs, refs...)
					}
				}
			}
		}

		materials = append(materials, material)
	}

	return materials, nil
}

// StyledItems returns every IfcStyledItem in declared order
func (m *Model) StyledItems() ([]StyledItem, error) {
	instances := m.File.ByType("IFCSTYLEDITEM")
	items := make([]StyledItem, 0, len(instances))

	for _, in := range instances {
		refs, err := m.styleRefs(in, in.Arg(1))
		if err != nil {
			return nil, err
		}
		item := StyledItem{ID: in.ID, StyleRefs: refs}
		item.Item, _ = in.Arg(0).AsRef()
		items = append(items, item)
	}

	return items, nil
}

// Textures returns image textures followed by pixel textures. Only image
// textures carry a URL reference; its position depends on the schema.
func (m *Model) Textures() ([]Texture, error) {
	urlArg := 5
	if strings.HasPrefix(m.Schema(), "IFC2X") {
		urlArg = 4
	}

	var textures []Texture
	for _, in := range m.File.ByType("IFCIMAGETEXTURE") {
		url, _ := in.Arg(urlArg).AsString()
		textures = append(textures, Texture{ID: in.ID, Kind: KindImageTexture, URL: url})
	}
	for _, in := range m.File.ByType("IFCPIXELTEXTURE") {
		textures = append(textures, Texture{ID: in.ID, Kind: KindPixelTexture})
	}

	return textures, nil
}

// Elements returns, in declared order, every rooted object whose
// Representation attribute holds an IfcProductDefinitionShape with at least
// one representation.
func (m *Model) Elements() ([]Element, error) {
	var elements []Element

	for _, in := range m.File.Instances() {
		if len(in.Args) < 7 {
			continue
		}
		guid, ok := in.Arg(0).AsString()
		if !ok {
			continue
		}
		shape, ok := m.File.Deref(in.Arg(6))
		if !ok || shape.Type != "IFCPRODUCTDEFINITIONSHAPE" {
			continue
		}

		element := Element{ID: in.ID, GlobalID: guid, Type: in.Type}
		element.Name, _ = in.Arg(2).AsString()
		element.Placement, _ = in.Arg(5).AsRef()

		for _, repID := range shape.Arg(2).Refs() {
			rep, ok := m.File.Get(repID)
			if !ok {
				return nil, &ReferenceError{From: shape.ID, To: repID}
			}
			element.Representations = append(element.Representations, m.representation(rep))
		}
		if len(element.Representations) == 0 {
			continue
		}

		element.Materials = m.materialRefs(in.ID)
		elements = append(elements, element)
	}

	return elements, nil
}

func (m *Model) representation(in *step.Instance) Representation {
	rep := Representation{ID: in.ID}
	rep.Identifier, _ = in.Arg(1).AsString()
	rep.Type, _ = in.Arg(2).AsString()

	for _, id := range in.Arg(3).Refs() {
		item := Item{ID: id, StyledBy: m.styledBy[id]}
		if it, ok := m.File.Get(id); ok {
			item.Type = it.Type
		}
		rep.Items = append(rep.Items, item)
	}
	return rep
}

// materialRefs maps the material associations of an object. Associations
// to unsupported material selects are dropped.
func (m *Model) materialRefs(object int) []MaterialRef {
	var refs []MaterialRef
	for _, id := range m.associations[object] {
		in, ok := m.File.Get(id)
		if !ok {
			continue
		}

		switch in.Type {
		case "IFCMATERIAL":
			refs = append(refs, MaterialRef{Kind: KindMaterial, Material: id})
		case "IFCMATERIALLAYERSETUSAGE":
			if set, ok := m.File.Deref(in.Arg(0)); ok && set.Type == "IFCMATERIALLAYERSET" {
				refs = append(refs, m.layerSet(set))
			}
		case "IFCMATERIALLAYERSET":
			refs = append(refs, m.layerSet(in))
		}
	}
	return refs
}

func (m *Model) layerSet(in *step.Instance) MaterialRef {
	ref := MaterialRef{Kind: KindLayerSet}
	for _, id := range in.Arg(0).Refs() {
		material := 0
		if layer, ok := m.File.Get(id); ok {
			material, _ = layer.Arg(0).AsRef()
		}
		ref.Layers = append(ref.Layers, material)
	}
	return ref
}
