// Package ifc maps the instances of an IFC physical file into the small set
// of typed entities the converter distinguishes. Optional attributes are
// decided here, once, so consumers never inspect raw STEP values.
package ifc

// Kind is the closed set of entity kinds the converter distinguishes
type Kind int

const (
	KindUnknown Kind = iota
	KindMaterial
	KindLayerSet
	KindSurfaceStyle
	KindStyledItem
	KindImageTexture
	KindPixelTexture
)

func (k Kind) String() string {
	switch k {
	case KindMaterial:
		return "Material"
	case KindLayerSet:
		return "LayeredMaterialSet"
	case KindSurfaceStyle:
		return "Style"
	case KindStyledItem:
		return "StyledItem"
	case KindImageTexture:
		return "ImageTexture"
	case KindPixelTexture:
		return "PixelTexture"
	}
	return "Unknown"
}

// Colour is an IfcColourRgb with unclamped channels
type Colour struct {
	R, G, B float64
}

// Rendering is an IfcSurfaceStyleRendering definition
type Rendering struct {
	// Colour is nil when the rendering has no SurfaceColour
	Colour *Colour

	// Transparency is the raw attribute text, empty when unset. It is not
	// guaranteed to be numeric.
	Transparency string
}

// SurfaceStyle is an IfcSurfaceStyle
type SurfaceStyle struct {
	ID         int
	Name       string
	Renderings []Rendering
	Textures   []int // texture ids from IfcSurfaceStyleWithTextures, declared order
}

// Material is an IfcMaterial with the styles its representations reference
type Material struct {
	ID        int
	Name      string
	StyleRefs []int
}

// StyledItem is an IfcStyledItem binding styles onto a representation item
type StyledItem struct {
	ID        int
	Item      int // 0 when the styled item is not attached to an item
	StyleRefs []int
}

// Texture is an IfcImageTexture or IfcPixelTexture
type Texture struct {
	ID   int
	Kind Kind
	URL  string // empty when the texture carries no URL reference
}

// MaterialRef is one material association of an element
type MaterialRef struct {
	Kind Kind // KindMaterial or KindLayerSet

	// Material is the associated IfcMaterial id for KindMaterial
	Material int

	// Layers holds the layer material ids in declared order for KindLayerSet.
	// Layers without a material are 0.
	Layers []int
}

// Item is a representation item of an element
type Item struct {
	ID       int
	Type     string
	StyledBy []int // ids of the styled items attached to this item
}

// Representation is an IfcShapeRepresentation of an element
type Representation struct {
	ID         int
	Identifier string // e.g. Body, Axis
	Type       string // e.g. Brep, SweptSolid, Tessellation
	Items      []Item
}

// Element is a product that carries a shape representation
type Element struct {
	ID              int
	GlobalID        string
	Type            string
	Name            string
	Placement       int // IfcObjectPlacement id, 0 when absent
	Materials       []MaterialRef
	Representations []Representation
}

// Items returns the representation items of every representation in order
func (e Element) Items() []Item {
	var items []Item
	for _, rep := range e.Representations {
		items = append(items, rep.Items...)
	}
	return items
}
