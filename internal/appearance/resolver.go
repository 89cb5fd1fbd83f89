package appearance

import "github.com/philipparndt/goifc/pkg/ifc"

// Kind tells which variant an Appearance holds
type Kind int

const (
	None Kind = iota
	Color
	Texture
)

func (k Kind) String() string {
	switch k {
	case Color:
		return "color"
	case Texture:
		return "texture"
	}
	return "none"
}

// Appearance is the resolved appearance of an element: a colour, a texture
// reference or nothing
type Appearance struct {
	Kind    Kind
	Color   RGBA
	Texture string
}

// ColorOrDefault returns the colour, or DefaultColor unless Kind is Color
func (a Appearance) ColorOrDefault() RGBA {
	if a.Kind == Color {
		return a.Color
	}
	return DefaultColor
}

// Resolver resolves element appearances against two finished indices
type Resolver struct {
	colors   *ColorIndex
	textures *TextureIndex
}

// NewResolver creates a resolver. Nil indices behave as empty.
func NewResolver(colors *ColorIndex, textures *TextureIndex) *Resolver {
	return &Resolver{colors: colors, textures: textures}
}

// Resolve returns the appearance of an element. The first match wins:
//
//  1. a single material association with a known colour
//  2. the first layer of a layered material set with a known colour
//  3. the styled items of the representation items, colour before texture
//
// Otherwise the appearance is None.
func (r *Resolver) Resolve(e ifc.Element) Appearance {
	for _, ref := range e.Materials {
		if ref.Kind != ifc.KindMaterial {
			continue
		}
		if color, ok := r.colors.Lookup(ref.Material); ok {
			return Appearance{Kind: Color, Color: color}
		}
	}

	for _, ref := range e.Materials {
		if ref.Kind != ifc.KindLayerSet {
			continue
		}
		for _, layer := range ref.Layers {
			if color, ok := r.colors.Lookup(layer); ok {
				return Appearance{Kind: Color, Color: color}
			}
		}
	}

	for _, item := range e.Items() {
		for _, style := range item.StyledBy {
			if color, ok := r.colors.Lookup(style); ok {
				return Appearance{Kind: Color, Color: color}
			}
			if url, ok := r.textures.Lookup(style); ok {
				return Appearance{Kind: Texture, Texture: url}
			}
		}
	}

	return Appearance{}
}
