package appearance

import (
	"fmt"

	"github.com/philipparndt/goifc/pkg/ifc"
)

// ColorSource provides the entities a ColorIndex is built from
type ColorSource interface {
	SurfaceStyles() ([]ifc.SurfaceStyle, error)
	Materials() ([]ifc.Material, error)
	StyledItems() ([]ifc.StyledItem, error)
}

// ColorIndex maps style, material and styled item ids to colours. It is
// immutable once built and safe for concurrent readers.
type ColorIndex struct {
	colors map[int]RGBA
}

// Lookup returns the colour recorded for id
func (c *ColorIndex) Lookup(id int) (RGBA, bool) {
	if c == nil {
		return RGBA{}, false
	}
	color, ok := c.colors[id]
	return color, ok
}

// Len returns the number of recorded ids
func (c *ColorIndex) Len() int {
	if c == nil {
		return 0
	}
	return len(c.colors)
}

// BuildColorIndex builds the index in three stages. Each stage copies
// colours resolved by the stages before it:
//
//  1. surface styles with a coloured rendering
//  2. materials whose representation references a stage 1 style
//  3. styled items referencing a style or material from stages 1 and 2
//
// On failure an empty index is returned together with an error wrapping
// ErrSoftExtraction.
func BuildColorIndex(src ColorSource) (*ColorIndex, error) {
	empty := &ColorIndex{colors: map[int]RGBA{}}

	styles, err := src.SurfaceStyles()
	if err != nil {
		return empty, fmt.Errorf("%w: failed to read surface styles: %w", ErrSoftExtraction, err)
	}
	materials, err := src.Materials()
	if err != nil {
		return empty, fmt.Errorf("%w: failed to read materials: %w", ErrSoftExtraction, err)
	}
	items, err := src.StyledItems()
	if err != nil {
		return empty, fmt.Errorf("%w: failed to read styled items: %w", ErrSoftExtraction, err)
	}

	styleStage := styleColors(styles)
	materialStage := materialColors(materials, styleStage)

	resolved := make(map[int]RGBA, len(styleStage)+len(materialStage)+len(items))
	for id, color := range styleStage {
		resolved[id] = color
	}
	for id, color := range materialStage {
		resolved[id] = color
	}

	for id, color := range styledItemColors(items, resolved) {
		resolved[id] = color
	}

	return &ColorIndex{colors: resolved}, nil
}

// styleColors takes the last coloured rendering of each style
func styleColors(styles []ifc.SurfaceStyle) map[int]RGBA {
	colors := make(map[int]RGBA, len(styles))
	for _, style := range styles {
		for _, rendering := range style.Renderings {
			if rendering.Colour == nil {
				continue
			}
			colors[style.ID] = FromColour(*rendering.Colour, rendering.Transparency)
		}
	}
	return colors
}

func materialColors(materials []ifc.Material, styles map[int]RGBA) map[int]RGBA {
	colors := make(map[int]RGBA)
	for _, material := range materials {
		if color, ok := firstKnown(material.StyleRefs, styles); ok {
			colors[material.ID] = color
		}
	}
	return colors
}

func styledItemColors(items []ifc.StyledItem, known map[int]RGBA) map[int]RGBA {
	colors := make(map[int]RGBA)
	for _, item := range items {
		if color, ok := firstKnown(item.StyleRefs, known); ok {
			colors[item.ID] = color
		}
	}
	return colors
}

func firstKnown[V any](ids []int, known map[int]V) (V, bool) {
	for _, id := range ids {
		if v, ok := known[id]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}
