package appearance

import (
	"fmt"

	"github.com/philipparndt/goifc/pkg/ifc"
)

// TextureSource provides the entities a TextureIndex is built from
type TextureSource interface {
	Textures() ([]ifc.Texture, error)
	SurfaceStyles() ([]ifc.SurfaceStyle, error)
	StyledItems() ([]ifc.StyledItem, error)
}

// TextureIndex maps texture, style and styled item ids to texture URLs
type TextureIndex struct {
	urls map[int]string
}

// Lookup returns the texture reference recorded for id
func (t *TextureIndex) Lookup(id int) (string, bool) {
	if t == nil {
		return "", false
	}
	url, ok := t.urls[id]
	return url, ok
}

// Len returns the number of recorded ids
func (t *TextureIndex) Len() int {
	if t == nil {
		return 0
	}
	return len(t.urls)
}

// BuildTextureIndex records the URL of every image texture, then links the
// surface styles carrying those textures, then the styled items referencing
// those styles. Pixel textures have no URL and are never recorded.
func BuildTextureIndex(src TextureSource) (*TextureIndex, error) {
	empty := &TextureIndex{urls: map[int]string{}}

	textures, err := src.Textures()
	if err != nil {
		return empty, fmt.Errorf("%w: failed to read textures: %w", ErrSoftExtraction, err)
	}
	styles, err := src.SurfaceStyles()
	if err != nil {
		return empty, fmt.Errorf("%w: failed to read surface styles: %w", ErrSoftExtraction, err)
	}
	items, err := src.StyledItems()
	if err != nil {
		return empty, fmt.Errorf("%w: failed to read styled items: %w", ErrSoftExtraction, err)
	}

	urls := make(map[int]string)
	for _, texture := range textures {
		if texture.URL != "" {
			urls[texture.ID] = texture.URL
		}
	}

	styleURLs := make(map[int]string)
	for _, style := range styles {
		if url, ok := firstKnown(style.Textures, urls); ok {
			styleURLs[style.ID] = url
		}
	}

	itemURLs := make(map[int]string)
	for _, item := range items {
		if url, ok := firstKnown(item.StyleRefs, styleURLs); ok {
			itemURLs[item.ID] = url
		}
	}

	for id, url := range styleURLs {
		urls[id] = url
	}
	for id, url := range itemURLs {
		urls[id] = url
	}

	return &TextureIndex{urls: urls}, nil
}
