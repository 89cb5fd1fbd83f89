// Package appearance resolves the colour or texture of building elements
// from the styles, materials and styled items of a model.
package appearance

import (
	"math"
	"strconv"
	"strings"

	"github.com/philipparndt/goifc/pkg/ifc"
)

// RGBA is a colour with channels in [0,1]
type RGBA struct {
	R, G, B, A float64
}

// DefaultColor is applied to elements without a resolvable colour
var DefaultColor = RGBA{R: 0.784, G: 0.784, B: 0.784, A: 1.0}

// FromColour converts an IFC colour and its raw transparency text. Channels
// are clamped to [0,1]. Alpha is 1-t for a transparency t in [0,1] and
// opaque for anything else.
func FromColour(c ifc.Colour, transparency string) RGBA {
	return RGBA{
		R: clamp01(c.R),
		G: clamp01(c.G),
		B: clamp01(c.B),
		A: alpha(transparency),
	}
}

func alpha(transparency string) float64 {
	t, err := strconv.ParseFloat(strings.TrimSpace(transparency), 64)
	if err != nil || math.IsNaN(t) || t < 0 || t > 1 {
		return 1.0
	}
	return 1 - t
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Bytes returns the colour as 8-bit channels
func (c RGBA) Bytes() [4]uint8 {
	return [4]uint8{toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

// Opaque reports whether alpha is 1
func (c RGBA) Opaque() bool {
	return c.A >= 1
}
